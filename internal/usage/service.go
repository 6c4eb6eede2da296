package usage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists usage records.
type Store interface {
	Append(ctx context.Context, r Record) error
	// TokensBetween sums TotalTokens for records created in [from, to).
	TokensBetween(ctx context.Context, from, to time.Time) (int64, error)
	ListByDraft(ctx context.Context, draftID string) ([]Record, error)
}

// Service records model usage and enforces the monthly token cap.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return NewStoreService(NewMemoryStore())
}

// NewStoreService constructs a Service backed by store.
func NewStoreService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Record fills derived fields (ID, totals, cost, timestamp) and appends the record.
func (s *Service) Record(ctx context.Context, r Record) (Record, error) {
	if strings.TrimSpace(r.Model) == "" {
		return Record{}, ErrInvalidRecord
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.PromptTokens < 0 {
		r.PromptTokens = 0
	}
	if r.CompletionTokens < 0 {
		r.CompletionTokens = 0
	}
	r.TotalTokens = r.PromptTokens + r.CompletionTokens
	r.Cost = CostFor(r.Model, r.PromptTokens, r.CompletionTokens)
	if err := s.store.Append(ctx, r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// MonthlyTokens sums tokens recorded in the calendar month containing at.
func (s *Service) MonthlyTokens(ctx context.Context, at time.Time) (int64, error) {
	from, to := MonthWindow(at)
	return s.store.TokensBetween(ctx, from, to)
}

// CapReached reports whether month-to-date tokens have reached limit. A non-positive
// limit disables the cap. The check reads then compares, so concurrent generations may
// overshoot the cap by their own consumption.
func (s *Service) CapReached(ctx context.Context, limit int64, at time.Time) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	used, err := s.MonthlyTokens(ctx, at)
	if err != nil {
		return false, err
	}
	return used >= limit, nil
}

// Summarize reports month-to-date consumption against limit.
func (s *Service) Summarize(ctx context.Context, limit int64, at time.Time) (Summary, error) {
	if at.IsZero() {
		at = s.now()
	}
	used, err := s.MonthlyTokens(ctx, at)
	if err != nil {
		return Summary{}, err
	}
	from, _ := MonthWindow(at)
	out := Summary{Month: from.Format("2006-01"), TokensUsed: used, Cap: limit}
	if limit > 0 {
		out.Remaining = limit - used
		if out.Remaining < 0 {
			out.Remaining = 0
		}
		out.CapReached = used >= limit
	}
	return out, nil
}

// ForDraft lists the usage records attributed to a draft, oldest first.
func (s *Service) ForDraft(ctx context.Context, draftID string) ([]Record, error) {
	return s.store.ListByDraft(ctx, draftID)
}
