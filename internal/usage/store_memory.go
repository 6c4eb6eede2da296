package usage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps usage records in memory and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *MemoryStore) TokensBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, r := range s.records {
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			total += r.TotalTokens
		}
	}
	return total, nil
}

func (s *MemoryStore) ListByDraft(ctx context.Context, draftID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := []Record{}
	for _, r := range s.records {
		if r.DraftID == draftID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
