package drafts

import (
	"context"
	"sort"
	"sync"
	"time"
)

type pairKey struct {
	consultantID string
	jobID        string
}

// MemoryRepo stores drafts in memory and is safe for concurrent use. Version
// assignment is serialized by the repo mutex.
type MemoryRepo struct {
	mu       sync.RWMutex
	byID     map[string]Draft
	byPair   map[pairKey][]string
	versions map[pairKey]int
	now      func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:     make(map[string]Draft),
		byPair:   make(map[pairKey][]string),
		versions: make(map[pairKey]int),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores the draft under the pair's next version.
func (r *MemoryRepo) Create(ctx context.Context, d Draft) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	if d.ID == "" || d.ConsultantID == "" || d.JobID == "" {
		return Draft{}, ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[d.ID]; exists {
		return Draft{}, ErrInvalidInput
	}
	key := pairKey{d.ConsultantID, d.JobID}
	r.versions[key]++
	d.Version = r.versions[key]
	if d.CreatedAt.IsZero() {
		d.CreatedAt = r.now()
	}
	d.UpdatedAt = d.CreatedAt
	r.byID[d.ID] = d
	r.byPair[key] = append(r.byPair[key], d.ID)
	return d, nil
}

// Get returns a draft by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

// ListByPair returns the pair's drafts ordered by version descending.
func (r *MemoryRepo) ListByPair(ctx context.Context, consultantID, jobID string) ([]Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := r.byPair[pairKey{consultantID, jobID}]
	out := make([]Draft, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Version > out[j].Version
	})
	return out, nil
}

// Update replaces the mutable fields of a stored draft.
func (r *MemoryRepo) Update(ctx context.Context, d Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[d.ID]
	if !ok {
		return ErrNotFound
	}
	if !CanUpdate(existing.Status, d.Status) {
		return ErrInvalidTransition
	}
	d.ConsultantID = existing.ConsultantID
	d.JobID = existing.JobID
	d.Version = existing.Version
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = r.now()
	r.byID[d.ID] = d
	return nil
}

// Promote marks the draft Final after demoting the pair's current Final.
func (r *MemoryRepo) Promote(ctx context.Context, id string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	if !d.Status.Promotable() {
		return Draft{}, ErrInvalidTransition
	}
	now := r.now()
	for _, otherID := range r.byPair[pairKey{d.ConsultantID, d.JobID}] {
		other := r.byID[otherID]
		if otherID == id || other.Status != StatusFinal {
			continue
		}
		other.Status = StatusDraft
		other.UpdatedAt = now
		r.byID[otherID] = other
	}
	d.Status = StatusFinal
	d.UpdatedAt = now
	r.byID[id] = d
	return d, nil
}

var _ Repo = (*MemoryRepo)(nil)
