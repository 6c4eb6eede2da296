package drafts

import "context"

// Repo defines persistence operations for drafts.
type Repo interface {
	// Create stores d under the next version for its pair and returns the stored draft.
	Create(ctx context.Context, d Draft) (Draft, error)
	Get(ctx context.Context, id string) (Draft, error)
	// ListByPair returns the pair's drafts, newest version first.
	ListByPair(ctx context.Context, consultantID, jobID string) ([]Draft, error)
	Update(ctx context.Context, d Draft) error
	// Promote demotes any Final draft of the pair to Draft and marks id Final, atomically.
	Promote(ctx context.Context, id string) (Draft, error)
}
