package usage

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Append(ctx context.Context, r Record) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO llm_usage (id, draft_id, provider, model, prompt_tokens, completion_tokens, total_tokens,
    input_cost, output_cost, total_cost, latency_ms, success, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		r.ID,
		nullString(r.DraftID),
		r.Provider,
		r.Model,
		r.PromptTokens,
		r.CompletionTokens,
		r.TotalTokens,
		r.Cost.Input,
		r.Cost.Output,
		r.Cost.Total,
		r.LatencyMS,
		r.Success,
		nullString(r.Error),
		r.CreatedAt,
	)
	return err
}

func (s *PGStore) TokensBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := s.DB.QueryRowContext(ctx, `
SELECT COALESCE(SUM(total_tokens), 0) FROM llm_usage WHERE created_at >= $1 AND created_at < $2`,
		from, to).Scan(&total)
	return total, err
}

func (s *PGStore) ListByDraft(ctx context.Context, draftID string) ([]Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, draft_id, provider, model, prompt_tokens, completion_tokens, total_tokens,
    input_cost, output_cost, total_cost, latency_ms, success, error_message, created_at
FROM llm_usage
WHERE draft_id = $1
ORDER BY created_at ASC`, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			r              Record
			draft, errText sql.NullString
		)
		if err := rows.Scan(
			&r.ID,
			&draft,
			&r.Provider,
			&r.Model,
			&r.PromptTokens,
			&r.CompletionTokens,
			&r.TotalTokens,
			&r.Cost.Input,
			&r.Cost.Output,
			&r.Cost.Total,
			&r.LatencyMS,
			&r.Success,
			&errText,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.DraftID = draft.String
		r.Error = errText.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Store = (*PGStore)(nil)
