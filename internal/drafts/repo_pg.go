package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const createAttempts = 3

// PGRepo implements Repo using Postgres. Versions are claimed with
// INSERT ... SELECT MAX(version)+1 under the (consultant_id, job_id, version) unique
// constraint, retrying when a concurrent insert wins the same version.
type PGRepo struct {
	DB *sql.DB
}

const draftColumns = `id, consultant_id, job_id, version, status, content, bullets, validation_errors,
    validation_warnings, ats_score, tokens_used, prompt_payload, input_summary, error_message,
    created_at, updated_at`

// Create inserts the draft under the pair's next version.
func (r *PGRepo) Create(ctx context.Context, d Draft) (Draft, error) {
	if d.ID == "" || d.ConsultantID == "" || d.JobID == "" {
		return Draft{}, ErrInvalidInput
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.UpdatedAt = d.CreatedAt
	payload, err := encodeJSONColumns(d)
	if err != nil {
		return Draft{}, err
	}

	const query = `
INSERT INTO resume_drafts (` + draftColumns + `)
SELECT $1::text, $2::text, $3::text, COALESCE(MAX(version), 0) + 1, $4::text, $5::text, $6::jsonb, $7::jsonb,
    $8::jsonb, $9::int, $10::int, $11::jsonb, $12::jsonb, $13::text, $14::timestamptz, $14::timestamptz
FROM resume_drafts
WHERE consultant_id = $2 AND job_id = $3
RETURNING version`

	for attempt := 0; attempt < createAttempts; attempt++ {
		err = r.DB.QueryRowContext(ctx, query,
			d.ID,
			d.ConsultantID,
			d.JobID,
			string(d.Status),
			d.Content,
			payload.bullets,
			payload.errors,
			payload.warnings,
			d.ATSScore,
			d.TokensUsed,
			payload.prompt,
			payload.summary,
			d.Error,
			d.CreatedAt,
		).Scan(&d.Version)
		if err == nil {
			return d, nil
		}
		if !isUniqueViolation(err) {
			return Draft{}, err
		}
	}
	return Draft{}, fmt.Errorf("%w: %v", ErrVersionConflict, err)
}

// Get returns a draft by ID.
func (r *PGRepo) Get(ctx context.Context, id string) (Draft, error) {
	query := `
SELECT ` + draftColumns + `
FROM resume_drafts
WHERE id = $1
LIMIT 1`
	d, err := scanDraft(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	return d, nil
}

// ListByPair lists the pair's drafts ordered by version descending.
func (r *PGRepo) ListByPair(ctx context.Context, consultantID, jobID string) ([]Draft, error) {
	query := `
SELECT ` + draftColumns + `
FROM resume_drafts
WHERE consultant_id = $1 AND job_id = $2
ORDER BY version DESC`
	rows, err := r.DB.QueryContext(ctx, query, consultantID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of a draft after checking the transition under a
// row lock.
func (r *PGRepo) Update(ctx context.Context, d Draft) error {
	payload, err := encodeJSONColumns(d)
	if err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM resume_drafts WHERE id = $1 FOR UPDATE`, d.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}
	if !CanUpdate(Status(current), d.Status) {
		err = ErrInvalidTransition
		return err
	}

	if _, err = tx.ExecContext(ctx, `
UPDATE resume_drafts
SET status = $2, content = $3, bullets = $4, validation_errors = $5, validation_warnings = $6,
    ats_score = $7, tokens_used = $8, prompt_payload = $9, input_summary = $10, error_message = $11,
    updated_at = $12
WHERE id = $1`,
		d.ID,
		string(d.Status),
		d.Content,
		payload.bullets,
		payload.errors,
		payload.warnings,
		d.ATSScore,
		d.TokensUsed,
		payload.prompt,
		payload.summary,
		d.Error,
		time.Now().UTC(),
	); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// Promote demotes the pair's Final draft and promotes id in one transaction.
func (r *PGRepo) Promote(ctx context.Context, id string) (Draft, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Draft{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var consultantID, jobID, status string
	err = tx.QueryRowContext(ctx, `
SELECT consultant_id, job_id, status FROM resume_drafts WHERE id = $1 FOR UPDATE`, id).Scan(&consultantID, &jobID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return Draft{}, err
	}
	if !Status(status).Promotable() {
		err = ErrInvalidTransition
		return Draft{}, err
	}

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
UPDATE resume_drafts SET status = $1, updated_at = $2
WHERE consultant_id = $3 AND job_id = $4 AND status = $5 AND id <> $6`,
		string(StatusDraft), now, consultantID, jobID, string(StatusFinal), id); err != nil {
		return Draft{}, err
	}
	if _, err = tx.ExecContext(ctx, `
UPDATE resume_drafts SET status = $1, updated_at = $2 WHERE id = $3`,
		string(StatusFinal), now, id); err != nil {
		return Draft{}, err
	}
	if err = tx.Commit(); err != nil {
		return Draft{}, err
	}
	return r.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (Draft, error) {
	var (
		d                                        Draft
		status                                   string
		bullets, errs, warnings, prompt, summary []byte
		errorMessage                             sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.ConsultantID,
		&d.JobID,
		&d.Version,
		&status,
		&d.Content,
		&bullets,
		&errs,
		&warnings,
		&d.ATSScore,
		&d.TokensUsed,
		&prompt,
		&summary,
		&errorMessage,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return Draft{}, err
	}
	d.Status = Status(status)
	d.Error = errorMessage.String
	for _, col := range []struct {
		raw  []byte
		dest any
	}{
		{bullets, &d.Bullets},
		{errs, &d.ValidationErrors},
		{warnings, &d.ValidationWarnings},
		{prompt, &d.Prompt},
		{summary, &d.InputSummary},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return Draft{}, fmt.Errorf("decode draft %s: %w", d.ID, err)
		}
	}
	if d.ValidationErrors == nil {
		d.ValidationErrors = []string{}
	}
	if d.ValidationWarnings == nil {
		d.ValidationWarnings = []string{}
	}
	return d, nil
}

type jsonColumns struct {
	bullets, errors, warnings, prompt, summary []byte
}

func encodeJSONColumns(d Draft) (jsonColumns, error) {
	var out jsonColumns
	var err error
	errs := d.ValidationErrors
	if errs == nil {
		errs = []string{}
	}
	warnings := d.ValidationWarnings
	if warnings == nil {
		warnings = []string{}
	}
	bullets := d.Bullets
	if bullets == nil {
		bullets = map[string][]string{}
	}
	if out.bullets, err = json.Marshal(bullets); err != nil {
		return out, err
	}
	if out.errors, err = json.Marshal(errs); err != nil {
		return out, err
	}
	if out.warnings, err = json.Marshal(warnings); err != nil {
		return out, err
	}
	if out.prompt, err = json.Marshal(d.Prompt); err != nil {
		return out, err
	}
	if out.summary, err = json.Marshal(d.InputSummary); err != nil {
		return out, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repo = (*PGRepo)(nil)
