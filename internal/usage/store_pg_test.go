package usage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO llm_usage").
		WithArgs("u-1", sql.NullString{String: "d-1", Valid: true}, "openai", "gpt-4o", int64(10), int64(5), int64(15),
			0.000025, 0.00005, 0.000075, int64(120), false, sql.NullString{String: "rate limited", Valid: true}, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewPGStore(db)
	err = store.Append(context.Background(), Record{
		ID:               "u-1",
		DraftID:          "d-1",
		Provider:         "openai",
		Model:            "gpt-4o",
		PromptTokens:     10,
		CompletionTokens: 5,
		TotalTokens:      15,
		Cost:             Cost{Input: 0.000025, Output: 0.00005, Total: 0.000075},
		LatencyMS:        120,
		Error:            "rate limited",
		CreatedAt:        now,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGStoreTokensBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	from, to := MonthWindow(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total_tokens\\), 0\\) FROM llm_usage").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(4200)))

	got, err := NewPGStore(db).TokensBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if got != 4200 {
		t.Fatalf("expected 4200, got %d", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGStoreListByDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "draft_id", "provider", "model", "prompt_tokens", "completion_tokens", "total_tokens",
		"input_cost", "output_cost", "total_cost", "latency_ms", "success", "error_message", "created_at"}
	mock.ExpectQuery("FROM llm_usage").
		WithArgs("d-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u-1", "d-1", "openai", "gpt-4o", 10, 5, 15, 0.1, 0.2, 0.3, 90, true, nil, now))

	records, err := NewPGStore(db).ListByDraft(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].DraftID != "d-1" || records[0].Error != "" || !records[0].Success {
		t.Fatalf("unexpected records %+v", records)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
