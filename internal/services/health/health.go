package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Report is the health payload served on /healthz.
type Report struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	LLM      string `json:"llm"`
}

// Service encapsulates health-related checks. DB may be nil when the process runs on
// in-memory repositories.
type Service struct {
	DB       *sql.DB
	Provider string
}

// NewService constructs a new health service.
func NewService(db *sql.DB, provider string) *Service {
	return &Service{DB: db, Provider: provider}
}

// Status pings the database, when configured, and reports the model provider.
func (s *Service) Status(ctx context.Context) Report {
	out := Report{OK: true, Database: "memory", LLM: s.Provider}
	if out.LLM == "" {
		out.LLM = "mock"
	}
	if s.DB == nil {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out.OK = false
		out.Database = "unreachable"
		return out
	}
	out.Database = "ok"
	return out
}
