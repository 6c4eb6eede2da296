package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func prepareGoose() error {
	goose.SetBaseFS(migrationFiles)
	return goose.SetDialect("postgres")
}

// RunMigrations applies embedded SQL migrations via goose. If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, "migrations")
}

// RunCommand executes a goose command ("up", "down", "status", "version", "redo", "reset")
// against the embedded migrations.
func RunCommand(ctx context.Context, database *sql.DB, command string) error {
	if database == nil {
		return fmt.Errorf("database is required")
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	switch command {
	case "up", "down", "status", "version", "redo", "reset":
		return goose.RunContext(ctx, command, database, "migrations")
	default:
		return fmt.Errorf("unsupported migrate command %q", command)
	}
}
