package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status|version|redo|reset]

import (
	"context"
	"log"
	"os"

	"resume-engine/internal/shared/config"
	"resume-engine/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	opts := db.OptionsFromConfig(db.DefaultMigrateOptions(), cfg)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunCommand(ctx, sqlDB, command); err != nil {
		log.Printf("migrate %s failed: %v", command, err)
		os.Exit(1)
	}
}
