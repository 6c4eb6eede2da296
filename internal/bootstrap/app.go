// Package bootstrap wires configuration into repositories, the model client and the
// HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-engine/internal/drafts"
	"resume-engine/internal/generation"
	"resume-engine/internal/llm"
	"resume-engine/internal/llm/gemini"
	"resume-engine/internal/llm/openai"
	"resume-engine/internal/prompts"
	"resume-engine/internal/services/health"
	"resume-engine/internal/shared/config"
	"resume-engine/internal/shared/server"
	"resume-engine/internal/shared/storage/db"
	"resume-engine/internal/shared/storage/object"
	localstore "resume-engine/internal/shared/storage/object/local"
	s3store "resume-engine/internal/shared/storage/object/s3"
	"resume-engine/internal/uploads"
	"resume-engine/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Store      object.ObjectStore
	LLM        llm.Client
	Drafts     drafts.Repo
	Usage      *usage.Service
	Generation *generation.Service
	DraftsSvc  *drafts.Service

	closers []func() error
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	app := &App{Config: cfg}
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		app.DB = sqlDB
		app.closers = append(app.closers, sqlDB.Close)
	}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}

	client, closeClient, err := BuildLLM(ctx, cfg.LLM)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.LLM = client
	if closeClient != nil {
		app.closers = append(app.closers, closeClient)
	}

	if app.DB != nil {
		app.Drafts = &drafts.PGRepo{DB: app.DB}
		app.Usage = usage.NewStoreService(usage.NewPGStore(app.DB))
	} else {
		app.Drafts = drafts.NewMemoryRepo()
		app.Usage = usage.NewService()
	}
	app.Generation = generation.NewService(generation.ConfigFrom(cfg.LLM), app.Drafts, app.Usage, app.LLM)
	if path := strings.TrimSpace(cfg.LLM.PromptsFile); path != "" {
		stored, err := prompts.LoadFile(path)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Generation.Prompts = stored
	}
	app.DraftsSvc = &drafts.Service{Repo: app.Drafts, Store: app.Store}

	provider := generation.MockModel
	if app.LLM != nil {
		provider = app.LLM.Provider()
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: health.NewService(app.DB, provider),
		Features: []server.RouteRegistrar{
			generation.NewHandler(app.Generation),
			drafts.NewHandler(app.DraftsSvc),
			usage.NewHandler(app.Usage, cfg.LLM.MonthlyTokenCap),
			uploads.NewHandler(app.Store),
		},
	})
	return app, nil
}

// Close releases the database and model client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// BuildLLM returns the configured model client, or nil for the mock provider. The
// returned close func may be nil.
func BuildLLM(ctx context.Context, cfg config.LLMConfig) (llm.Client, func() error, error) {
	switch cfg.Provider {
	case "openai":
		c, err := openai.NewClient(openai.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openai client: %w", err)
		}
		return c, nil, nil
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("gemini client: %w", err)
		}
		return c, c.Close, nil
	default:
		return nil, nil, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromConfig(db.DefaultServerOptions(), cfg))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
