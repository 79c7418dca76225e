package main

import (
	"context"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/extract"
	"github.com/joseph-ayodele/intern-tracker/internal/ingest"
	"github.com/joseph-ayodele/intern-tracker/internal/llm"
	"github.com/joseph-ayodele/intern-tracker/internal/llm/gemini"
	"github.com/joseph-ayodele/intern-tracker/internal/llm/openai"
	repo "github.com/joseph-ayodele/intern-tracker/internal/repository"
	"github.com/joseph-ayodele/intern-tracker/internal/server"
)

// app bundles the storage handles every subcommand needs.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	drv    *entsql.Driver
	pool   *pgxpool.Pool
}

// openApp loads configuration, connects to the database and applies the schema.
func openApp(ctx context.Context) (*app, error) {
	cfg := common.LoadConfig()
	logger := slog.Default()

	if !inMemory {
		if err := cfg.ValidateDatabase(); err != nil {
			return nil, err
		}
	}

	drv, pool, err := server.ConnectDB(ctx, cfg.Database, inMemory, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := server.PingDB(ctx, drv, logger, cfg.Database.DialTimeout); err != nil {
		server.CloseDB(drv, pool, logger)
		return nil, fmt.Errorf("database health: %w", err)
	}
	if err := repo.Migrate(ctx, drv, logger); err != nil {
		server.CloseDB(drv, pool, logger)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &app{cfg: cfg, logger: logger, drv: drv, pool: pool}, nil
}

func (a *app) Close() {
	server.CloseDB(a.drv, a.pool, a.logger)
}

// fieldExtractor builds the configured LLM client. The returned closer is never nil.
func (a *app) fieldExtractor(ctx context.Context) (llm.FieldExtractor, func() error, error) {
	if err := a.cfg.ValidateLLM(); err != nil {
		return nil, nil, err
	}
	c := a.cfg.LLM
	switch c.Provider {
	case common.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      c.GeminiAPIKey,
			Model:       c.GeminiModel,
			Temperature: c.Temperature,
			Timeout:     c.Timeout,
		}, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		client := openai.NewClient(openai.Config{
			APIKey:      c.APIKey,
			BaseURL:     c.BaseURL,
			Model:       c.Model,
			Temperature: c.Temperature,
			Timeout:     c.Timeout,
		}, a.logger)
		return client, func() error { return nil }, nil
	}
}

// pipeline wires the ingestion pipeline for dir against the app database.
func (a *app) pipeline(fields llm.FieldExtractor, dir string) *ingest.Pipeline {
	return ingest.NewPipeline(
		a.logger,
		dir,
		extract.NewPDFExtractor(a.logger),
		fields,
		ingest.NewGate(a.logger),
		ingest.DriverSession(a.drv, a.logger),
		repo.NewCollegeRepository(a.drv, a.logger),
	)
}
