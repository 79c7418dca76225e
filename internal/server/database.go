package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	repo "github.com/joseph-ayodele/intern-tracker/internal/repository"
)

const sqliteScheme = "sqlite://"

// ConnectDB opens the configured database and returns the SQL driver and, for Postgres, its pool.
// A DSN of the form sqlite://<path> opens a SQLite file; inMemory forces a private in-memory SQLite database.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, inMemory bool, logger *slog.Logger) (*entsql.Driver, *pgxpool.Pool, error) {
	switch {
	case inMemory:
		drv, err := repo.OpenSQLite("", logger)
		return drv, nil, err
	case strings.HasPrefix(cfg.DSN, sqliteScheme):
		drv, err := repo.OpenSQLite(strings.TrimPrefix(cfg.DSN, sqliteScheme), logger)
		return drv, nil, err
	}

	drv, pool, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return drv, pool, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, drv *entsql.Driver, logger *slog.Logger, timeout time.Duration) error {
	return repo.HealthCheck(ctx, drv, timeout, logger)
}

// CloseDB closes the database connections gracefully
func CloseDB(drv *entsql.Driver, pool *pgxpool.Pool, logger *slog.Logger) {
	repo.Close(drv, pool, logger)
}
