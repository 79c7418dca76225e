package ingest

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

// SessionFunc opens the store used for one batch. release must be called on every exit path.
type SessionFunc func(ctx context.Context) (store CandidateStore, release func() error, err error)

// DriverSession pins one connection of drv per batch.
func DriverSession(drv *entsql.Driver, logger *slog.Logger) SessionFunc {
	return func(ctx context.Context) (CandidateStore, func() error, error) {
		sess, err := repository.AcquireSession(ctx, drv)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewCandidateRepository(sess, logger), sess.Close, nil
	}
}
