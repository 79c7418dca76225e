package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
)

// Executor runs statements for a repository. Both *entsql.Driver and *Session satisfy it.
type Executor interface {
	dialect.ExecQuerier
	Dialect() string
}

// Session pins one pooled connection until Close.
type Session struct {
	entsql.Conn
	conn    *sql.Conn
	dialect string
}

// AcquireSession takes a dedicated connection from the driver's pool.
func AcquireSession(ctx context.Context, drv *entsql.Driver) (*Session, error) {
	conn, err := drv.DB().Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{
		Conn:    entsql.Conn{ExecQuerier: conn},
		conn:    conn,
		dialect: drv.Dialect(),
	}, nil
}

func (s *Session) Dialect() string { return s.dialect }

// Close returns the connection to the pool.
func (s *Session) Close() error { return s.conn.Close() }

func builder(ex Executor) *entsql.DialectBuilder {
	return entsql.Dialect(ex.Dialect())
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return dateOnly(*p)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// mapWriteError converts driver constraint failures into sentinel errors.
func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case sqlgraph.IsUniqueConstraintError(err):
		return fmt.Errorf("%w: %v", common.ErrDuplicateEmail, err)
	case sqlgraph.IsForeignKeyConstraintError(err):
		return fmt.Errorf("%w: referenced row does not exist: %v", common.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
}

func rowsAffected(res sql.Result) (int64, error) {
	if res == nil {
		return 0, errors.New("missing exec result")
	}
	return res.RowsAffected()
}
