package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
)

const collegesTable = "colleges"

var collegeColumns = []string{"id", "college_name", "email", "phone", "address", "head_name", "head_phone", "created_at"}

type NewCollege struct {
	CollegeName string
	Email       string
	Phone       string
	Address     *string
	HeadName    string
	HeadPhone   string
}

type CollegeRepository interface {
	Create(ctx context.Context, c NewCollege) (*entity.College, error)
	GetByID(ctx context.Context, id int) (*entity.College, error)
	List(ctx context.Context) ([]*entity.College, error)
	Exists(ctx context.Context, id int) (bool, error)
	Update(ctx context.Context, id int, upd entity.CollegeUpdate) (*entity.College, error)
	Delete(ctx context.Context, id int) error
}

type collegeRepository struct {
	db     Executor
	logger *slog.Logger
}

func NewCollegeRepository(db Executor, logger *slog.Logger) CollegeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &collegeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *collegeRepository) Create(ctx context.Context, c NewCollege) (*entity.College, error) {
	now := time.Now().UTC()
	q, args := builder(r.db).
		Insert(collegesTable).
		Columns("college_name", "email", "phone", "address", "head_name", "head_phone", "created_at").
		Values(c.CollegeName, c.Email, c.Phone, nullableString(c.Address), c.HeadName, c.HeadPhone, now).
		Returning("id").
		Query()

	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		err = mapWriteError(err)
		r.logger.Error("failed to create college", "name", c.CollegeName, "email", c.Email, "error", err)
		return nil, err
	}
	defer rows.Close()
	id, err := entsql.ScanInt(rows)
	if err != nil {
		err = mapWriteError(err)
		r.logger.Error("failed to create college", "name", c.CollegeName, "email", c.Email, "error", err)
		return nil, err
	}
	return &entity.College{
		ID:          id,
		CollegeName: c.CollegeName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		HeadName:    c.HeadName,
		HeadPhone:   c.HeadPhone,
		CreatedAt:   now,
	}, nil
}

func (r *collegeRepository) GetByID(ctx context.Context, id int) (*entity.College, error) {
	q, args := builder(r.db).
		Select(collegeColumns...).
		From(entsql.Table(collegesTable)).
		Where(entsql.EQ("id", id)).
		Query()
	list, err := r.query(ctx, q, args)
	if err != nil {
		r.logger.Error("failed to get college", "college_id", id, "error", err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.NotFoundf("college %d not found", id)
	}
	return list[0], nil
}

func (r *collegeRepository) List(ctx context.Context) ([]*entity.College, error) {
	q, args := builder(r.db).
		Select(collegeColumns...).
		From(entsql.Table(collegesTable)).
		OrderBy("college_name", "id").
		Query()
	list, err := r.query(ctx, q, args)
	if err != nil {
		r.logger.Error("failed to list colleges", "error", err)
		return nil, err
	}
	return list, nil
}

func (r *collegeRepository) Exists(ctx context.Context, id int) (bool, error) {
	q, args := builder(r.db).
		Select().
		Count().
		From(entsql.Table(collegesTable)).
		Where(entsql.EQ("id", id)).
		Query()
	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to check college existence", "college_id", id, "error", err)
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return false, fmt.Errorf("scan count: %w", err)
	}
	return n > 0, nil
}

func (r *collegeRepository) Update(ctx context.Context, id int, upd entity.CollegeUpdate) (*entity.College, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	ub := builder(r.db).Update(collegesTable)
	if upd.CollegeName != nil {
		ub.Set("college_name", *upd.CollegeName)
	}
	if upd.Email != nil {
		ub.Set("email", *upd.Email)
	}
	if upd.Phone != nil {
		ub.Set("phone", *upd.Phone)
	}
	if upd.Address != nil {
		ub.Set("address", *upd.Address)
	}
	if upd.HeadName != nil {
		ub.Set("head_name", *upd.HeadName)
	}
	if upd.HeadPhone != nil {
		ub.Set("head_phone", *upd.HeadPhone)
	}
	q, args := ub.Where(entsql.EQ("id", id)).Query()

	var res sql.Result
	if err := r.db.Exec(ctx, q, args, &res); err != nil {
		err = mapWriteError(err)
		r.logger.Error("failed to update college", "college_id", id, "error", err)
		return nil, err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return nil, common.NotFoundf("college %d not found", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the college. Candidates that referenced it keep existing with a NULL college_id.
func (r *collegeRepository) Delete(ctx context.Context, id int) error {
	q, args := builder(r.db).
		Delete(collegesTable).
		Where(entsql.EQ("id", id)).
		Query()
	var res sql.Result
	if err := r.db.Exec(ctx, q, args, &res); err != nil {
		r.logger.Error("failed to delete college", "college_id", id, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NotFoundf("college %d not found", id)
	}
	return nil
}

func (r *collegeRepository) query(ctx context.Context, q string, args []any) ([]*entity.College, error) {
	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.College
	for rows.Next() {
		var (
			c       entity.College
			address sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.CollegeName, &c.Email, &c.Phone, &address, &c.HeadName, &c.HeadPhone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		c.Address = stringPtr(address)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return out, nil
}
