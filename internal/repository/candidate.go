package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
)

const candidatesTable = "candidates"

var candidateColumns = []string{
	"id", "full_name", "email", "university", "address", "status", "resume_name",
	"application_date", "source", "skills", "college_id", "created_at", "updated_at",
}

// CandidateFilter narrows List. Zero values mean "no filter"; Limit <= 0 means no limit.
type CandidateFilter struct {
	Status    *constants.CandidateStatus
	CollegeID *int
	Offset    int
	Limit     int
}

type CandidateRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Candidate, error)
	Create(ctx context.Context, c entity.NewCandidate) (*entity.Candidate, error)
	GetByID(ctx context.Context, id int) (*entity.Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]*entity.Candidate, error)
	Count(ctx context.Context, filter CandidateFilter) (int, error)
	Update(ctx context.Context, id int, upd entity.CandidateUpdate) (*entity.Candidate, error)
	Delete(ctx context.Context, id int) error
}

type candidateRepository struct {
	db     Executor
	logger *slog.Logger
	now    func() time.Time
}

func NewCandidateRepository(db Executor, logger *slog.Logger) CandidateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &candidateRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// FindByEmail returns nil, nil when no candidate has exactly this email.
func (r *candidateRepository) FindByEmail(ctx context.Context, email string) (*entity.Candidate, error) {
	q, args := builder(r.db).
		Select(candidateColumns...).
		From(entsql.Table(candidatesTable)).
		Where(entsql.EQ("email", email)).
		Limit(1).
		Query()
	list, err := r.query(ctx, q, args)
	if err != nil {
		r.logger.Error("failed to find candidate by email", "email", email, "error", err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Create inserts a candidate. A conflicting email yields common.ErrDuplicateEmail and leaves
// the existing row untouched.
func (r *candidateRepository) Create(ctx context.Context, c entity.NewCandidate) (*entity.Candidate, error) {
	now := r.now().UTC()
	status := c.Status
	if status == "" {
		status = constants.StatusPending
	}
	q, args := builder(r.db).
		Insert(candidatesTable).
		Columns("full_name", "email", "university", "address", "status", "resume_name",
			"application_date", "source", "skills", "college_id", "created_at", "updated_at").
		Values(c.FullName, c.Email, nullableString(c.University), nullableString(c.Address), string(status),
			nullableString(c.ResumeName), nullableDate(c.ApplicationDate), nullableString(c.Source),
			nullableString(c.Skills), nullableInt(c.CollegeID), now, now).
		OnConflict(entsql.ConflictColumns("email"), entsql.DoNothing()).
		Returning("id").
		Query()

	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		err = mapWriteError(err)
		r.logger.Error("failed to create candidate", "email", c.Email, "error", err)
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			r.logger.Error("failed to create candidate", "email", c.Email, "error", err)
			return nil, mapWriteError(err)
		}
		r.logger.Info("candidate email already exists", "email", c.Email)
		return nil, fmt.Errorf("create candidate %q: %w", c.Email, common.ErrDuplicateEmail)
	}
	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("scan candidate id: %w", err)
	}

	out := &entity.Candidate{
		ID:         id,
		FullName:   c.FullName,
		Email:      c.Email,
		University: c.University,
		Address:    c.Address,
		Status:     status,
		ResumeName: c.ResumeName,
		Source:     c.Source,
		Skills:     c.Skills,
		CollegeID:  c.CollegeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if c.ApplicationDate != nil {
		d := dateOnly(*c.ApplicationDate)
		out.ApplicationDate = &d
	}
	return out, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int) (*entity.Candidate, error) {
	q, args := builder(r.db).
		Select(candidateColumns...).
		From(entsql.Table(candidatesTable)).
		Where(entsql.EQ("id", id)).
		Query()
	list, err := r.query(ctx, q, args)
	if err != nil {
		r.logger.Error("failed to get candidate", "candidate_id", id, "error", err)
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.NotFoundf("candidate %d not found", id)
	}
	return list[0], nil
}

func (r *candidateRepository) List(ctx context.Context, filter CandidateFilter) ([]*entity.Candidate, error) {
	sel := builder(r.db).
		Select(candidateColumns...).
		From(entsql.Table(candidatesTable)).
		OrderBy("id")
	applyCandidateFilter(sel, filter)
	if filter.Limit > 0 {
		sel.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		sel.Offset(filter.Offset)
	}
	q, args := sel.Query()
	list, err := r.query(ctx, q, args)
	if err != nil {
		r.logger.Error("failed to list candidates", "error", err)
		return nil, err
	}
	return list, nil
}

func (r *candidateRepository) Count(ctx context.Context, filter CandidateFilter) (int, error) {
	sel := builder(r.db).
		Select().
		Count().
		From(entsql.Table(candidatesTable))
	applyCandidateFilter(sel, filter)
	q, args := sel.Query()

	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to count candidates", "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return n, nil
}

// Update applies each non-nil field of upd. updated_at is always refreshed.
func (r *candidateRepository) Update(ctx context.Context, id int, upd entity.CandidateUpdate) (*entity.Candidate, error) {
	ub := builder(r.db).Update(candidatesTable)
	if upd.FullName != nil {
		ub.Set("full_name", *upd.FullName)
	}
	if upd.Email != nil {
		ub.Set("email", *upd.Email)
	}
	if upd.University != nil {
		ub.Set("university", *upd.University)
	}
	if upd.Address != nil {
		ub.Set("address", *upd.Address)
	}
	if upd.Status != nil {
		ub.Set("status", string(*upd.Status))
	}
	if upd.ResumeName != nil {
		ub.Set("resume_name", *upd.ResumeName)
	}
	if upd.ApplicationDate != nil {
		ub.Set("application_date", dateOnly(*upd.ApplicationDate))
	}
	if upd.Source != nil {
		ub.Set("source", *upd.Source)
	}
	if upd.Skills != nil {
		ub.Set("skills", *upd.Skills)
	}
	if upd.CollegeID != nil {
		ub.Set("college_id", *upd.CollegeID)
	}
	ub.Set("updated_at", r.now().UTC())
	q, args := ub.Where(entsql.EQ("id", id)).Query()

	var res sql.Result
	if err := r.db.Exec(ctx, q, args, &res); err != nil {
		err = mapWriteError(err)
		r.logger.Error("failed to update candidate", "candidate_id", id, "error", err)
		return nil, err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return nil, common.NotFoundf("candidate %d not found", id)
	}
	return r.GetByID(ctx, id)
}

func (r *candidateRepository) Delete(ctx context.Context, id int) error {
	q, args := builder(r.db).
		Delete(candidatesTable).
		Where(entsql.EQ("id", id)).
		Query()
	var res sql.Result
	if err := r.db.Exec(ctx, q, args, &res); err != nil {
		r.logger.Error("failed to delete candidate", "candidate_id", id, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NotFoundf("candidate %d not found", id)
	}
	return nil
}

func applyCandidateFilter(sel *entsql.Selector, filter CandidateFilter) {
	var preds []*entsql.Predicate
	if filter.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*filter.Status)))
	}
	if filter.CollegeID != nil {
		preds = append(preds, entsql.EQ("college_id", *filter.CollegeID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
}

func (r *candidateRepository) query(ctx context.Context, q string, args []any) ([]*entity.Candidate, error) {
	var rows entsql.Rows
	if err := r.db.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return out, nil
}

func scanCandidate(rows entsql.ColumnScanner) (*entity.Candidate, error) {
	var (
		c                                       entity.Candidate
		status                                  string
		university, address, resume, source, sk sql.NullString
		appDate                                 sql.NullTime
		collegeID                               sql.NullInt64
	)
	if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &university, &address, &status, &resume,
		&appDate, &source, &sk, &collegeID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	c.Status = constants.CandidateStatus(status)
	c.University = stringPtr(university)
	c.Address = stringPtr(address)
	c.ResumeName = stringPtr(resume)
	c.ApplicationDate = timePtr(appDate)
	c.Source = stringPtr(source)
	c.Skills = stringPtr(sk)
	c.CollegeID = intPtr(collegeID)
	return &c, nil
}
