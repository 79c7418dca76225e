package candidates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

const dateLayout = "2006-01-02"

// Service handles candidate business logic.
type Service struct {
	repo      repository.CandidateRepository
	colleges  repository.CollegeRepository
	validator *common.Validator
	logger    *slog.Logger
}

// NewService creates a new candidate service.
func NewService(repo repository.CandidateRepository, colleges repository.CollegeRepository, v *common.Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = common.NewValidator()
	}
	return &Service{
		repo:      repo,
		colleges:  colleges,
		validator: v,
		logger:    logger,
	}
}

// CreateCandidateRequest represents candidate creation parameters.
type CreateCandidateRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	University      *string `json:"university"`
	Address         *string `json:"address"`
	Status          string  `json:"status" validate:"omitempty,candidate_status"`
	ResumeName      *string `json:"resume_name"`
	ApplicationDate *string `json:"application_date" validate:"omitempty,datetime=2006-01-02"`
	Source          *string `json:"source"`
	Skills          *string `json:"skills"`
	CollegeID       *int    `json:"college_id" validate:"omitempty,gt=0"`
}

// UpdateCandidateRequest carries optional fields; absent fields are left untouched.
type UpdateCandidateRequest struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	University      *string `json:"university"`
	Address         *string `json:"address"`
	Status          *string `json:"status" validate:"omitempty,candidate_status"`
	ResumeName      *string `json:"resume_name"`
	ApplicationDate *string `json:"application_date" validate:"omitempty,datetime=2006-01-02"`
	Source          *string `json:"source"`
	Skills          *string `json:"skills"`
	CollegeID       *int    `json:"college_id" validate:"omitempty,gt=0"`
}

// ListParams narrows List.
type ListParams struct {
	Status    string
	CollegeID *int
	Offset    int
	Limit     int
}

// Create validates and stores a new candidate.
func (s *Service) Create(ctx context.Context, req CreateCandidateRequest) (*entity.Candidate, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	nc := entity.NewCandidate{
		FullName:   req.FullName,
		Email:      req.Email,
		University: trimmed(req.University),
		Address:    trimmed(req.Address),
		Status:     constants.StatusPending,
		ResumeName: trimmed(req.ResumeName),
		Source:     trimmed(req.Source),
		Skills:     trimmed(req.Skills),
		CollegeID:  req.CollegeID,
	}
	if req.Status != "" {
		nc.Status = constants.CandidateStatus(req.Status)
	}
	if req.ApplicationDate != nil {
		d, err := time.Parse(dateLayout, *req.ApplicationDate)
		if err != nil {
			return nil, common.InvalidInputf("application_date must be YYYY-MM-DD")
		}
		nc.ApplicationDate = &d
	}
	if err := s.checkCollege(ctx, req.CollegeID); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, nc)
	if err != nil {
		return nil, s.mapError(err, nc.Email)
	}
	s.logger.Info("candidate created", "candidate_id", c.ID, "email", c.Email)
	return c, nil
}

// Get returns one candidate.
func (s *Service) Get(ctx context.Context, id int) (*entity.Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of candidates and the total matching count.
func (s *Service) List(ctx context.Context, p ListParams) ([]*entity.Candidate, int, error) {
	filter := repository.CandidateFilter{CollegeID: p.CollegeID, Offset: p.Offset, Limit: p.Limit}
	if p.Offset < 0 || p.Limit < 0 {
		return nil, 0, common.InvalidInputf("offset and limit must not be negative")
	}
	if strings.TrimSpace(p.Status) != "" {
		st, err := constants.ParseStatus(p.Status)
		if err != nil {
			return nil, 0, common.InvalidInputf("%v", err)
		}
		filter.Status = &st
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByStatus returns every candidate in the given status.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]*entity.Candidate, error) {
	list, _, err := s.List(ctx, ListParams{Status: status})
	return list, err
}

// Update applies the provided fields. A status change must follow the hiring funnel.
func (s *Service) Update(ctx context.Context, id int, req UpdateCandidateRequest) (*entity.Candidate, error) {
	if req.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*req.Status))
		req.Status = &st
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	upd := entity.CandidateUpdate{
		FullName:   trimmed(req.FullName),
		Email:      trimmed(req.Email),
		University: req.University,
		Address:    req.Address,
		ResumeName: req.ResumeName,
		Source:     req.Source,
		Skills:     req.Skills,
		CollegeID:  req.CollegeID,
	}
	if upd.FullName != nil && *upd.FullName == "" {
		return nil, common.InvalidInputf("full_name must not be empty")
	}
	if upd.Email != nil && *upd.Email == "" {
		return nil, common.InvalidInputf("email must not be empty")
	}
	if req.ApplicationDate != nil {
		d, err := time.Parse(dateLayout, *req.ApplicationDate)
		if err != nil {
			return nil, common.InvalidInputf("application_date must be YYYY-MM-DD")
		}
		upd.ApplicationDate = &d
	}
	if req.Status != nil {
		if *req.Status == "" {
			return nil, common.InvalidInputf("status must not be empty")
		}
		st := constants.CandidateStatus(*req.Status)
		upd.Status = &st
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Status != nil && !constants.IsTransitionAllowed(current.Status, *upd.Status) {
		return nil, common.Conflictf("cannot move candidate from %s to %s", current.Status, *upd.Status)
	}
	if err := s.checkCollege(ctx, req.CollegeID); err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return current, nil
	}

	email := current.Email
	if upd.Email != nil {
		email = *upd.Email
	}
	c, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, s.mapError(err, email)
	}
	s.logger.Info("candidate updated", "candidate_id", id, "status", c.Status)
	return c, nil
}

// UpdateStatus moves a candidate to the next interview stage (or rejects it).
func (s *Service) UpdateStatus(ctx context.Context, id int, status string) (*entity.Candidate, error) {
	return s.Update(ctx, id, UpdateCandidateRequest{Status: &status})
}

// Delete removes a candidate.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("candidate deleted", "candidate_id", id)
	return nil
}

func (s *Service) checkCollege(ctx context.Context, id *int) error {
	if id == nil || s.colleges == nil {
		return nil
	}
	ok, err := s.colleges.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return common.InvalidInputf("college %d does not exist", *id)
	}
	return nil
}

func (s *Service) mapError(err error, email string) error {
	if errors.Is(err, common.ErrDuplicateEmail) {
		return common.NewAppError("DUPLICATE_EMAIL", fmt.Sprintf("email %s already exists", email), err)
	}
	return err
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
