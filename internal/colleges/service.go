package colleges

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

// Service handles college business logic.
type Service struct {
	repo      repository.CollegeRepository
	validator *common.Validator
	logger    *slog.Logger
}

func NewService(repo repository.CollegeRepository, v *common.Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = common.NewValidator()
	}
	return &Service{repo: repo, validator: v, logger: logger}
}

type CreateCollegeRequest struct {
	CollegeName string  `json:"college_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required"`
	Address     *string `json:"address"`
	HeadName    string  `json:"head_name" validate:"required"`
	HeadPhone   string  `json:"head_phone" validate:"required"`
}

type UpdateCollegeRequest struct {
	CollegeName *string `json:"college_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	HeadName    *string `json:"head_name"`
	HeadPhone   *string `json:"head_phone"`
}

func (s *Service) Create(ctx context.Context, req CreateCollegeRequest) (*entity.College, error) {
	req.CollegeName = strings.TrimSpace(req.CollegeName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.HeadName = strings.TrimSpace(req.HeadName)
	req.HeadPhone = strings.TrimSpace(req.HeadPhone)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, repository.NewCollege{
		CollegeName: req.CollegeName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		HeadName:    req.HeadName,
		HeadPhone:   req.HeadPhone,
	})
	if err != nil {
		return nil, mapError(err, req.Email)
	}
	s.logger.Info("college created", "college_id", c.ID, "name", c.CollegeName)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int) (*entity.College, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*entity.College, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int, req UpdateCollegeRequest) (*entity.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	upd := entity.CollegeUpdate{
		CollegeName: req.CollegeName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		HeadName:    req.HeadName,
		HeadPhone:   req.HeadPhone,
	}
	for field, v := range map[string]*string{
		"college_name": upd.CollegeName,
		"email":        upd.Email,
		"head_name":    upd.HeadName,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, common.InvalidInputf("%s must not be empty", field)
		}
	}

	c, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		email := ""
		if req.Email != nil {
			email = *req.Email
		}
		return nil, mapError(err, email)
	}
	s.logger.Info("college updated", "college_id", id)
	return c, nil
}

// Delete removes a college. Its candidates stay, unlinked.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("college deleted", "college_id", id)
	return nil
}

func mapError(err error, email string) error {
	if errors.Is(err, common.ErrDuplicateEmail) {
		return common.NewAppError("DUPLICATE_EMAIL", fmt.Sprintf("college email %s already exists", email), err)
	}
	return err
}
