package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/llm"
)

// CandidateStore is the persistence the gate needs.
type CandidateStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.Candidate, error)
	Create(ctx context.Context, c entity.NewCandidate) (*entity.Candidate, error)
}

// Gate admits extracted candidates into the store, one per distinct email.
type Gate struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewGate(logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{logger: logger, now: time.Now}
}

// Admit looks the email up and inserts a new candidate when it is unknown.
// An existing email, found up front or reported by the insert conflict, yields a Skipped outcome
// and leaves the stored row untouched. Store failures are returned as errors.
func (g *Gate) Admit(ctx context.Context, store CandidateStore, fields llm.CandidateFields, filename string, collegeID *int) (Outcome, error) {
	existing, err := store.FindByEmail(ctx, fields.Email)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", fields.Email, err)
	}
	if existing != nil {
		g.logger.Info("ingest.gate.skipped", "file", filename, "email", fields.Email, "candidate_id", existing.ID)
		return Skipped(fields.Email), nil
	}

	today := g.now()
	source := constants.SourceCollege
	skills := fields.Skills
	nc := entity.NewCandidate{
		FullName:        fields.FullName,
		Email:           fields.Email,
		University:      optional(fields.University),
		Address:         optional(fields.Address),
		Status:          constants.StatusPending,
		ResumeName:      &filename,
		ApplicationDate: &today,
		Source:          &source,
		Skills:          &skills,
		CollegeID:       collegeID,
	}

	created, err := store.Create(ctx, nc)
	if errors.Is(err, common.ErrDuplicateEmail) {
		g.logger.Info("ingest.gate.conflict", "file", filename, "email", fields.Email)
		return Skipped(fields.Email), nil
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", fields.Email, err)
	}

	g.logger.Info("ingest.gate.created", "file", filename, "email", created.Email, "candidate_id", created.ID)
	return Success(created.ID), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
