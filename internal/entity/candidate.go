package entity

import (
	"time"

	"github.com/joseph-ayodele/intern-tracker/constants"
)

// Candidate represents a candidate for data transfer between layers.
type Candidate struct {
	ID              int                       `json:"id"`
	FullName        string                    `json:"full_name"`
	Email           string                    `json:"email"`
	University      *string                   `json:"university,omitempty"`
	Address         *string                   `json:"address,omitempty"`
	Status          constants.CandidateStatus `json:"status"`
	ResumeName      *string                   `json:"resume_name,omitempty"`
	ApplicationDate *time.Time                `json:"application_date,omitempty"`
	Source          *string                   `json:"source,omitempty"`
	Skills          *string                   `json:"skills,omitempty"`
	CollegeID       *int                      `json:"college_id,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// NewCandidate is the write-side shape for inserting a candidate.
type NewCandidate struct {
	FullName        string
	Email           string
	University      *string
	Address         *string
	Status          constants.CandidateStatus
	ResumeName      *string
	ApplicationDate *time.Time
	Source          *string
	Skills          *string
	CollegeID       *int
}

// CandidateUpdate carries a partial update. Nil fields are left untouched.
type CandidateUpdate struct {
	FullName        *string
	Email           *string
	University      *string
	Address         *string
	Status          *constants.CandidateStatus
	ResumeName      *string
	ApplicationDate *time.Time
	Source          *string
	Skills          *string
	CollegeID       *int
}

// IsEmpty reports whether the update carries no fields.
func (u CandidateUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.University == nil && u.Address == nil &&
		u.Status == nil && u.ResumeName == nil && u.ApplicationDate == nil && u.Source == nil &&
		u.Skills == nil && u.CollegeID == nil
}
