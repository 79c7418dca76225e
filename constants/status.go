package constants

import (
	"fmt"
	"strings"
)

// CandidateStatus is the recruiting stage of a candidate. Stored as-is in the candidates.status column.
type CandidateStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending    CandidateStatus = "pending"
	StatusAssessment CandidateStatus = "assessment"
	StatusInterview1 CandidateStatus = "interview1"
	StatusInterview2 CandidateStatus = "interview2"
	StatusHR         CandidateStatus = "hr"
	StatusHired      CandidateStatus = "hired"
	StatusRejected   CandidateStatus = "rejected"
)

var statusOrder = []CandidateStatus{
	StatusPending,
	StatusAssessment,
	StatusInterview1,
	StatusInterview2,
	StatusHR,
	StatusHired,
	StatusRejected,
}

// forward lists the single next stage in the hiring funnel.
var forward = map[CandidateStatus]CandidateStatus{
	StatusPending:    StatusAssessment,
	StatusAssessment: StatusInterview1,
	StatusInterview1: StatusInterview2,
	StatusInterview2: StatusHR,
	StatusHR:         StatusHired,
}

// AllStatuses returns every status in funnel order.
func AllStatuses() []CandidateStatus {
	out := make([]CandidateStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// StatusValues returns the statuses as plain strings (for enum columns and schemas).
func StatusValues() []string {
	out := make([]string, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, string(s))
	}
	return out
}

func (s CandidateStatus) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s CandidateStatus) Valid() bool {
	for _, v := range statusOrder {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s CandidateStatus) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// ParseStatus converts user input to a CandidateStatus. Matching ignores case and surrounding spaces.
func ParseStatus(raw string) (CandidateStatus, error) {
	s := CandidateStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown candidate status %q", raw)
	}
	return s, nil
}

// IsTransitionAllowed reports whether a candidate may move from one status to another.
// Same-status moves are no-ops and allowed. Rejection is allowed from any non-terminal status.
func IsTransitionAllowed(from, to CandidateStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == StatusRejected {
		return true
	}
	return forward[from] == to
}
