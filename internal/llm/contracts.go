package llm

import (
	"context"
	"errors"
)

var (
	// ErrMalformedJSON means the model content was not a JSON object of the expected shape.
	ErrMalformedJSON = errors.New("malformed model output")
	// ErrMissingFields means full_name or email was absent or blank.
	ErrMissingFields = errors.New("required fields missing")
)

// CandidateFields is the normalized shape we want from the LLM.
type CandidateFields struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	University string `json:"university,omitempty"`
	Address    string `json:"address,omitempty"`
	Status     string `json:"status"` // always "pending" after normalization
	Skills     string `json:"skills,omitempty"`
}

type ExtractRequest struct {
	ResumeText   string
	FilenameHint string
}

// FieldExtractor is the interface the ingestion pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (CandidateFields, []byte /*rawJSON*/, error)
}
