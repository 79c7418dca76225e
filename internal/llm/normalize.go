package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/intern-tracker/constants"
)

// ParseCandidateJSON turns raw model content into CandidateFields.
// It returns the sanitized JSON alongside the fields. Errors wrap ErrMalformedJSON or ErrMissingFields.
func ParseCandidateJSON(raw []byte, logger *slog.Logger) (CandidateFields, []byte, error) {
	clean, _, err := NormalizeAndSanitizeJSON(raw, logger)
	if err != nil {
		return CandidateFields{}, nil, err
	}

	var doc struct {
		FullName   *string         `json:"full_name"`
		Email      *string         `json:"email"`
		University *string         `json:"university"`
		Address    *string         `json:"address"`
		Skills     json.RawMessage `json:"skills"`
	}
	// required-field presence is checked before the schema so the two failure kinds stay distinct
	dec := json.NewDecoder(bytes.NewReader(clean))
	if err := dec.Decode(&doc); err != nil {
		if !requiredPresent(clean) {
			return CandidateFields{}, clean, fmt.Errorf("%w: full_name and email are required", ErrMissingFields)
		}
		return CandidateFields{}, clean, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if doc.FullName == nil || strings.TrimSpace(*doc.FullName) == "" {
		return CandidateFields{}, clean, fmt.Errorf("%w: full_name", ErrMissingFields)
	}
	if doc.Email == nil || strings.TrimSpace(*doc.Email) == "" {
		return CandidateFields{}, clean, fmt.Errorf("%w: email", ErrMissingFields)
	}

	if err := ValidateJSONAgainstSchema(BuildCandidateJSONSchema(), clean); err != nil {
		return CandidateFields{}, clean, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	skills, err := FlattenSkills(doc.Skills)
	if err != nil {
		return CandidateFields{}, clean, err
	}

	out := CandidateFields{
		FullName: strings.TrimSpace(*doc.FullName),
		Email:    strings.TrimSpace(*doc.Email),
		Status:   string(constants.StatusPending),
		Skills:   skills,
	}
	if doc.University != nil {
		out.University = *doc.University
	}
	if doc.Address != nil {
		out.Address = *doc.Address
	}
	return out, clean, nil
}

// FlattenSkills accepts a JSON string or a JSON array of strings and returns a ", "-joined string.
// An absent value yields "". null, objects, numbers and mixed arrays are rejected.
func FlattenSkills(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return strings.TrimSpace(s), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
		return strings.Join(parts, ", "), nil
	}
	return "", fmt.Errorf("%w: skills must be a string or a list of strings", ErrMalformedJSON)
}

func requiredPresent(doc []byte) bool {
	var m map[string]any
	if json.Unmarshal(doc, &m) != nil {
		return false
	}
	_, hasName := m["full_name"]
	_, hasEmail := m["email"]
	return hasName && hasEmail
}
