package llm

// BuildCandidateJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// Unknown keys are tolerated; status is not constrained because it is overwritten.
// skills may be a string or a list of strings. Any other shape, null included, is rejected.
func BuildCandidateJSONSchema() map[string]any {
	optionalText := map[string]any{"type": []string{"string", "null"}}
	props := map[string]any{
		"full_name":  map[string]any{"type": "string", "minLength": 1, "pattern": `\S`},
		"email":      map[string]any{"type": "string", "minLength": 1, "pattern": `\S`},
		"university": optionalText,
		"address":    optionalText,
		"status":     map[string]any{},
		"skills": map[string]any{
			"oneOf": []any{
				map[string]any{"type": "string"},
				map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
		},
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{"full_name", "email"},
	}
}
