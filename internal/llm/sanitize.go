package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// keySynonyms maps keys models commonly emit onto the expected ones.
var keySynonyms = map[string]string{
	"name":          "full_name",
	"fullname":      "full_name",
	"candidate":     "full_name",
	"email_address": "email",
	"mail":          "email",
	"college":       "university",
	"institution":   "university",
	"school":        "university",
	"location":      "address",
	"skill":         "skills",
}

// StripCodeFence removes a surrounding ```json ... ``` block if present.
func StripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	s = bytes.TrimPrefix(s, []byte("```"))
	if nl := bytes.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = bytes.TrimSuffix(bytes.TrimSpace(s), []byte("```"))
	return bytes.TrimSpace(s)
}

// NormalizeAndSanitizeJSON
// - Strips a markdown code fence
// - Renames known synonyms (name -> full_name, location -> address)
// - Drops null optionals (university, address); a null skills value is kept so validation rejects it
// - Trims surrounding whitespace of string values
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(StripCodeFence(raw), &m); err != nil {
		return nil, nil, fmt.Errorf("%w: decode: %v", ErrMalformedJSON, err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("%w: not a JSON object", ErrMalformedJSON)
	}

	changes := make([]string, 0, 4)
	for from, to := range keySynonyms {
		v, ok := m[from]
		if !ok {
			continue
		}
		// don't overwrite a value already under the expected key
		if _, exists := m[to]; !exists {
			m[to] = v
			changes = append(changes, from+"->"+to)
		}
		delete(m, from)
	}

	for _, k := range []string{"university", "address"} {
		if v, ok := m[k]; ok && v == nil {
			delete(m, k)
			changes = append(changes, "drop:"+k)
		}
	}

	for k, v := range m {
		if s, ok := v.(string); ok {
			m[k] = strings.TrimSpace(s)
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changes) > 0 {
		logger.Debug("llm.sanitize.applied", "changes", changes)
	}
	return out, changes, nil
}
