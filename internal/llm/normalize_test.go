package llm

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseCandidateJSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    error
		wantSkills string
	}{
		{
			name:       "skills list is flattened",
			raw:        `{"full_name":"Ada Lovelace","email":"ada@x.com","skills":["Go"," SQL ","Docker"],"status":"hired"}`,
			wantSkills: "Go, SQL, Docker",
		},
		{
			name:       "skills string kept",
			raw:        `{"full_name":"Ada","email":"ada@x.com","skills":"Go, SQL"}`,
			wantSkills: "Go, SQL",
		},
		{
			name:       "skills absent",
			raw:        `{"full_name":"Ada","email":"ada@x.com"}`,
			wantSkills: "",
		},
		{
			name:       "code fence and synonyms",
			raw:        "```json\n{\"name\":\"Ada\",\"email_address\":\"ada@x.com\",\"location\":\"London\"}\n```",
			wantSkills: "",
		},
		{
			name:    "skills null rejected",
			raw:     `{"full_name":"Ada","email":"ada@x.com","skills":null}`,
			wantErr: ErrMalformedJSON,
		},
		{
			name:    "skills object rejected",
			raw:     `{"full_name":"Ada","email":"ada@x.com","skills":{"lang":"Go"}}`,
			wantErr: ErrMalformedJSON,
		},
		{
			name:    "skills mixed list rejected",
			raw:     `{"full_name":"Ada","email":"ada@x.com","skills":["Go",3]}`,
			wantErr: ErrMalformedJSON,
		},
		{
			name:    "missing email",
			raw:     `{"full_name":"Ada","skills":"Go"}`,
			wantErr: ErrMissingFields,
		},
		{
			name:    "blank name",
			raw:     `{"full_name":"   ","email":"ada@x.com"}`,
			wantErr: ErrMissingFields,
		},
		{
			name:    "not json",
			raw:     `Sure! Here is the candidate`,
			wantErr: ErrMalformedJSON,
		},
		{
			name:    "json array",
			raw:     `[{"full_name":"Ada","email":"ada@x.com"}]`,
			wantErr: ErrMalformedJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := ParseCandidateJSON([]byte(tt.raw), quiet)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "pending", got.Status)
			assert.Equal(t, tt.wantSkills, got.Skills)
			assert.NotEmpty(t, got.FullName)
			assert.NotEmpty(t, got.Email)
		})
	}
}

func TestParseCandidateJSON_OptionalFields(t *testing.T) {
	got, clean, err := ParseCandidateJSON([]byte(`{"full_name":" Ada ","email":"ada@x.com","university":null,"address":"London","extra":1}`), quiet)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FullName)
	assert.Empty(t, got.University)
	assert.Equal(t, "London", got.Address)

	var m map[string]any
	require.NoError(t, json.Unmarshal(clean, &m))
	_, hasUni := m["university"]
	assert.False(t, hasUni, "null optional dropped from sanitized json")
}

func TestFlattenSkills(t *testing.T) {
	s, err := FlattenSkills(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = FlattenSkills(json.RawMessage(`["Go","","Rust"]`))
	require.NoError(t, err)
	assert.Equal(t, "Go, Rust", s)

	_, err = FlattenSkills(json.RawMessage(`42`))
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildCandidateJSONSchema()
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"full_name":"A","email":"a@x.com","skills":["Go"]}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"full_name":"A"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"full_name":"A","email":"a@x.com","university":7}`)))
}

func TestBuildUserPrompt(t *testing.T) {
	p := BuildUserPrompt(ExtractRequest{ResumeText: "Jane Doe\njane@x.com", FilenameHint: "jane.pdf"})
	for _, key := range []string{"full_name", "email", "university", "address", "status", "skills"} {
		assert.Contains(t, p, key)
	}
	assert.Contains(t, p, "jane@x.com")
	assert.Contains(t, p, "Filename: jane.pdf")

	long := BuildUserPrompt(ExtractRequest{ResumeText: strings.Repeat("x", MaxPromptChars+10)})
	assert.Contains(t, long, "(truncated)")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(StripCodeFence([]byte("```json\n{\"a\":1}\n```"))))
	assert.Equal(t, `{"a":1}`, string(StripCodeFence([]byte(" {\"a\":1} "))))
}
