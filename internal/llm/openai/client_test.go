package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/intern-tracker/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-4.1-mini",
		Temperature: 0.3,
		Timeout:     2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	}
}

func TestExtractFields_Success(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(completion(`{"full_name":"Jane Doe","email":"jane@x.com","status":"interview1","skills":["Go","SQL"]}`))
	})

	fields, raw, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "Jane Doe jane@x.com", FilenameHint: "jane.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", fields.FullName)
	assert.Equal(t, "jane@x.com", fields.Email)
	assert.Equal(t, "pending", fields.Status)
	assert.Equal(t, "Go, SQL", fields.Skills)
	assert.NotEmpty(t, raw)

	assert.Equal(t, "gpt-4.1-mini", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 0.0001)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, llm.SystemPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "Jane Doe jane@x.com")
}

func TestExtractFields_MissingEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion(`{"full_name":"Jane Doe"}`))
	})
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "x"})
	assert.ErrorIs(t, err, llm.ErrMissingFields)
}

func TestExtractFields_MalformedContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completion(`{"full_name": "Jane"`))
	})
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "x"})
	assert.ErrorIs(t, err, llm.ErrMalformedJSON)
}

func TestExtractFields_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "x"})
	require.Error(t, err)
	var se *llm.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestExtractFields_NoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "x"})
	assert.Error(t, err)
}

func TestExtractFields_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})
	c.cfg.Timeout = 50 * time.Millisecond
	_, _, err := c.ExtractFields(context.Background(), llm.ExtractRequest{ResumeText: "x"})
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	c := NewClient(Config{}, nil)
	assert.Equal(t, "from-env", c.cfg.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", c.cfg.BaseURL)
	assert.Equal(t, "gpt-4.1-mini", c.cfg.Model)
	assert.Equal(t, 45*time.Second, c.cfg.Timeout)
}
