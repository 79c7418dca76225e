package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/intern-tracker/internal/llm"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float32        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ExtractFields implements llm.FieldExtractor using one text-only chat/completions request
// constrained to a JSON object.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.CandidateFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"provider", "openai",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.ResumeText),
		"file", req.FilenameHint,
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := chatRequest{
		Model:          c.cfg.Model,
		Temperature:    c.cfg.Temperature,
		ResponseFormat: map[string]any{"type": "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: llm.BuildUserPrompt(req)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, nil, fmt.Errorf("openai request: %w", httpErr)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	out, clean, err := llm.ParseCandidateJSON(content, c.log)
	if err != nil {
		c.log.Error("llm.extract.parse_failed",
			"req_id", rid, "error", err,
			"finish_reason", cc.Choices[0].FinishReason,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, content, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"full_name", out.FullName,
		"email", out.Email,
		"has_university", out.University != "",
		"skills_len", len(out.Skills),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, clean, nil
}
