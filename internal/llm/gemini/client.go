// Package gemini implements llm.FieldExtractor on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/intern-tracker/internal/llm"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string        // e.g., "gemini-1.5-flash"
	Temperature float32       // 0..2
	Timeout     time.Duration // per-request bound
}

type Client struct {
	cfg    Config
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

// NewClient creates a Gemini client configured for JSON output.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetCandidateCount(1)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(llm.SystemPrompt)}}

	return &Client{cfg: cfg, client: client, model: model, log: logger}, nil
}

// ExtractFields implements llm.FieldExtractor with a single GenerateContent call.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.CandidateFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"provider", "gemini",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.ResumeText),
		"file", req.FilenameHint,
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(llm.BuildUserPrompt(req)))
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, nil, fmt.Errorf("gemini generate: %w", err)
	}

	text, err := ResponseText(resp)
	if err != nil {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, nil, err
	}
	content := []byte(text)

	out, clean, err := llm.ParseCandidateJSON(content, c.log)
	if err != nil {
		c.log.Error("llm.extract.parse_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, content, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"full_name", out.FullName,
		"email", out.Email,
		"skills_len", len(out.Skills),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, clean, nil
}

// Close releases resources held by the client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ResponseText concatenates the text parts of the first candidate.
func ResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in gemini response (finish reason %v)", cand.FinishReason)
	}
	var parts []string
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in gemini response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}
