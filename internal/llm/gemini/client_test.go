package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"full_name":"Ada",`), genai.Text(`"email":"a@x.com"}`)}},
		}},
	}
	text, err := ResponseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"full_name":"Ada","email":"a@x.com"}`, text)
}

func TestResponseText_Empty(t *testing.T) {
	_, err := ResponseText(nil)
	assert.Error(t, err)

	_, err = ResponseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.Error(t, err)

	_, err = ResponseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
	}}})
	assert.Error(t, err)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
