package extract

import (
	"context"
	"errors"
	"time"
)

// ErrUnreadable marks a file that could not be opened or parsed as a document.
var ErrUnreadable = errors.New("unreadable document")

// TextExtractor turns one file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	EmptyPages int
	SourceType string // "PDF"
	Method     string // "pdf-text"
	Duration   time.Duration
	Warnings   []string
}

// Empty reports whether extraction produced no usable text.
func (r TextExtractionResult) Empty() bool {
	for _, ch := range r.Text {
		if ch != ' ' && ch != '\n' && ch != '\t' && ch != '\r' {
			return false
		}
	}
	return true
}
