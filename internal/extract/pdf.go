package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the embedded text layer of a PDF, page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Extract returns the non-empty page texts joined with newlines, in page order.
// A file the parser cannot read yields an error wrapping ErrUnreadable.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (res TextExtractionResult, err error) {
	start := time.Now()
	res = TextExtractionResult{SourceType: "PDF", Method: "pdf-text"}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		e.logger.Error("pdf.extract.stat_failed", "path", path, "error", statErr)
		return res, fmt.Errorf("%w: %v", ErrUnreadable, statErr)
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("pdf.extract.panic", "path", path, "panic", fmt.Sprint(r))
			res.Text = ""
			err = fmt.Errorf("%w: parser panic: %v", ErrUnreadable, r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		e.logger.Error("pdf.extract.open_failed", "path", path, "error", openErr)
		return res, fmt.Errorf("%w: %v", ErrUnreadable, openErr)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("pdf.extract.close_failed", "path", path, "error", cerr)
		}
	}()

	res.Pages = r.NumPage()
	parts := make([]string, 0, res.Pages)
	for i := 1; i <= res.Pages; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			res.EmptyPages++
			continue
		}
		text, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", i, pageErr))
			res.EmptyPages++
			continue
		}
		if strings.TrimSpace(text) == "" {
			res.EmptyPages++
			continue
		}
		parts = append(parts, text)
	}

	res.Text = strings.Join(parts, "\n")
	res.Duration = time.Since(start)
	e.logger.Info("pdf.extract.ok",
		"path", path,
		"pages", res.Pages,
		"empty_pages", res.EmptyPages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
