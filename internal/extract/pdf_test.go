package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal single-font PDF with one page per entry in pages.
// An empty string produces a page with no text operators.
func buildPDF(pages []string) []byte {
	var objs []string
	n := len(pages)
	fontObj := 3 + 2*n

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, 4+2*i))
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(b.String())
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func quietExtractor() *PDFExtractor {
	return NewPDFExtractor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPDFExtractor_JoinsPagesInOrder(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "resume.pdf", buildPDF([]string{"Jane Doe", "", "jane@example.com"}))

	res, err := quietExtractor().Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 1, res.EmptyPages)
	assert.False(t, res.Empty())

	first := strings.Index(res.Text, "Jane Doe")
	second := strings.Index(res.Text, "jane@example.com")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Equal(t, 1, strings.Count(res.Text, "\n"), "one separator between two non-empty pages")
}

func TestPDFExtractor_NoTextLayer(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "scan.pdf", buildPDF([]string{""}))

	res, err := quietExtractor().Extract(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestPDFExtractor_Malformed(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "broken.pdf", []byte("this is not a pdf at all"))

	_, err := quietExtractor().Extract(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	_, err := quietExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestTextExtractionResultEmpty(t *testing.T) {
	assert.True(t, TextExtractionResult{Text: " \n\t "}.Empty())
	assert.False(t, TextExtractionResult{Text: " x "}.Empty())
}
