package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
)

// SaveUpload writes an uploaded resume into dir under a generated name and returns that name.
// Only PDF uploads are accepted. Existing files are never overwritten.
func SaveUpload(dir, filename string, r io.Reader) (string, error) {
	if !constants.IsResumeFile(filename) {
		return "", common.InvalidInputf("%q is not a PDF file", filename)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create resume dir: %w", err)
	}

	name := "resume-" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".pdf"
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}
