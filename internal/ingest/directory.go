package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
)

// ListResumes returns the PDF files directly under dir in directory-listing order.
// Subdirectories are not descended into. A missing dir yields common.ErrDirectoryNotFound.
func ListResumes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", common.ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !constants.IsResumeFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !e.Type().IsRegular() {
			// symlinks and the like count only when they resolve to a regular file
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		out = append(out, path)
	}
	return out, nil
}
