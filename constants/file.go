package constants

import (
	"path/filepath"
	"strings"
)

// SourceCollege is the source label stamped on candidates created by resume ingestion.
const SourceCollege = "college"

// AllowedExtensions holds the file extensions picked up from the resume directory.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsResumeFile reports whether name carries an allowed extension (case-insensitive).
func IsResumeFile(name string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(name))]
	return ok
}
