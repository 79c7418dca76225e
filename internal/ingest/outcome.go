package ingest

import (
	"fmt"
	"strings"
)

// Outcome is the human-readable result recorded for one file.
type Outcome string

// Batch-level keys used instead of a filename when no file could be processed.
const (
	KeyError   = "error"
	KeyWarning = "warning"
)

const (
	ReasonNoText = "No text extracted"
	ReasonLLM    = "LLM processing error"
)

func Success(id int) Outcome {
	return Outcome(fmt.Sprintf("Success: Created candidate ID %d", id))
}

func Skipped(email string) Outcome {
	return Outcome(fmt.Sprintf("Skipped: Email %s already exists", email))
}

func Failed(reason string) Outcome { return Outcome("Failed: " + reason) }

func Errored(message string) Outcome { return Outcome("Error: " + message) }

// DirectoryNotFound is stored under KeyError.
func DirectoryNotFound(dir string) Outcome {
	return Outcome(fmt.Sprintf("Directory %s not found", dir))
}

// NoPDFs is stored under KeyWarning.
const NoPDFs Outcome = "No PDF files found"

func (o Outcome) IsSuccess() bool { return strings.HasPrefix(string(o), "Success:") }
func (o Outcome) IsSkipped() bool { return strings.HasPrefix(string(o), "Skipped:") }
func (o Outcome) IsFailed() bool { return strings.HasPrefix(string(o), "Failed:") }
func (o Outcome) IsError() bool { return strings.HasPrefix(string(o), "Error:") }

// Outcomes maps a filename (or KeyError / KeyWarning) to its outcome.
type Outcomes map[string]Outcome

// RunStats summarizes a batch.
type RunStats struct {
	Files     int `json:"files"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Errored   int `json:"errored"`
}

// Counts tallies per-file outcomes. Batch-level entries are not counted as files.
func (o Outcomes) Counts() RunStats {
	var s RunStats
	for name, out := range o {
		if name == KeyError || name == KeyWarning {
			continue
		}
		s.Files++
		switch {
		case out.IsSuccess():
			s.Succeeded++
		case out.IsSkipped():
			s.Skipped++
		case out.IsFailed():
			s.Failed++
		default:
			s.Errored++
		}
	}
	return s
}
