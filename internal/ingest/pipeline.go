package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/extract"
	"github.com/joseph-ayodele/intern-tracker/internal/llm"
)

// CollegeLookup checks the scoping college of a run.
type CollegeLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// RunOptions scopes a run. A nil CollegeID leaves new candidates without a college.
type RunOptions struct {
	CollegeID *int
}

// Pipeline turns the PDFs of one directory into candidates: text, then fields, then the gate.
// Files are handled one at a time and a failure in one never stops the batch.
type Pipeline struct {
	logger    *slog.Logger
	dir       string
	extractor extract.TextExtractor
	fields    llm.FieldExtractor
	gate      *Gate
	open      SessionFunc
	colleges  CollegeLookup
}

func NewPipeline(
	logger *slog.Logger,
	dir string,
	extractor extract.TextExtractor,
	fields llm.FieldExtractor,
	gate *Gate,
	open SessionFunc,
	colleges CollegeLookup,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if gate == nil {
		gate = NewGate(logger)
	}
	return &Pipeline{
		logger:    logger,
		dir:       dir,
		extractor: extractor,
		fields:    fields,
		gate:      gate,
		open:      open,
		colleges:  colleges,
	}
}

// Dir returns the resume directory the pipeline reads.
func (p *Pipeline) Dir() string { return p.dir }

// Run processes every PDF in the resume directory and returns one outcome per file.
// A missing directory or an empty one yields a single batch-level entry instead.
// The returned error is reserved for problems that prevent the batch from starting.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Outcomes, error) {
	start := time.Now()

	if opts.CollegeID != nil && p.colleges != nil {
		ok, err := p.colleges.Exists(ctx, *opts.CollegeID)
		if err != nil {
			return nil, fmt.Errorf("check college: %w", err)
		}
		if !ok {
			return nil, common.NotFoundf("college %d not found", *opts.CollegeID)
		}
	}

	files, err := ListResumes(p.dir)
	if errors.Is(err, common.ErrDirectoryNotFound) {
		p.logger.Error("ingest.batch.no_directory", "dir", p.dir)
		return Outcomes{KeyError: DirectoryNotFound(p.dir)}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		p.logger.Warn("ingest.batch.empty", "dir", p.dir)
		return Outcomes{KeyWarning: NoPDFs}, nil
	}

	store, release, err := p.open(ctx)
	if err != nil {
		p.logger.Error("ingest.batch.session_failed", "error", err)
		return nil, fmt.Errorf("%w: open session: %v", common.ErrDatabase, err)
	}
	defer func() {
		if err := release(); err != nil {
			p.logger.Warn("ingest.batch.release_failed", "error", err)
		}
	}()

	log := p.logger.With("dir", p.dir)
	if opts.CollegeID != nil {
		log = log.With("college_id", *opts.CollegeID)
	}
	log.Info("ingest.batch.start", "files", len(files))

	out := make(Outcomes, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		if err := ctx.Err(); err != nil {
			out[name] = Errored(err.Error())
			continue
		}
		out[name] = p.processFile(ctx, store, path, opts)
	}

	stats := out.Counts()
	log.Info("ingest.batch.done",
		"files", stats.Files,
		"succeeded", stats.Succeeded,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"errored", stats.Errored,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Pipeline) processFile(ctx context.Context, store CandidateStore, path string, opts RunOptions) (outcome Outcome) {
	name := filepath.Base(path)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("ingest.file.panic", "file", name, "panic", r)
			outcome = Errored(fmt.Sprint(r))
		}
		p.logger.Info("ingest.file.done",
			"file", name,
			"outcome", string(outcome),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}()

	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("ingest.file.extract_failed", "file", name, "error", err)
		return Failed(ReasonNoText)
	}
	if res.Empty() {
		p.logger.Warn("ingest.file.no_text", "file", name, "pages", res.Pages)
		return Failed(ReasonNoText)
	}

	fields, _, err := p.fields.ExtractFields(ctx, llm.ExtractRequest{ResumeText: res.Text, FilenameHint: name})
	if err != nil {
		p.logger.Error("ingest.file.llm_failed", "file", name, "error", err)
		return Failed(ReasonLLM)
	}

	outcome, err = p.gate.Admit(ctx, store, fields, name, opts.CollegeID)
	if err != nil {
		p.logger.Error("ingest.file.persist_failed", "file", name, "error", err)
		return Errored(err.Error())
	}
	return outcome
}
