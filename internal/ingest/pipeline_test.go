package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/extract"
	"github.com/joseph-ayodele/intern-tracker/internal/llm"
	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor returns canned text per file name.
type fakeExtractor struct {
	texts  map[string]string
	errs   map[string]error
	panics map[string]bool
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (extract.TextExtractionResult, error) {
	name := filepath.Base(path)
	if f.panics[name] {
		panic("boom on " + name)
	}
	if err := f.errs[name]; err != nil {
		return extract.TextExtractionResult{}, err
	}
	return extract.TextExtractionResult{Text: f.texts[name], Pages: 1, SourceType: "PDF"}, nil
}

// fakeModel answers with canned model content per resume text and runs the real parser on it.
type fakeModel struct {
	replies map[string]string
	calls   int
}

func (m *fakeModel) ExtractFields(_ context.Context, req llm.ExtractRequest) (llm.CandidateFields, []byte, error) {
	m.calls++
	raw, ok := m.replies[req.ResumeText]
	if !ok {
		return llm.CandidateFields{}, nil, errors.New("model unavailable")
	}
	return llm.ParseCandidateJSON([]byte(raw), quietLogger())
}

type harness struct {
	drv      *entsql.Driver
	dir      string
	ext      *fakeExtractor
	model    *fakeModel
	opened   int
	released int
	pipeline *Pipeline
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	drv, err := repository.OpenSQLite("", quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, repository.Migrate(context.Background(), drv, quietLogger()))

	h := &harness{
		drv:   drv,
		dir:   t.TempDir(),
		ext:   &fakeExtractor{texts: map[string]string{}, errs: map[string]error{}, panics: map[string]bool{}},
		model: &fakeModel{replies: map[string]string{}},
	}
	base := DriverSession(drv, quietLogger())
	open := func(ctx context.Context) (CandidateStore, func() error, error) {
		store, release, err := base(ctx)
		if err != nil {
			return nil, nil, err
		}
		h.opened++
		return store, func() error {
			h.released++
			return release()
		}, nil
	}
	h.pipeline = NewPipeline(quietLogger(), h.dir, h.ext, h.model, NewGate(quietLogger()), open,
		repository.NewCollegeRepository(drv, quietLogger()))
	return h
}

func (h *harness) addFile(t *testing.T, name, text, reply string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, name), []byte("%PDF-1.4"), 0o644))
	h.ext.texts[name] = text
	if reply != "" {
		h.model.replies[text] = reply
	}
}

func (h *harness) candidates() repository.CandidateRepository {
	return repository.NewCandidateRepository(h.drv, quietLogger())
}

func (h *harness) count(t *testing.T) int {
	t.Helper()
	n, err := h.candidates().Count(context.Background(), repository.CandidateFilter{})
	require.NoError(t, err)
	return n
}

func TestPipeline_CreatesThenSkipsSameEmail(t *testing.T) {
	h := newHarness(t)
	h.addFile(t, "a.pdf", "resume a", `{"full_name":"Ann Smith","email":"a@x.com","skills":["Go","SQL"],"university":"MIT"}`)
	h.addFile(t, "b.pdf", "resume b", `{"full_name":"Ann S.","email":"a@x.com","skills":"Rust"}`)

	out, err := h.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	stored, err := h.candidates().FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, Outcomes{
		"a.pdf": Outcome(fmt.Sprintf("Success: Created candidate ID %d", stored.ID)),
		"b.pdf": "Skipped: Email a@x.com already exists",
	}, out)
	assert.Equal(t, 1, h.count(t))

	assert.Equal(t, "Ann Smith", stored.FullName)
	assert.Equal(t, constants.StatusPending, stored.Status)
	assert.Equal(t, "a.pdf", *stored.ResumeName)
	assert.Equal(t, constants.SourceCollege, *stored.Source)
	assert.Equal(t, "Go, SQL", *stored.Skills)
	assert.Equal(t, "MIT", *stored.University)
	assert.Nil(t, stored.Address)
	require.NotNil(t, stored.ApplicationDate)
	assert.Equal(t, time.Now().Format("2006-01-02"), stored.ApplicationDate.Format("2006-01-02"))
	assert.Nil(t, stored.CollegeID)

	assert.Equal(t, 1, h.opened)
	assert.Equal(t, 1, h.released)
}

func TestPipeline_ExistingEmailIsNotUpdated(t *testing.T) {
	h := newHarness(t)
	_, err := h.candidates().Create(context.Background(), entity.NewCandidate{FullName: "Original", Email: "dup@x.com"})
	require.NoError(t, err)
	h.addFile(t, "dup.pdf", "dup text", `{"full_name":"Replacement","email":"dup@x.com"}`)

	out, err := h.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, Outcome("Skipped: Email dup@x.com already exists"), out["dup.pdf"])

	got, err := h.candidates().FindByEmail(context.Background(), "dup@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Original", got.FullName)
	assert.Equal(t, 1, h.count(t))
}

func TestPipeline_PerFileFailures(t *testing.T) {
	h := newHarness(t)
	h.addFile(t, "blank.pdf", "  \n ", "")
	h.addFile(t, "broken.pdf", "", "")
	h.ext.errs["broken.pdf"] = fmt.Errorf("%w: bad xref", extract.ErrUnreadable)
	h.addFile(t, "noemail.pdf", "no email here", `{"full_name":"Nobody"}`)
	h.addFile(t, "garbage.pdf", "garbage", `not json at all`)
	h.addFile(t, "offline.pdf", "offline", "")
	h.addFile(t, "ok.pdf", "fine", `{"full_name":"Fine Person","email":"fine@x.com"}`)

	out, err := h.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, Outcome("Failed: No text extracted"), out["blank.pdf"])
	assert.Equal(t, Outcome("Failed: No text extracted"), out["broken.pdf"])
	assert.Equal(t, Outcome("Failed: LLM processing error"), out["noemail.pdf"])
	assert.Equal(t, Outcome("Failed: LLM processing error"), out["garbage.pdf"])
	assert.Equal(t, Outcome("Failed: LLM processing error"), out["offline.pdf"])
	assert.True(t, out["ok.pdf"].IsSuccess())
	assert.Equal(t, 1, h.count(t))
	// blank text never reaches the model
	assert.Equal(t, 4, h.model.calls)

	stats := out.Counts()
	assert.Equal(t, RunStats{Files: 6, Succeeded: 1, Failed: 5}, stats)
}

func TestPipeline_PanicInOneFileDoesNotStopBatch(t *testing.T) {
	h := newHarness(t)
	h.addFile(t, "1.pdf", "one", `{"full_name":"One","email":"one@x.com"}`)
	h.addFile(t, "2.pdf", "two", `{"full_name":"Two","email":"two@x.com"}`)
	h.addFile(t, "3.pdf", "three", `{"full_name":"Three","email":"three@x.com"}`)
	h.ext.panics["2.pdf"] = true

	out, err := h.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.True(t, out["1.pdf"].IsSuccess())
	assert.Equal(t, Outcome("Error: boom on 2.pdf"), out["2.pdf"])
	assert.True(t, out["3.pdf"].IsSuccess())
	assert.Equal(t, 2, h.count(t))
	assert.Equal(t, 1, h.released)
}

func TestPipeline_MissingDirectory(t *testing.T) {
	h := newHarness(t)
	missing := filepath.Join(h.dir, "nope")
	p := NewPipeline(quietLogger(), missing, h.ext, h.model, nil, func(context.Context) (CandidateStore, func() error, error) {
		t.Fatal("session must not be opened")
		return nil, nil, nil
	}, nil)

	out, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, Outcomes{KeyError: Outcome("Directory " + missing + " not found")}, out)
	assert.Equal(t, 0, h.count(t))
}

func TestPipeline_NoPDFs(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(h.dir, "folder.pdf"), 0o755))

	out, err := h.pipeline.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, Outcomes{KeyWarning: "No PDF files found"}, out)
	assert.Equal(t, 0, h.opened)
	assert.Equal(t, RunStats{}, out.Counts())
}

func TestPipeline_CollegeScope(t *testing.T) {
	h := newHarness(t)
	col, err := repository.NewCollegeRepository(h.drv, quietLogger()).Create(context.Background(), repository.NewCollege{
		CollegeName: "State College", Email: "tpo@state.edu", Phone: "1", HeadName: "Head", HeadPhone: "2",
	})
	require.NoError(t, err)
	h.addFile(t, "s.pdf", "student", `{"full_name":"Stu Dent","email":"stu@x.com"}`)

	_, err = h.pipeline.Run(context.Background(), RunOptions{CollegeID: func() *int { v := col.ID + 1; return &v }()})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, h.opened)

	out, err := h.pipeline.Run(context.Background(), RunOptions{CollegeID: &col.ID})
	require.NoError(t, err)
	require.True(t, out["s.pdf"].IsSuccess())

	got, err := h.candidates().FindByEmail(context.Background(), "stu@x.com")
	require.NoError(t, err)
	require.NotNil(t, got.CollegeID)
	assert.Equal(t, col.ID, *got.CollegeID)
}

func TestPipeline_CancelledContext(t *testing.T) {
	h := newHarness(t)
	h.addFile(t, "a.pdf", "a", `{"full_name":"A","email":"a@x.com"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the session itself may refuse a cancelled context; either way nothing is stored
	out, err := h.pipeline.Run(ctx, RunOptions{})
	if err == nil {
		assert.True(t, out["a.pdf"].IsError())
	}
	assert.Equal(t, 0, h.count(t))
}

// conflictStore reports the email as unknown and then loses the insert race.
type conflictStore struct{}

func (conflictStore) FindByEmail(context.Context, string) (*entity.Candidate, error) { return nil, nil }

func (conflictStore) Create(_ context.Context, c entity.NewCandidate) (*entity.Candidate, error) {
	return nil, fmt.Errorf("create candidate %q: %w", c.Email, common.ErrDuplicateEmail)
}

// brokenStore fails every lookup.
type brokenStore struct{}

func (brokenStore) FindByEmail(context.Context, string) (*entity.Candidate, error) {
	return nil, common.ErrDatabase
}

func (brokenStore) Create(context.Context, entity.NewCandidate) (*entity.Candidate, error) {
	return nil, common.ErrDatabase
}

func TestGate_Admit(t *testing.T) {
	g := NewGate(quietLogger())
	fields := llm.CandidateFields{FullName: "Race", Email: "race@x.com", Status: "pending"}

	out, err := g.Admit(context.Background(), conflictStore{}, fields, "race.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, Outcome("Skipped: Email race@x.com already exists"), out)

	_, err = g.Admit(context.Background(), brokenStore{}, fields, "race.pdf", nil)
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestListResumes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "c.Pdf", "notes.txt", "pdf", "archive.pdf.zip"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.pdf", "inner.pdf"), []byte("x"), 0o644))

	files, err := ListResumes(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"A.PDF", "b.pdf", "c.Pdf"}, names)

	_, err = ListResumes(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)

	_, err = ListResumes(filepath.Join(dir, "b.pdf"))
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)
}

func TestSaveUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	name, err := SaveUpload(dir, "CV.PDF", strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "resume-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	_, err = SaveUpload(dir, "cv.docx", strings.NewReader("x"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	files, err := ListResumes(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
