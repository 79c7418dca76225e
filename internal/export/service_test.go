package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

func TestExportCandidatesXLSX(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	drv, err := repository.OpenSQLite("", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, repository.Migrate(ctx, drv, logger))

	colleges := repository.NewCollegeRepository(drv, logger)
	candidates := repository.NewCandidateRepository(drv, logger)

	col, err := colleges.Create(ctx, repository.NewCollege{CollegeName: "Covenant", Email: "c@cu.edu", Phone: "1", HeadName: "H", HeadPhone: "2"})
	require.NoError(t, err)

	skills := "Go, SQL"
	resume := "ada.pdf"
	applied := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	_, err = candidates.Create(ctx, entity.NewCandidate{
		FullName: "Ada", Email: "ada@x.com", Skills: &skills, ResumeName: &resume,
		ApplicationDate: &applied, CollegeID: &col.ID,
	})
	require.NoError(t, err)
	_, err = candidates.Create(ctx, entity.NewCandidate{FullName: "Bo", Email: "bo@x.com", Status: constants.StatusHired})
	require.NoError(t, err)

	svc := NewService(candidates, colleges, logger)

	data, err := svc.ExportCandidatesXLSX(ctx, repository.CandidateFilter{Limit: 1})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus every candidate, limit ignored")
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"1", "Ada", "ada@x.com", "", "", "pending", "Go, SQL", "ada.pdf", "2026-05-04", "", "Covenant"}, rows[1])
	assert.Equal(t, "Bo", rows[2][1])
	assert.Equal(t, "hired", rows[2][5])

	hired := constants.StatusHired
	data, err = svc.ExportCandidatesXLSX(ctx, repository.CandidateFilter{Status: &hired})
	require.NoError(t, err)
	f2, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f2.Close()
	rows, err = f2.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "candidates-20260102-030405.xlsx", Filename(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}
