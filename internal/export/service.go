package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

// SheetName is the worksheet holding the candidate rows.
const SheetName = "Candidates"

// Service produces XLSX workbooks of candidates.
type Service struct {
	candidates repository.CandidateRepository
	colleges   repository.CollegeRepository
	logger     *slog.Logger
}

func NewService(candidates repository.CandidateRepository, colleges repository.CollegeRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{candidates: candidates, colleges: colleges, logger: logger}
}

var headers = []string{
	"ID",
	"Full Name",
	"Email",
	"University",
	"Address",
	"Status",
	"Skills",
	"Resume",
	"Application Date",
	"Source",
	"College",
}

// ExportCandidatesXLSX returns a workbook (as bytes) with one row per candidate matching filter.
// Offset and Limit of the filter are ignored.
func (s *Service) ExportCandidatesXLSX(ctx context.Context, filter repository.CandidateFilter) ([]byte, error) {
	start := time.Now()
	filter.Offset, filter.Limit = 0, 0

	list, err := s.candidates.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	collegeNames, err := s.collegeNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("query colleges: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, style)
	}

	for i, c := range list {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, c.ID)
		write(2, c.FullName)
		write(3, c.Email)
		write(4, deref(c.University))
		write(5, deref(c.Address))
		write(6, string(c.Status))
		write(7, deref(c.Skills))
		write(8, deref(c.ResumeName))
		if c.ApplicationDate != nil {
			write(9, c.ApplicationDate.Format("2006-01-02"))
		}
		write(10, deref(c.Source))
		if c.CollegeID != nil {
			write(11, collegeNames[*c.CollegeID])
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "C", 28)
	_ = f.SetColWidth(SheetName, "D", "E", 30)
	_ = f.SetColWidth(SheetName, "F", "F", 12)
	_ = f.SetColWidth(SheetName, "G", "G", 48)
	_ = f.SetColWidth(SheetName, "H", "H", 30)
	_ = f.SetColWidth(SheetName, "I", "J", 16)
	_ = f.SetColWidth(SheetName, "K", "K", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(list),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) collegeNames(ctx context.Context) (map[int]string, error) {
	out := map[int]string{}
	if s.colleges == nil {
		return out, nil
	}
	list, err := s.colleges.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.ID] = c.CollegeName
	}
	return out, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Filename is the suggested download name for an export made at t.
func Filename(t time.Time) string {
	return "candidates-" + t.Format("20060102-150405") + ".xlsx"
}

