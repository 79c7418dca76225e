package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/export"
	repo "github.com/joseph-ayodele/intern-tracker/internal/repository"
)

var (
	exportOut       string
	exportStatus    string
	exportCollegeID int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the candidate table to an XLSX workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default candidates-<timestamp>.xlsx)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export candidates with this status")
	exportCmd.Flags().IntVar(&exportCollegeID, "college-id", 0, "Only export candidates of this college")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	var filter repo.CandidateFilter
	if exportStatus != "" {
		st, err := constants.ParseStatus(exportStatus)
		if err != nil {
			return err
		}
		filter.Status = &st
	}
	if cmd.Flags().Changed("college-id") {
		filter.CollegeID = &exportCollegeID
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	svc := export.NewService(repo.NewCandidateRepository(a.drv, a.logger), repo.NewCollegeRepository(a.drv, a.logger), a.logger)
	data, err := svc.ExportCandidatesXLSX(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = export.Filename(time.Now())
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
