package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/intern-tracker/internal/ingest"
)

var (
	ingestDir       string
	ingestCollegeID int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one resume ingestion batch and print the per-file outcomes as JSON",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "Resume directory (overrides RESUME_DIR)")
	ingestCmd.Flags().IntVar(&ingestCollegeID, "college-id", 0, "Attach created candidates to this college")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fields, closeLLM, err := a.fieldExtractor(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeLLM() }()

	var opts ingest.RunOptions
	if cmd.Flags().Changed("college-id") {
		opts.CollegeID = &ingestCollegeID
	}

	p := a.pipeline(fields, firstNonEmpty(ingestDir, a.cfg.Ingest.ResumeDir))
	outcomes, err := p.Run(ctx, opts)
	if err != nil {
		return err
	}

	stats := outcomes.Counts()
	a.logger.Info("ingest.summary", "dir", p.Dir(), "files", stats.Files,
		"succeeded", stats.Succeeded, "skipped", stats.Skipped, "failed", stats.Failed, "errored", stats.Errored)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcomes)
}
