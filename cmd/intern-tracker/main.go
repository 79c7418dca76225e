package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	inMemory bool
)

var rootCmd = &cobra.Command{
	Use:   "intern-tracker",
	Short: "Applicant tracking backend with resume ingestion",
	Long: `intern-tracker stores internship candidates and colleges and fills the
candidate table from a directory of PDF resumes using an LLM for field extraction.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(logLevel))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "inmem", false, "Use a private in-memory SQLite database instead of DB_URL")
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
