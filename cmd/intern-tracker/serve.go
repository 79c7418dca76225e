package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"

	"github.com/joseph-ayodele/intern-tracker/internal/candidates"
	"github.com/joseph-ayodele/intern-tracker/internal/colleges"
	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/export"
	repo "github.com/joseph-ayodele/intern-tracker/internal/repository"
	"github.com/joseph-ayodele/intern-tracker/internal/server"
)

var (
	serveHTTPAddr string
	serveGRPCAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health endpoint",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc-addr", "", "gRPC health listen address (overrides GRPC_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := closeLLM(); err != nil {
			a.logger.Warn("llm.close.failed", "error", err)
		}
	}()

	httpAddr := firstNonEmpty(serveHTTPAddr, a.cfg.Server.HTTPAddr)
	grpcAddr := firstNonEmpty(serveGRPCAddr, a.cfg.Server.GRPCAddr)
	if httpAddr == "" {
		return common.NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", common.ErrInvalidInput)
	}

	validator := common.NewValidator()
	candidateRepo := repo.NewCandidateRepository(a.drv, a.logger)
	collegeRepo := repo.NewCollegeRepository(a.drv, a.logger)
	healthCheck := func(ctx context.Context) error {
		return server.PingDB(ctx, a.drv, a.logger, a.cfg.Database.DialTimeout)
	}

	api := server.New(server.Deps{
		Ingester:      a.pipeline(fields, a.cfg.Ingest.ResumeDir),
		Candidates:    candidates.NewService(candidateRepo, collegeRepo, validator, a.logger),
		Colleges:      colleges.NewService(collegeRepo, validator, a.logger),
		Export:        export.NewService(candidateRepo, collegeRepo, a.logger),
		ResumeDir:     a.cfg.Ingest.ResumeDir,
		MaxUploadSize: a.cfg.Ingest.MaxUploadSize,
		HealthCheck:   healthCheck,
	}, a.logger)

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("http.serve", "addr", httpAddr, "resume_dir", a.cfg.Ingest.ResumeDir, "llm_provider", a.cfg.LLM.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve: %w", err)
		}
	}()

	hs := health.NewServer()
	grpcServer := server.NewGRPCServer(hs)
	if grpcAddr != "" {
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("listen %s: %w", grpcAddr, err)
		}
		go server.WatchHealth(ctx, hs, healthCheck, 15*time.Second, a.logger)
		go func() {
			a.logger.Info("grpc.serve", "addr", grpcAddr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc serve: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err = <-errCh:
		a.logger.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		a.logger.Error("http shutdown failed", "error", serr)
	}
	grpcServer.GracefulStop()
	a.logger.Info("stopped")
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
