// Package server provides the HTTP REST API and the gRPC health endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/intern-tracker/internal/candidates"
	"github.com/joseph-ayodele/intern-tracker/internal/colleges"
	"github.com/joseph-ayodele/intern-tracker/internal/export"
	"github.com/joseph-ayodele/intern-tracker/internal/ingest"
)

// ResumeIngester runs one resume ingestion batch.
type ResumeIngester interface {
	Run(ctx context.Context, opts ingest.RunOptions) (ingest.Outcomes, error)
}

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Ingester      ResumeIngester
	Candidates    *candidates.Service
	Colleges      *colleges.Service
	Export        *export.Service
	ResumeDir     string
	MaxUploadSize int64
	// HealthCheck reports storage health; nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// Server represents the HTTP API
type Server struct {
	deps   Deps
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a server and registers its routes.
func New(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.MaxUploadSize <= 0 {
		deps.MaxUploadSize = 32 << 20
	}
	s := &Server{deps: deps, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Resume ingestion
	s.mux.HandleFunc("POST /api/v1/resumes/extract", s.handleExtractResumes)
	s.mux.HandleFunc("POST /api/v1/resumes/upload", s.handleUploadResumes)

	// Candidates
	s.mux.HandleFunc("GET /api/v1/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /api/v1/candidates", s.handleCreateCandidate)
	s.mux.HandleFunc("GET /api/v1/candidates/export.xlsx", s.handleExportCandidates)
	s.mux.HandleFunc("GET /api/v1/candidates/{id}", s.handleGetCandidate)
	s.mux.HandleFunc("PUT /api/v1/candidates/{id}", s.handleUpdateCandidate)
	s.mux.HandleFunc("DELETE /api/v1/candidates/{id}", s.handleDeleteCandidate)
	s.mux.HandleFunc("PATCH /api/v1/candidates/{id}/status", s.handleUpdateCandidateStatus)

	// Colleges
	s.mux.HandleFunc("GET /api/v1/colleges", s.handleListColleges)
	s.mux.HandleFunc("POST /api/v1/colleges", s.handleCreateCollege)
	s.mux.HandleFunc("GET /api/v1/colleges/{id}", s.handleGetCollege)
	s.mux.HandleFunc("PUT /api/v1/colleges/{id}", s.handleUpdateCollege)
	s.mux.HandleFunc("DELETE /api/v1/colleges/{id}", s.handleDeleteCollege)

	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(s.withRecover(s.mux)))
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthCheck != nil {
		if err := s.deps.HealthCheck(r.Context()); err != nil {
			s.loggerFor(r).Warn("health check failed", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
