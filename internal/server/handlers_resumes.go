package server

import (
	"errors"
	"net/http"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
	"github.com/joseph-ayodele/intern-tracker/internal/ingest"
)

// handleExtractResumes runs the ingestion pipeline over the resume directory.
// The body is the filename -> outcome mapping.
func (s *Server) handleExtractResumes(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ingester == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume ingestion is not configured")
		return
	}
	collegeID, err := queryInt(r, "college_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.loggerFor(r).Info("resume extraction requested", "scoped", collegeID != nil)
	out, err := s.deps.Ingester.Run(r.Context(), ingest.RunOptions{CollegeID: collegeID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

type uploadResponse struct {
	Saved    map[string]string `json:"saved"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

// handleUploadResumes stores multipart "resumes" files in the resume directory.
func (s *Server) handleUploadResumes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadSize)
	if err := r.ParseMultipartForm(s.deps.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "expected multipart form with resumes")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["resumes"]
	if len(files) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "no files in field resumes")
		return
	}

	resp := uploadResponse{Saved: map[string]string{}, Rejected: map[string]string{}}
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			resp.Rejected[fh.Filename] = "could not read upload"
			continue
		}
		name, err := ingest.SaveUpload(s.deps.ResumeDir, fh.Filename, f)
		_ = f.Close()
		if err != nil {
			if errors.Is(err, common.ErrInvalidInput) {
				resp.Rejected[fh.Filename] = common.PublicMessage(err)
			} else {
				s.loggerFor(r).Error("failed to save upload", "file", fh.Filename, "error", err)
				resp.Rejected[fh.Filename] = "could not store file"
			}
			continue
		}
		resp.Saved[fh.Filename] = name
	}

	status := http.StatusCreated
	if len(resp.Saved) == 0 {
		status = http.StatusBadRequest
	}
	s.loggerFor(r).Info("resumes uploaded", "saved", len(resp.Saved), "rejected", len(resp.Rejected))
	s.jsonResponse(w, status, resp)
}
