package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/joseph-ayodele/intern-tracker/constants"
	"github.com/joseph-ayodele/intern-tracker/internal/candidates"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
	"github.com/joseph-ayodele/intern-tracker/internal/export"
	"github.com/joseph-ayodele/intern-tracker/internal/repository"
)

type candidateListResponse struct {
	Items []*entity.Candidate `json:"items"`
	Total int                 `json:"total"`
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	collegeID, err := queryInt(r, "college_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p := candidates.ListParams{Status: r.URL.Query().Get("status"), CollegeID: collegeID, Limit: 100}
	if offset != nil {
		p.Offset = *offset
	}
	if limit != nil {
		p.Limit = *limit
	}
	items, total, err := s.deps.Candidates.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []*entity.Candidate{}
	}
	s.jsonResponse(w, http.StatusOK, candidateListResponse{Items: items, Total: total})
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidates.CreateCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Candidates.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Candidates.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req candidates.UpdateCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Candidates.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Candidates.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Candidates.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCandidates streams an XLSX workbook of the (optionally filtered) candidates.
func (s *Server) handleExportCandidates(w http.ResponseWriter, r *http.Request) {
	if s.deps.Export == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	var filter repository.CandidateFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := constants.ParseStatus(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = &st
	}
	collegeID, err := queryInt(r, "college_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter.CollegeID = collegeID

	data, err := s.deps.Export.ExportCandidatesXLSX(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now().UTC())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
