package server

import (
	"net/http"

	"github.com/joseph-ayodele/intern-tracker/internal/colleges"
	"github.com/joseph-ayodele/intern-tracker/internal/entity"
)

func (s *Server) handleListColleges(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Colleges.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*entity.College{}
	}
	s.jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleCreateCollege(w http.ResponseWriter, r *http.Request) {
	var req colleges.CreateCollegeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Colleges.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

func (s *Server) handleGetCollege(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Colleges.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCollege(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req colleges.UpdateCollegeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.deps.Colleges.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCollege(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Colleges.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
