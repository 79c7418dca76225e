package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/intern-tracker/internal/common"
)

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps an error chain onto a status and a client-safe message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.loggerFor(r).Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.errorResponse(w, status, common.PublicMessage(err))
}

// decodeJSON reads a JSON body into dst. Unknown fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.InvalidInputf("request body is empty")
		}
		return common.InvalidInputf("invalid JSON body: %v", err)
	}
	return nil
}

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, common.InvalidInputf("invalid id %q", raw)
	}
	return id, nil
}

// queryInt returns the named query parameter as an int, or nil when it is absent.
func queryInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, common.InvalidInputf("%s must be an integer", key)
	}
	return &v, nil
}
