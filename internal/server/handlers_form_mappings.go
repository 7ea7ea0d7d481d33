package server

import (
	"encoding/json"
	"net/http"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
)

var knownSources = map[string]bool{
	intake.SourceGravity: true,
	intake.SourceCF7:     true,
	intake.SourceWPForms: true,
	intake.SourceNinja:   true,
	intake.SourceCustom:  true,
}

func (s *Server) handleListFormMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.store.ListFormMappings(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if mappings == nil {
		mappings = []db.FormMapping{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"form_mappings": mappings})
}

type formMappingRequest struct {
	JobID int64 `json:"job_id"`
}

// handleUpsertFormMapping binds a third-party form to a job so its
// submissions need no explicit job field.
func (s *Server) handleUpsertFormMapping(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	formID := r.PathValue("form_id")
	if !knownSources[source] {
		s.errorResponse(w, http.StatusBadRequest, "unknown form source")
		return
	}
	if formID == "" {
		s.errorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	var req formMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.JobID < 1 {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	mapping, err := s.store.UpsertFormMapping(r.Context(), source, formID, req.JobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, mapping)
}
