package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

type jobCreateRequest struct {
	Title     string     `json:"title" validate:"required"`
	Company   string     `json:"company"`
	Location  string     `json:"location"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	job, err := s.store.CreateJob(r.Context(), db.JobCreateInput{
		Title:     req.Title,
		Company:   req.Company,
		Location:  req.Location,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleGetJob is the public job view. Viewing a job records it as the
// session's current job so a later submission without any job reference can
// still be routed.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if job == nil {
		s.serviceError(w, &NotFoundError{Resource: "job", ID: id})
		return
	}

	s.recordCurrentJob(r, w, job.ID)
	s.jsonResponse(w, http.StatusOK, job)
}

// handleCloseJob closes a job. With ?purge=true its applications are
// deleted; otherwise they stay readable with their last status.
func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	purge := r.URL.Query().Get("purge") == "true"

	deleted, err := s.engine.CloseJob(r.Context(), id, purge)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":               id,
		"status":               db.JobStatusClosed,
		"applications_deleted": deleted,
	})
}
