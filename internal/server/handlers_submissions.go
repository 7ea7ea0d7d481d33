package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

const maxSubmissionBytes = 1 << 20 // 1 MiB

// sessionCookie identifies an anonymous visitor for job-context resolution.
const sessionCookie = "ats_session"

// handleSubmit receives a third-party form webhook and runs it through
// intake. Responses are deliberately generic: diagnostic detail goes to the
// logs, never back to the form plugin.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}

	raw := intake.RawSubmission{
		Source:    source,
		FormID:    r.URL.Query().Get("form_id"),
		Payload:   payload,
		PageURL:   r.Header.Get("X-Page-URL"),
		Referrer:  r.Referer(),
		SessionID: s.sessionID(r),
	}

	app, err := s.intake.Process(r.Context(), raw)
	if err != nil {
		var aerr *intake.AdapterError
		if errors.As(err, &aerr) {
			s.errorResponse(w, http.StatusBadRequest, "submission could not be accepted")
			return
		}
		s.serviceError(w, err)
		return
	}

	s.dispatcher.Send(r.Context(), string(workflow.StatusSubmitted), app)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"status":         "accepted",
		"application_id": app.ID,
	})
}

type draftRequest struct {
	JobID  int64     `json:"job_id"`
	Name   string    `json:"applicant_name"`
	Email  string    `json:"applicant_email"`
	Phone  string    `json:"applicant_phone"`
	Fields db.Fields `json:"application_data"`
}

// handleSaveDraft persists a partially filled application and returns the
// save token used to resume it later.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.JobID < 1 {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	token := uuid.New()
	app, err := s.store.CreateApplication(r.Context(), db.ApplicationCreateInput{
		JobID:     req.JobID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    string(workflow.StatusDraft),
		Source:    intake.SourceCustom,
		Fields:    req.Fields,
		SaveToken: &token,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"save_token":     token.String(),
		"application_id": app.ID,
	})
}

// resumeDraft loads the draft behind a save token and writes the error
// response itself on failure.
func (s *Server) resumeDraft(w http.ResponseWriter, r *http.Request) *db.Application {
	token, err := uuid.Parse(r.PathValue("token"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "draft not found")
		return nil
	}
	app, err := s.store.GetApplicationByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, db.ErrDraftAlreadySubmitted) {
			s.errorResponse(w, http.StatusConflict, "this application has already been submitted")
			return nil
		}
		s.serviceError(w, err)
		return nil
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "draft not found")
		return nil
	}
	return app
}

func (s *Server) handleResumeDraft(w http.ResponseWriter, r *http.Request) {
	app := s.resumeDraft(w, r)
	if app == nil {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateDraft overwrites the saved fields of a draft.
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	app := s.resumeDraft(w, r)
	if app == nil {
		return
	}

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	input := db.ApplicationUpdateInput{}
	if req.Name != "" {
		input.Name = &req.Name
	}
	if req.Email != "" {
		input.Email = &req.Email
	}
	if req.Phone != "" {
		input.Phone = &req.Phone
	}
	if req.Fields != nil {
		input.Fields = &req.Fields
	}
	if err := s.store.UpdateApplication(r.Context(), app.ID, input); err != nil {
		s.serviceError(w, err)
		return
	}

	updated, err := s.store.GetApplication(r.Context(), app.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleSubmitDraft finalizes a draft. The draft must carry a name and
// email by this point; the transition to submitted fires the notification.
func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	app := s.resumeDraft(w, r)
	if app == nil {
		return
	}
	if app.Name == "" || app.Email == "" {
		s.errorResponse(w, http.StatusBadRequest, "applicant name and email are required before submitting")
		return
	}

	submitted, err := s.engine.Transition(r.Context(), app.ID, workflow.StatusSubmitted)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, submitted)
}

// sessionID reads the visitor session cookie, if any.
func (s *Server) sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return r.Header.Get("X-Session-ID")
}

// recordCurrentJob notes which job the session last viewed, for submissions
// that arrive without any job reference of their own.
func (s *Server) recordCurrentJob(r *http.Request, w http.ResponseWriter, jobID int64) {
	if s.sessions == nil {
		return
	}
	sid := s.sessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if err := s.sessions.SetCurrentJob(r.Context(), sid, jobID); err != nil {
		s.log.Warn("failed to record session job",
			zap.Int64("job_id", jobID), zap.Error(err))
	}
}
