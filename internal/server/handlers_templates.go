package server

import (
	"encoding/json"
	"net/http"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if templates == nil {
		templates = []db.EmailTemplate{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	tpl, err := s.store.GetTemplate(r.Context(), key)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if tpl == nil {
		s.serviceError(w, &NotFoundError{Resource: "template", ID: key})
		return
	}
	s.jsonResponse(w, http.StatusOK, tpl)
}

type templateUpdateRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req templateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "subject and body are required")
		return
	}

	tpl, err := s.store.UpsertTemplate(r.Context(), db.EmailTemplate{
		Key:     key,
		Subject: req.Subject,
		Body:    req.Body,
		Enabled: req.Enabled,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tpl)
}

// handlePreviewTemplate renders a template against a synthetic sample
// application, without sending anything.
func (s *Server) handlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	subject, body, ok, err := s.dispatcher.Preview(r.Context(), key)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !ok {
		s.serviceError(w, &NotFoundError{Resource: "template", ID: key})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"subject": subject,
		"body":    body,
	})
}

type testSendRequest struct {
	To string `json:"to" validate:"required,email"`
}

// handleTestSendTemplate sends a sample rendering to an explicit address.
// The template's enabled flag is ignored for test sends.
func (s *Server) handleTestSendTemplate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req testSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := requestValidator.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "a valid recipient address is required")
		return
	}

	if !s.dispatcher.TestSend(r.Context(), key, req.To) {
		s.errorResponse(w, http.StatusBadGateway, "test send failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sent": true, "to": req.To})
}
