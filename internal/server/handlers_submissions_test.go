package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

func dbTemplate(key string, enabled bool) db.EmailTemplate {
	return db.EmailTemplate{
		Key:     key,
		Subject: "Update on your application",
		Body:    "Hi {applicant_name}, your application for {job_title} is now {status}.",
		Enabled: enabled,
	}
}

const gravityBody = `{
	"form_id": "7",
	"fields": [
		{"id": "1", "label": "Name", "type": "name", "value": "Jane Doe"},
		{"id": "2", "label": "Email", "type": "email", "value": "jane@example.com"},
		{"id": "3", "label": "Job ID", "type": "hidden", "value": "1"},
		{"id": "4", "label": "Cover Letter", "type": "textarea", "value": "Hello there"}
	]
}`

func TestHandleSubmit_GravityForms(t *testing.T) {
	s, store, transport := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/submit/gravity", strings.NewReader(gravityBody))
	req.SetPathValue("source", "gravity")
	w := httptest.NewRecorder()

	s.handleSubmit(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])

	app, err := store.GetApplication(req.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "Jane Doe", app.Name)
	assert.Equal(t, "jane@example.com", app.Email)
	assert.Equal(t, string(workflow.StatusSubmitted), app.Status)
	assert.Equal(t, "gravity", app.Source)

	// Submission confirmation requires a stored, enabled template.
	assert.Empty(t, transport.sent())
}

func TestHandleSubmit_SendsConfirmationWhenTemplateEnabled(t *testing.T) {
	s, store, transport := newTestServer()
	_, err := store.UpsertTemplate(context.Background(), dbTemplate("submitted", true))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submit/gravity", strings.NewReader(gravityBody))
	req.SetPathValue("source", "gravity")
	w := httptest.NewRecorder()

	s.handleSubmit(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	sent := transport.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].Body, "Jane Doe")
}

func TestHandleSubmit_UnknownSource(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/submit/typeform", strings.NewReader(`{}`))
	req.SetPathValue("source", "typeform")
	w := httptest.NewRecorder()

	s.handleSubmit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Applicant-facing message carries no diagnostic detail.
	assert.Equal(t, "submission could not be accepted", resp["error"])
}

func TestHandleSubmit_MissingEmailDiscarded(t *testing.T) {
	s, store, _ := newTestServer()

	body := `{"form_id": "7", "fields": [
		{"id": "1", "label": "Name", "type": "name", "value": "Jane Doe"},
		{"id": "2", "label": "Job ID", "type": "hidden", "value": "1"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/submit/gravity", strings.NewReader(body))
	req.SetPathValue("source", "gravity")
	w := httptest.NewRecorder()

	s.handleSubmit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	app, err := store.GetApplication(req.Context(), 1)
	require.NoError(t, err)
	assert.Nil(t, app, "discarded submission must persist nothing")
}

func TestHandleSaveDraft_ReturnsToken(t *testing.T) {
	s, _, _ := newTestServer()

	body := `{"job_id": 1, "applicant_name": "Sam Early", "application_data": [{"label": "City", "values": ["Lisbon"]}]}`
	req := httptest.NewRequest(http.MethodPost, "/applications/draft", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleSaveDraft(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["save_token"])
}

func TestHandleSaveDraft_MissingJob(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/applications/draft", strings.NewReader(`{"applicant_name": "Sam"}`))
	w := httptest.NewRecorder()

	s.handleSaveDraft(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func saveDraft(t *testing.T, s *Server, body string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/applications/draft", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handleSaveDraft(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["save_token"].(string)
}

func TestHandleResumeDraft_RoundTrip(t *testing.T) {
	s, _, _ := newTestServer()
	token := saveDraft(t, s, `{"job_id": 1, "applicant_name": "Sam Early"}`)

	req := httptest.NewRequest(http.MethodGet, "/applications/resume/"+token, nil)
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()

	s.handleResumeDraft(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sam Early", resp["applicant_name"])
	assert.Equal(t, string(workflow.StatusDraft), resp["status"])
}

func TestHandleResumeDraft_UnknownToken(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/applications/resume/9f4ba7e6-64f5-4b1b-bd01-0c6b51c171aa", nil)
	req.SetPathValue("token", "9f4ba7e6-64f5-4b1b-bd01-0c6b51c171aa")
	w := httptest.NewRecorder()

	s.handleResumeDraft(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSubmitDraft_TransitionsAndLocksToken(t *testing.T) {
	s, store, _ := newTestServer()
	token := saveDraft(t, s, `{"job_id": 1, "applicant_name": "Sam Early", "applicant_email": "sam@example.com"}`)

	req := httptest.NewRequest(http.MethodPost, "/applications/resume/"+token+"/submit", nil)
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()

	s.handleSubmitDraft(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	app, err := store.GetApplication(req.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, string(workflow.StatusSubmitted), app.Status)

	// The token no longer resolves once the draft is submitted.
	getReq := httptest.NewRequest(http.MethodGet, "/applications/resume/"+token, nil)
	getReq.SetPathValue("token", token)
	getW := httptest.NewRecorder()
	s.handleResumeDraft(getW, getReq)

	assert.Equal(t, http.StatusConflict, getW.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "already been submitted")
}

func TestHandleSubmitDraft_RequiresContactDetails(t *testing.T) {
	s, _, _ := newTestServer()
	token := saveDraft(t, s, `{"job_id": 1}`)

	req := httptest.NewRequest(http.MethodPost, "/applications/resume/"+token+"/submit", nil)
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()

	s.handleSubmitDraft(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdateDraft_OverwritesFields(t *testing.T) {
	s, _, _ := newTestServer()
	token := saveDraft(t, s, `{"job_id": 1, "applicant_name": "Sam Early"}`)

	body := `{"applicant_email": "sam@example.com", "application_data": [{"label": "City", "values": ["Porto"]}]}`
	req := httptest.NewRequest(http.MethodPost, "/applications/resume/"+token, strings.NewReader(body))
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()

	s.handleUpdateDraft(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sam@example.com", resp["applicant_email"])
	assert.Equal(t, "Sam Early", resp["applicant_name"])
}
