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
)

func TestHandleCreateJob_MissingTitle(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{"company": "Acme"}`))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateJob_Success(t *testing.T) {
	s, _, _ := newTestServer()

	body := `{"title": "Data Engineer", "company": "Acme", "location": "Remote"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var job db.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "Data Engineer", job.Title)
	assert.Equal(t, db.JobStatusOpen, job.Status)
}

func TestHandleGetJob_NotFound(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs/99", nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()

	s.handleGetJob(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCloseJob_KeepsApplications(t *testing.T) {
	s, store, _ := newTestServer()
	seedApplication(t, store, "Jane Doe", "jane@example.com", "submitted")

	req := httptest.NewRequest(http.MethodPost, "/jobs/1/close", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()

	s.handleCloseJob(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	job, err := store.GetJob(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, db.JobStatusClosed, job.Status)

	// Applications stay readable with their last status.
	app, err := store.GetApplication(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "submitted", app.Status)
}

func TestHandleCloseJob_Purge(t *testing.T) {
	s, store, _ := newTestServer()
	seedApplication(t, store, "Jane Doe", "jane@example.com", "submitted")
	seedApplication(t, store, "John Roe", "john@example.com", "hired")

	req := httptest.NewRequest(http.MethodPost, "/jobs/1/close?purge=true", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()

	s.handleCloseJob(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["applications_deleted"])

	app, err := store.GetApplication(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestHandleUpsertFormMapping_UnknownSource(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPut, "/form-mappings/typeform/12",
		strings.NewReader(`{"job_id": 1}`))
	req.SetPathValue("source", "typeform")
	req.SetPathValue("form_id", "12")
	w := httptest.NewRecorder()

	s.handleUpsertFormMapping(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpsertFormMapping_RoundTrip(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPut, "/form-mappings/gravity/7",
		strings.NewReader(`{"job_id": 1}`))
	req.SetPathValue("source", "gravity")
	req.SetPathValue("form_id", "7")
	w := httptest.NewRecorder()

	s.handleUpsertFormMapping(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/form-mappings", nil)
	listW := httptest.NewRecorder()
	s.handleListFormMappings(listW, listReq)

	require.Equal(t, http.StatusOK, listW.Code)
	var resp struct {
		FormMappings []db.FormMapping `json:"form_mappings"`
	}
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &resp))
	require.Len(t, resp.FormMappings, 1)
	assert.Equal(t, int64(1), resp.FormMappings[0].JobID)
}

func TestHandleUpsertFormMapping_MissingJob(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPut, "/form-mappings/gravity/7",
		strings.NewReader(`{"job_id": 404}`))
	req.SetPathValue("source", "gravity")
	req.SetPathValue("form_id", "7")
	w := httptest.NewRecorder()

	s.handleUpsertFormMapping(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
