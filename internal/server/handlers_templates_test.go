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

func TestHandleGetTemplate_NotFound(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/templates/offered", nil)
	req.SetPathValue("key", "offered")
	w := httptest.NewRecorder()

	s.handleGetTemplate(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateTemplate_UpsertAndGet(t *testing.T) {
	s, _, _ := newTestServer()

	body := `{"subject": "You're shortlisted", "body": "Hi {applicant_name}", "enabled": true}`
	req := httptest.NewRequest(http.MethodPut, "/templates/shortlisted", strings.NewReader(body))
	req.SetPathValue("key", "shortlisted")
	w := httptest.NewRecorder()

	s.handleUpdateTemplate(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/templates/shortlisted", nil)
	getReq.SetPathValue("key", "shortlisted")
	getW := httptest.NewRecorder()
	s.handleGetTemplate(getW, getReq)

	require.Equal(t, http.StatusOK, getW.Code)
	var tpl db.EmailTemplate
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &tpl))
	assert.Equal(t, "You're shortlisted", tpl.Subject)
	assert.True(t, tpl.Enabled)
}

func TestHandleUpdateTemplate_MissingSubject(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPut, "/templates/shortlisted",
		strings.NewReader(`{"body": "Hi"}`))
	req.SetPathValue("key", "shortlisted")
	w := httptest.NewRecorder()

	s.handleUpdateTemplate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePreviewTemplate_RendersSampleData(t *testing.T) {
	s, store, _ := newTestServer()
	_, err := store.UpsertTemplate(context.Background(), db.EmailTemplate{
		Key:     "interviewed",
		Subject: "Interview for {job_title}",
		Body:    "Dear {applicant_name}, status is {status}. {unknown_tag}",
		Enabled: true,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/templates/interviewed/preview", nil)
	req.SetPathValue("key", "interviewed")
	w := httptest.NewRecorder()

	s.handlePreviewTemplate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp["body"], "{applicant_name}")
	// Unknown placeholders pass through untouched.
	assert.Contains(t, resp["body"], "{unknown_tag}")
}

func TestHandleTestSendTemplate_IgnoresDisabledFlag(t *testing.T) {
	s, store, transport := newTestServer()
	_, err := store.UpsertTemplate(context.Background(), dbTemplate("rejected", false))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/templates/rejected/test-send",
		strings.NewReader(`{"to": "check@example.com"}`))
	req.SetPathValue("key", "rejected")
	w := httptest.NewRecorder()

	s.handleTestSendTemplate(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	sent := transport.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"check@example.com"}, sent[0].To)
}

func TestHandleTestSendTemplate_InvalidRecipient(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/templates/rejected/test-send",
		strings.NewReader(`{"to": "not-an-address"}`))
	req.SetPathValue("key", "rejected")
	w := httptest.NewRecorder()

	s.handleTestSendTemplate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
