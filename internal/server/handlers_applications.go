package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

// filterFromQuery builds an ApplicationFilter from list/export query
// parameters. Unknown sort keys are passed through; the store falls back to
// the default ordering for anything outside its allow-list.
func filterFromQuery(r *http.Request) db.ApplicationFilter {
	q := r.URL.Query()
	filter := db.ApplicationFilter{
		Status:  q.Get("status"),
		Email:   q.Get("email"),
		Search:  q.Get("search"),
		SortKey: q.Get("sort"),
		SortAsc: q.Get("order") == "asc",
	}
	if v, err := strconv.ParseInt(q.Get("job_id"), 10, 64); err == nil && v > 0 {
		filter.JobID = &v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	return filter
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	apps, err := s.store.ListApplications(r.Context(), filter)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	total, err := s.store.CountApplications(r.Context(), filter)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"total":        total,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if app == nil {
		s.serviceError(w, &NotFoundError{Resource: "application", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

type applicationUpdateRequest struct {
	Name   *string    `json:"applicant_name"`
	Email  *string    `json:"applicant_email"`
	Phone  *string    `json:"applicant_phone"`
	Fields *db.Fields `json:"application_data"`
}

// handleUpdateApplication applies a partial update to contact details and
// form data. Status is rejected here: transitions go through the status
// endpoints.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	var raw map[string]json.RawMessage
	body, err := readBody(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, ok := raw["status"]; ok {
		s.errorResponse(w, http.StatusBadRequest, "status cannot be changed here; use the status endpoint")
		return
	}

	var req applicationUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if app == nil {
		s.serviceError(w, &NotFoundError{Resource: "application", ID: id})
		return
	}

	err = s.store.UpdateApplication(r.Context(), id, db.ApplicationUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Fields: req.Fields,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	updated, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if err := s.store.DeleteApplication(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleUpdateStatus transitions one application through the workflow
// engine, which validates the transition and fires the notification.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	to, err := workflow.ParseStatus(req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app, err := s.engine.Transition(r.Context(), id, to)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

type bulkStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

// handleBulkStatus applies one target status to many applications.
// Individual failures are reported per id and never abort the batch.
func (s *Server) handleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "ids is required")
		return
	}
	to, err := workflow.ParseStatus(req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.engine.BulkTransition(r.Context(), req.IDs, to)
	s.jsonResponse(w, http.StatusOK, result)
}
