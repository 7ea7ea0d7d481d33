package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
	"github.com/hiringdesk/applicant-tracker/internal/schemas"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

// NotFoundError indicates a requested resource does not exist.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Resource, e.ID)
}

// BadRequestError indicates the request was malformed or failed validation.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// ConflictError indicates the request conflicts with current resource state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnauthorizedError indicates missing or invalid credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// HTTPStatus maps an error to its HTTP status code.
func HTTPStatus(err error) int {
	var notFound *NotFoundError
	var badRequest *BadRequestError
	var conflict *ConflictError
	var unauthorized *UnauthorizedError
	var validation *schemas.ValidationError
	var adapterErr *intake.AdapterError
	var transition *workflow.InvalidTransitionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &adapterErr):
		return http.StatusBadRequest
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrDraftAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, intake.ErrNoJobContext):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
