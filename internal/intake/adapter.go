// Package intake normalizes third-party form submissions into canonical
// applications. One adapter per source system maps its native payload shape
// onto the canonical fields; a shared heuristic pass covers untyped payloads.
package intake

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/telemetry"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

// Source names for the supported form systems.
const (
	SourceGravity = "gravity"
	SourceCF7     = "cf7"
	SourceWPForms = "wpforms"
	SourceNinja   = "ninja"
	SourceCustom  = "custom"
)

// RawSubmission is an inbound payload plus the request context used for
// job resolution.
type RawSubmission struct {
	Source    string
	FormID    string
	Payload   []byte
	PageURL   string
	Referrer  string
	SessionID string
}

// Submission is the canonical adapter output. JobID may be zero when the
// payload carried no explicit job field; the resolver fills it afterwards.
type Submission struct {
	JobID  int64
	Name   string
	Email  string
	Phone  string
	Source string
	Fields db.Fields
}

// Adapter converts one source system's payload into a canonical submission.
type Adapter interface {
	Source() string
	Extract(raw RawSubmission) (*Submission, error)
}

// AdapterError reports why a submission was discarded at intake. It is
// diagnostic only; the applicant-facing response never carries its detail.
type AdapterError struct {
	Source string
	Reason string
	Err    error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intake %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("intake %s: %s", e.Source, e.Reason)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// ApplicationCreator is the slice of the store the intake service needs.
type ApplicationCreator interface {
	CreateApplication(ctx context.Context, input db.ApplicationCreateInput) (*db.Application, error)
}

// Service runs a payload through its adapter, resolves the target job, and
// persists the application.
type Service struct {
	adapters map[string]Adapter
	resolver *JobResolver
	store    ApplicationCreator
	validate *validator.Validate
	log      *zap.Logger
}

// NewService creates an intake service with all supported adapters registered.
func NewService(resolver *JobResolver, store ApplicationCreator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		adapters: map[string]Adapter{},
		resolver: resolver,
		store:    store,
		validate: validator.New(),
		log:      log,
	}
	for _, a := range []Adapter{
		&GravityAdapter{},
		&CF7Adapter{},
		&WPFormsAdapter{},
		&NinjaAdapter{},
		&GenericAdapter{},
	} {
		s.adapters[a.Source()] = a
	}
	return s
}

// Process normalizes and persists one submission. On any intake failure the
// submission is discarded with a logged diagnostic and an *AdapterError; a
// discarded submission persists nothing.
func (s *Service) Process(ctx context.Context, raw RawSubmission) (*db.Application, error) {
	telemetry.SubmissionsReceived.Inc()

	adapter, ok := s.adapters[raw.Source]
	if !ok {
		return nil, s.discard(raw, &AdapterError{Source: raw.Source, Reason: "unknown form source"})
	}

	sub, err := adapter.Extract(raw)
	if err != nil {
		aerr, ok := err.(*AdapterError)
		if !ok {
			aerr = &AdapterError{Source: raw.Source, Reason: "extraction failed", Err: err}
		}
		return nil, s.discard(raw, aerr)
	}

	if sub.Name == "" {
		return nil, s.discard(raw, &AdapterError{Source: raw.Source, Reason: "applicant name could not be resolved"})
	}
	if err := s.validate.Var(sub.Email, "required,email"); err != nil {
		return nil, s.discard(raw, &AdapterError{Source: raw.Source, Reason: "applicant email could not be resolved"})
	}

	jobID, err := s.resolver.Resolve(ctx, raw, sub.JobID)
	if err != nil {
		return nil, s.discard(raw, &AdapterError{Source: raw.Source, Reason: "job could not be resolved", Err: err})
	}

	app, err := s.store.CreateApplication(ctx, db.ApplicationCreateInput{
		JobID:  jobID,
		Name:   sub.Name,
		Email:  sub.Email,
		Phone:  sub.Phone,
		Status: string(workflow.StatusSubmitted),
		Source: raw.Source,
		Fields: sub.Fields,
	})
	if err != nil {
		if err == db.ErrJobNotFound {
			return nil, s.discard(raw, &AdapterError{Source: raw.Source, Reason: "resolved job does not exist", Err: err})
		}
		return nil, err
	}

	telemetry.ApplicationsCreated.Inc()
	s.log.Info("application created",
		zap.Int64("application_id", app.ID),
		zap.Int64("job_id", app.JobID),
		zap.String("source", raw.Source))
	return app, nil
}

func (s *Service) discard(raw RawSubmission, aerr *AdapterError) error {
	telemetry.SubmissionsDiscarded.Inc()
	s.log.Warn("submission discarded",
		zap.String("source", raw.Source),
		zap.String("form_id", raw.FormID),
		zap.String("reason", aerr.Reason),
		zap.Error(aerr.Err))
	return aerr
}
