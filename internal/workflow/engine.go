package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

// ErrNotFound is returned when a transition targets an id with no stored
// application.
var ErrNotFound = errors.New("application not found")

// Store is the slice of the persistence layer the engine needs.
type Store interface {
	GetApplication(ctx context.Context, id int64) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string) error
	CloseJob(ctx context.Context, id int64) error
	DeleteApplicationsByJob(ctx context.Context, jobID int64) (int64, error)
}

// Notifier sends the applicant email for a status the application just
// reached. Implementations report success as a bool; a failed send never
// propagates as an error out of the engine.
type Notifier interface {
	Send(ctx context.Context, templateKey string, app *db.Application) bool
}

// Engine validates and applies status transitions and drives their side
// effects. Applications are mutated only through it.
type Engine struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
}

// NewEngine creates a transition engine.
func NewEngine(store Store, notifier Notifier, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, notifier: notifier, log: log}
}

// Transition moves an application to a new status. The status change is
// committed first; the notification is dispatched after and its failure is
// logged, not rolled back. Returns the application with its new status.
func (e *Engine) Transition(ctx context.Context, id int64, to Status) (*db.Application, error) {
	app, err := e.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}

	from := Status(app.Status)
	if !CanTransition(from, to) {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	if err := e.store.UpdateApplicationStatus(ctx, id, string(to)); err != nil {
		return nil, err
	}
	app.Status = string(to)

	if e.notifier != nil {
		if ok := e.notifier.Send(ctx, string(to), app); !ok {
			e.log.Warn("status notification not sent",
				zap.Int64("application_id", id),
				zap.String("status", string(to)))
		}
	}

	e.log.Info("application transitioned",
		zap.Int64("application_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return app, nil
}

// BulkResult summarizes a bulk transition. Failed maps each failed id to its
// reason; failures never abort the batch.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    map[int64]string `json:"failed,omitempty"`
}

// BulkTransition applies one target status to a set of applications,
// one at a time.
func (e *Engine) BulkTransition(ctx context.Context, ids []int64, to Status) BulkResult {
	result := BulkResult{Failed: map[int64]string{}}
	for _, id := range ids {
		if _, err := e.Transition(ctx, id, to); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded++
	}
	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result
}

// CloseJob marks a job closed. When purge is set the job's applications are
// deleted as well; otherwise they remain retrievable with their last status.
// Returns the number of applications deleted.
func (e *Engine) CloseJob(ctx context.Context, jobID int64, purge bool) (int64, error) {
	if err := e.store.CloseJob(ctx, jobID); err != nil {
		return 0, err
	}
	if !purge {
		return 0, nil
	}
	deleted, err := e.store.DeleteApplicationsByJob(ctx, jobID)
	if err != nil {
		return 0, err
	}
	e.log.Info("job closed with applications purged",
		zap.Int64("job_id", jobID),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
