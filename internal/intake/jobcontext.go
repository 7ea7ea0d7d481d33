package intake

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

// ErrNoJobContext is returned when no resolution step could bind the
// submission to a job. There is no reliable form-agnostic binding for
// off-page submissions; the explicit hidden field and stored form mappings
// are the dependable paths, the URL and session steps are best-effort
// fallbacks.
var ErrNoJobContext = errors.New("no job context could be resolved")

// MappingLookup resolves stored form-to-job bindings.
type MappingLookup interface {
	GetFormMapping(ctx context.Context, source, formID string) (*db.FormMapping, error)
}

// SessionLookup resolves the job a session last viewed.
type SessionLookup interface {
	CurrentJob(ctx context.Context, sessionID string) (int64, error)
}

// JobResolver binds a submission to a job. Resolution order, first match
// wins: explicit payload field, stored form mapping, the page the form was
// on, the HTTP referrer, the session's current job.
type JobResolver struct {
	mappings MappingLookup
	sessions SessionLookup
}

// NewJobResolver creates a resolver. sessions may be nil when no session
// store is configured; the session step is then skipped.
func NewJobResolver(mappings MappingLookup, sessions SessionLookup) *JobResolver {
	return &JobResolver{mappings: mappings, sessions: sessions}
}

// Resolve returns the job id for a submission, or ErrNoJobContext.
func (r *JobResolver) Resolve(ctx context.Context, raw RawSubmission, explicit int64) (int64, error) {
	if explicit > 0 {
		return explicit, nil
	}

	if r.mappings != nil && raw.FormID != "" {
		mapping, err := r.mappings.GetFormMapping(ctx, raw.Source, raw.FormID)
		if err != nil {
			return 0, err
		}
		if mapping != nil {
			return mapping.JobID, nil
		}
	}

	if id := jobIDFromURL(raw.PageURL); id > 0 {
		return id, nil
	}
	if id := jobIDFromURL(raw.Referrer); id > 0 {
		return id, nil
	}

	if r.sessions != nil && raw.SessionID != "" {
		id, err := r.sessions.CurrentJob(ctx, raw.SessionID)
		if err != nil {
			return 0, err
		}
		if id > 0 {
			return id, nil
		}
	}

	return 0, ErrNoJobContext
}

// jobIDFromURL extracts a job id from a job-page URL: either a job_id query
// parameter or a /jobs/{id} path segment.
func jobIDFromURL(rawURL string) int64 {
	if rawURL == "" {
		return 0
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}

	if v := u.Query().Get("job_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "jobs" || segments[i] == "job" {
			if id, err := strconv.ParseInt(segments[i+1], 10, 64); err == nil && id > 0 {
				return id
			}
		}
	}
	return 0
}
