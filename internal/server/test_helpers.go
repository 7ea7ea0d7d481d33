package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/config"
	"github.com/hiringdesk/applicant-tracker/internal/db"
	"github.com/hiringdesk/applicant-tracker/internal/export"
	"github.com/hiringdesk/applicant-tracker/internal/intake"
	"github.com/hiringdesk/applicant-tracker/internal/notify"
	"github.com/hiringdesk/applicant-tracker/internal/workflow"
)

// fakeStore is an in-memory Store for handler tests. It also satisfies the
// workflow, notify, intake and export store interfaces so one fake backs
// the whole wired server.
type fakeStore struct {
	mu        sync.Mutex
	apps      map[int64]*db.Application
	jobs      map[int64]*db.Job
	templates map[string]*db.EmailTemplate
	mappings  map[string]*db.FormMapping
	nextApp   int64
	nextJob   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:      map[int64]*db.Application{},
		jobs:      map[int64]*db.Job{},
		templates: map[string]*db.EmailTemplate{},
		mappings:  map[string]*db.FormMapping{},
		nextApp:   1,
		nextJob:   1,
	}
}

func (f *fakeStore) addJob(title string) *db.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := &db.Job{
		ID:        f.nextJob,
		Title:     title,
		Status:    db.JobStatusOpen,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.jobs[j.ID] = j
	f.nextJob++
	return j
}

func (f *fakeStore) CreateApplication(_ context.Context, input db.ApplicationCreateInput) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[input.JobID]
	if !ok {
		return nil, db.ErrJobNotFound
	}
	a := &db.Application{
		ID:        f.nextApp,
		JobID:     input.JobID,
		JobTitle:  job.Title,
		UserID:    input.UserID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    input.Status,
		Source:    input.Source,
		Fields:    input.Fields,
		SaveToken: input.SaveToken,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.apps[a.ID] = a
	f.nextApp++
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id int64) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetApplicationByToken(_ context.Context, token uuid.UUID) (*db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.SaveToken != nil && *a.SaveToken == token {
			if a.Status != string(workflow.StatusDraft) {
				return nil, db.ErrDraftAlreadySubmitted
			}
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateApplication(_ context.Context, id int64, input db.ApplicationUpdateInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return fmt.Errorf("application not found: %d", id)
	}
	if input.Name != nil {
		a.Name = *input.Name
	}
	if input.Email != nil {
		a.Email = *input.Email
	}
	if input.Phone != nil {
		a.Phone = *input.Phone
	}
	if input.Fields != nil {
		a.Fields = *input.Fields
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return fmt.Errorf("application not found: %d", id)
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) matches(a *db.Application, filter db.ApplicationFilter) bool {
	if filter.JobID != nil && a.JobID != *filter.JobID {
		return false
	}
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if filter.Email != "" && !strings.Contains(strings.ToLower(a.Email), strings.ToLower(filter.Email)) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Email), needle) {
			return false
		}
	}
	if len(filter.IDs) > 0 {
		found := false
		for _, id := range filter.IDs {
			if a.ID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.CreatedAfter != nil && !a.CreatedAt.After(*filter.CreatedAfter) {
		return false
	}
	return true
}

func (f *fakeStore) filtered(filter db.ApplicationFilter) []db.Application {
	var out []db.Application
	for _, a := range f.apps {
		if f.matches(a, filter) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) ListApplications(_ context.Context, filter db.ApplicationFilter) ([]db.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.filtered(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) CountApplications(_ context.Context, filter db.ApplicationFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filtered(filter)), nil
}

func (f *fakeStore) IterateApplications(ctx context.Context, filter db.ApplicationFilter, fn func(*db.Application) error) error {
	f.mu.Lock()
	out := f.filtered(filter)
	f.mu.Unlock()
	for i := range out {
		if err := fn(&out[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) DeleteApplication(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.apps, id)
	return nil
}

func (f *fakeStore) DeleteApplicationsByJob(_ context.Context, jobID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, a := range f.apps {
		if a.JobID == jobID {
			delete(f.apps, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStore) CreateJob(_ context.Context, input db.JobCreateInput) (*db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := &db.Job{
		ID:        f.nextJob,
		Title:     input.Title,
		Company:   input.Company,
		Location:  input.Location,
		Status:    db.JobStatusOpen,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.jobs[j.ID] = j
	f.nextJob++
	cp := *j
	return &cp, nil
}

func (f *fakeStore) GetJob(_ context.Context, id int64) (*db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeStore) ListJobs(_ context.Context, status string) ([]db.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Job
	for _, j := range f.jobs {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CloseJob(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return db.ErrJobNotFound
	}
	j.Status = db.JobStatusClosed
	return nil
}

func (f *fakeStore) GetTemplate(_ context.Context, key string) (*db.EmailTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[key]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListTemplates(_ context.Context) ([]db.EmailTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.EmailTemplate
	for _, t := range f.templates {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeStore) UpsertTemplate(_ context.Context, t db.EmailTemplate) (*db.EmailTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.UpdatedAt = time.Now()
	f.templates[t.Key] = &t
	cp := t
	return &cp, nil
}

func (f *fakeStore) GetFormMapping(_ context.Context, source, formID string) (*db.FormMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.mappings[source+":"+formID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) ListFormMappings(_ context.Context) ([]db.FormMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.FormMapping
	for _, m := range f.mappings {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Source+out[i].FormID < out[j].Source+out[j].FormID
	})
	return out, nil
}

func (f *fakeStore) UpsertFormMapping(_ context.Context, source, formID string, jobID int64) (*db.FormMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[jobID]; !ok {
		return nil, db.ErrJobNotFound
	}
	m := &db.FormMapping{Source: source, FormID: formID, JobID: jobID, CreatedAt: time.Now()}
	f.mappings[source+":"+formID] = m
	cp := *m
	return &cp, nil
}

// fakeTransport records sent mail instead of delivering it.
type fakeTransport struct {
	mu    sync.Mutex
	sends []sentMail
	err   error
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

func (t *fakeTransport) Send(_ context.Context, to []string, subject, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sends = append(t.sends, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (t *fakeTransport) sent() []sentMail {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]sentMail(nil), t.sends...)
}

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct-horse-battery"
)

// newTestServer wires a server over the in-memory fake store with a
// recording mail transport. One open job ("Backend Engineer", id 1) is
// pre-seeded.
func newTestServer() (*Server, *fakeStore, *fakeTransport) {
	store := newFakeStore()
	store.addJob("Backend Engineer")

	transport := &fakeTransport{}
	site := notify.SiteInfo{
		URL:         "https://careers.example.com",
		CompanyName: "Example Co",
		AdminEmail:  testAdminEmail,
		SenderName:  "Example Hiring",
	}
	dispatcher := notify.NewDispatcher(store, transport, site, nil, zap.NewNop())
	engine := workflow.NewEngine(store, dispatcher, zap.NewNop())
	resolver := intake.NewJobResolver(store, nil)
	intakeService := intake.NewService(resolver, store, zap.NewNop())

	hash, err := config.HashPassword(testAdminPassword, 4)
	if err != nil {
		panic(err)
	}

	s := New(0, Deps{
		Store:      store,
		Intake:     intakeService,
		Engine:     engine,
		Dispatcher: dispatcher,
		Exporter:   export.NewExporter(store),
		Sessions:   nil,
		JWT:        NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}),
		Admin:      &config.AdminConfig{Email: testAdminEmail, PasswordHash: hash, BcryptCost: 4},
		Logger:     zap.NewNop(),
	})
	return s, store, transport
}
