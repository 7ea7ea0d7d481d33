package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

type stubCreator struct {
	created []db.ApplicationCreateInput
	err     error
}

func (c *stubCreator) CreateApplication(_ context.Context, input db.ApplicationCreateInput) (*db.Application, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.created = append(c.created, input)
	return &db.Application{
		ID:     int64(len(c.created)),
		JobID:  input.JobID,
		Name:   input.Name,
		Email:  input.Email,
		Status: input.Status,
		Source: input.Source,
		Fields: input.Fields,
	}, nil
}

func newTestService(creator *stubCreator) *Service {
	resolver := NewJobResolver(&stubMappings{mappings: map[string]int64{"gravity:7": 3}}, nil)
	return NewService(resolver, creator, zap.NewNop())
}

func TestProcess_PersistsSubmittedApplication(t *testing.T) {
	creator := &stubCreator{}
	svc := newTestService(creator)

	app, err := svc.Process(context.Background(), RawSubmission{
		Source: SourceCustom,
		Payload: []byte(`{
			"job_id": 4,
			"applicant_name": "Jane Doe",
			"applicant_email": "jane@example.com"
		}`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), app.JobID)
	assert.Equal(t, "submitted", app.Status)
	require.Len(t, creator.created, 1)
}

func TestProcess_UnknownSourceDiscards(t *testing.T) {
	creator := &stubCreator{}
	svc := newTestService(creator)

	_, err := svc.Process(context.Background(), RawSubmission{Source: "typeform"})

	var aerr *AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Empty(t, creator.created)
}

func TestProcess_MissingEmailDiscards(t *testing.T) {
	creator := &stubCreator{}
	svc := newTestService(creator)

	_, err := svc.Process(context.Background(), RawSubmission{
		Source:  SourceGravity,
		Payload: []byte(`{"fields": [{"id": "1", "label": "Name", "type": "name", "value": "Jane Doe"}]}`),
	})

	var aerr *AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Reason, "email")
	assert.Empty(t, creator.created)
}

func TestProcess_UnresolvableJobDiscards(t *testing.T) {
	creator := &stubCreator{}
	svc := newTestService(creator)

	_, err := svc.Process(context.Background(), RawSubmission{
		Source: SourceGravity,
		FormID: "99",
		Payload: []byte(`{"fields": [
			{"id": "1", "label": "Name", "type": "name", "value": "Jane Doe"},
			{"id": "2", "label": "Email", "type": "email", "value": "jane@example.com"}
		]}`),
	})

	var aerr *AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.ErrorIs(t, err, ErrNoJobContext)
	assert.Empty(t, creator.created)
}

func TestProcess_FormMappingResolvesJob(t *testing.T) {
	creator := &stubCreator{}
	svc := newTestService(creator)

	app, err := svc.Process(context.Background(), RawSubmission{
		Source: SourceGravity,
		FormID: "7",
		Payload: []byte(`{"fields": [
			{"id": "1", "label": "Name", "type": "name", "value": "Jane Doe"},
			{"id": "2", "label": "Email", "type": "email", "value": "jane@example.com"}
		]}`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), app.JobID)
}

func TestProcess_MissingJobDiscards(t *testing.T) {
	creator := &stubCreator{err: db.ErrJobNotFound}
	svc := newTestService(creator)

	_, err := svc.Process(context.Background(), RawSubmission{
		Source: SourceCustom,
		Payload: []byte(`{
			"job_id": 999,
			"applicant_name": "Jane Doe",
			"applicant_email": "jane@example.com"
		}`),
	})

	var aerr *AdapterError
	require.ErrorAs(t, err, &aerr)
	assert.ErrorIs(t, err, db.ErrJobNotFound)
}
