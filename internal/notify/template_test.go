package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

var testSite = SiteInfo{
	URL:         "https://careers.example.com",
	CompanyName: "Example Co",
	AdminEmail:  "admin@example.com",
	SenderName:  "Example Hiring",
}

func TestRender_SubstitutesKnownPlaceholders(t *testing.T) {
	app := &db.Application{
		ID:       7,
		JobID:    42,
		JobTitle: "Backend Engineer",
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Status:   "shortlisted",
	}
	vars := BuildVars(app, nil, testSite)

	out := Render("Hi {applicant_name}, your application for {job_title} at {company_name} is {status}.", vars)
	assert.Equal(t, "Hi Jane Doe, your application for Backend Engineer at Example Co is shortlisted.", out)
}

func TestRender_UnknownPlaceholderIsLeftLiteral(t *testing.T) {
	vars := Vars{"applicant_name": "Jane"}

	out := Render("Hello {applicant_name}, ref {ticket_number}.", vars)
	assert.Equal(t, "Hello Jane, ref {ticket_number}.", out)
}

func TestRender_NoPlaceholders(t *testing.T) {
	assert.Equal(t, "plain text", Render("plain text", Vars{}))
}

func TestBuildVars_JobOverridesRowTitle(t *testing.T) {
	app := &db.Application{JobID: 42, JobTitle: "Old Title"}
	job := &db.Job{ID: 42, Title: "New Title"}

	vars := BuildVars(app, job, testSite)
	assert.Equal(t, "New Title", vars["job_title"])
}

func TestBuildVars_JobURL(t *testing.T) {
	app := &db.Application{JobID: 42}
	vars := BuildVars(app, nil, testSite)
	assert.Equal(t, "https://careers.example.com/jobs/42", vars["job_url"])
}

func TestSampleApplication_Deterministic(t *testing.T) {
	a := SampleApplication()
	b := SampleApplication()
	assert.Equal(t, a, b)
	assert.Equal(t, "Alex Sample", a.Name)
}
