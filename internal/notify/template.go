// Package notify renders templated emails for application events and sends
// them over the configured mail transport.
package notify

import (
	"fmt"
	"regexp"
	"time"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

// Vars holds the placeholder values resolved for one send.
type Vars map[string]string

// BuildVars resolves the template variables for an application. The job may
// be nil (the job title then falls back to what the application row carries).
func BuildVars(app *db.Application, job *db.Job, site SiteInfo) Vars {
	vars := Vars{
		"applicant_name":  app.Name,
		"applicant_email": app.Email,
		"job_title":       app.JobTitle,
		"job_url":         fmt.Sprintf("%s/jobs/%d", site.URL, app.JobID),
		"company_name":    site.CompanyName,
		"site_url":        site.URL,
		"date":            time.Now().Format("January 2, 2006"),
		"status":          app.Status,
		"admin_email":     site.AdminEmail,
		"application_id":  fmt.Sprintf("%d", app.ID),
		"sender_name":     site.SenderName,
	}
	if job != nil && job.Title != "" {
		vars["job_title"] = job.Title
	}
	return vars
}

// Render substitutes {placeholder} variables in text. Placeholders with no
// known value are left as literal text so a typo in a template is visible in
// the delivered mail instead of silently vanishing.
func Render(text string, vars Vars) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}

// SiteInfo carries the deployment-level values templates can reference.
type SiteInfo struct {
	URL         string
	CompanyName string
	AdminEmail  string
	SenderName  string
}

// SampleApplication returns the deterministic synthetic record used by
// template preview and test sends, so rendering can be checked without any
// real applicant data.
func SampleApplication() *db.Application {
	created := time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
	return &db.Application{
		ID:       101,
		JobID:    42,
		JobTitle: "Staff Software Engineer",
		Name:     "Alex Sample",
		Email:    "alex.sample@example.com",
		Phone:    "+1 555 0100",
		Status:   "submitted",
		Source:   "custom",
		Fields: db.Fields{
			{Label: "Cover Letter", Values: []string{"I would love to join."}},
			{Label: "Availability", Values: []string{"Two weeks notice"}},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
