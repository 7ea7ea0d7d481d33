package db

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field is one submitted form field: a label and one or more values.
// Multi-select inputs carry several values; everything else carries one.
type Field struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Display joins the field's values for single-cell rendering.
func (f Field) Display() string {
	return strings.Join(f.Values, ", ")
}

// Fields is the ordered label/value mapping captured from a form submission.
// Order is preserved exactly as submitted, which is why this is a slice and
// not a map: the export engine derives CSV columns in first-seen order.
type Fields []Field

// Get returns the first field with the given label.
func (fs Fields) Get(label string) (Field, bool) {
	for _, f := range fs {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// Labels returns the field labels in submission order.
func (fs Fields) Labels() []string {
	labels := make([]string, 0, len(fs))
	for _, f := range fs {
		labels = append(labels, f.Label)
	}
	return labels
}

// Add appends a field, merging values into an existing field with the same label.
func (fs Fields) Add(label string, values ...string) Fields {
	for i, f := range fs {
		if f.Label == label {
			fs[i].Values = append(fs[i].Values, values...)
			return fs
		}
	}
	return append(fs, Field{Label: label, Values: values})
}

// Marshal serializes the fields for the application_data column.
func (fs Fields) Marshal() ([]byte, error) {
	if fs == nil {
		return json.Marshal(Fields{})
	}
	return json.Marshal(fs)
}

// UnmarshalFields parses an application_data column value.
func UnmarshalFields(data []byte) (Fields, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var fs Fields
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// Application is a stored applicant submission for one job.
type Application struct {
	ID        int64      `json:"id"`
	JobID     int64      `json:"job_id"`
	JobTitle  string     `json:"job_title,omitempty"`
	UserID    *int64     `json:"user_id,omitempty"`
	Name      string     `json:"applicant_name"`
	Email     string     `json:"applicant_email"`
	Phone     string     `json:"applicant_phone,omitempty"`
	Status    string     `json:"status"`
	Source    string     `json:"source_form_type"`
	Fields    Fields     `json:"application_data"`
	SaveToken *uuid.UUID `json:"save_token,omitempty"`
	CreatedAt time.Time  `json:"created_date"`
	UpdatedAt time.Time  `json:"updated_date"`
}

// Job statuses. Closed and expired jobs stop accepting submissions but keep
// their applications until an admin deletes them explicitly.
const (
	JobStatusOpen    = "open"
	JobStatusClosed  = "closed"
	JobStatusExpired = "expired"
)

// Job is a vacancy applications are filed against.
type Job struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Company   string     `json:"company,omitempty"`
	Location  string     `json:"location,omitempty"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EmailTemplate holds the subject and body sent when an application reaches
// the status (or event) the key names. Bodies use {placeholder} variables.
type EmailTemplate struct {
	Key       string    `json:"key"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormMapping binds a third-party form (by source system and native form id)
// to a job, so submissions from that form need no explicit job field.
type FormMapping struct {
	Source    string    `json:"source"`
	FormID    string    `json:"form_id"`
	JobID     int64     `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}
