package intake

import (
	"encoding/json"

	"github.com/hiringdesk/applicant-tracker/internal/schemas"
)

// GenericAdapter maps the generic webhook shape: an explicit, schema-checked
// payload for integrations that do not go through one of the named form
// systems. No heuristics run here; the caller states the canonical fields
// directly.
type GenericAdapter struct{}

type genericPayload struct {
	JobID           int64       `json:"job_id"`
	ApplicantName   string      `json:"applicant_name"`
	ApplicantEmail  string      `json:"applicant_email"`
	Phone           string      `json:"phone"`
	FormType        string      `json:"form_type"`
	ApplicationData orderedMap  `json:"application_data"`
	FormID          json.Number `json:"form_id"`
}

// Source identifies this adapter.
func (a *GenericAdapter) Source() string { return SourceCustom }

// Extract validates the payload against the submission schema and maps it
// directly onto the canonical shape.
func (a *GenericAdapter) Extract(raw RawSubmission) (*Submission, error) {
	if err := schemas.ValidateSubmission(raw.Payload); err != nil {
		return nil, &AdapterError{Source: SourceCustom, Reason: "payload failed schema validation", Err: err}
	}

	var p genericPayload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &AdapterError{Source: SourceCustom, Reason: "malformed payload", Err: err}
	}

	sub := &Submission{
		JobID:  p.JobID,
		Name:   p.ApplicantName,
		Email:  p.ApplicantEmail,
		Phone:  p.Phone,
		Source: SourceCustom,
	}
	for _, entry := range p.ApplicationData {
		values := flattenValue(entry.Value, "")
		if len(values) == 0 {
			continue
		}
		sub.Fields = sub.Fields.Add(entry.Key, values...)
	}
	return sub, nil
}
