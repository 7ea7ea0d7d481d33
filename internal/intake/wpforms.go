package intake

import (
	"encoding/json"
	"fmt"
)

// WPFormsAdapter maps WPForms webhook payloads. WPForms exposes typed
// fields keyed by numeric id; the payload carries them as an array ordered
// by form position.
type WPFormsAdapter struct{}

type wpformsPayload struct {
	FormID json.Number    `json:"form_id"`
	Fields []wpformsField `json:"fields"`
}

type wpformsField struct {
	ID    json.Number     `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Source identifies this adapter.
func (a *WPFormsAdapter) Source() string { return SourceWPForms }

// Extract maps a WPForms payload onto the canonical submission.
func (a *WPFormsAdapter) Extract(raw RawSubmission) (*Submission, error) {
	var p wpformsPayload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &AdapterError{Source: SourceWPForms, Reason: "malformed payload", Err: err}
	}

	sub := &Submission{Source: SourceWPForms}
	var untyped []string

	for _, f := range p.Fields {
		values := flattenValue(f.Value, f.Type)
		if len(values) == 0 {
			continue
		}

		if isJobIDKey(f.Name) {
			if id := parseJobID(values); id > 0 && sub.JobID == 0 {
				sub.JobID = id
			}
			continue
		}

		switch f.Type {
		case "name":
			if sub.Name == "" {
				sub.Name = values[0]
			}
		case "email":
			if sub.Email == "" {
				sub.Email = values[0]
			}
		case "phone":
			if sub.Phone == "" {
				sub.Phone = values[0]
			}
		default:
			untyped = append(untyped, values...)
		}

		label := f.Name
		if label == "" {
			label = fmt.Sprintf("Field %s", f.ID)
		}
		sub.Fields = sub.Fields.Add(label, values...)
	}

	applyHeuristics(sub, untyped)
	return sub, nil
}
