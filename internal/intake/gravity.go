package intake

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GravityAdapter maps Gravity Forms webhook payloads. Gravity exposes typed
// fields, so name/email/phone are matched by declared type before any
// heuristics run.
type GravityAdapter struct{}

type gravityPayload struct {
	FormID json.Number    `json:"form_id"`
	Fields []gravityField `json:"fields"`
}

type gravityField struct {
	ID    json.Number     `json:"id"`
	Label string          `json:"label"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Source identifies this adapter.
func (a *GravityAdapter) Source() string { return SourceGravity }

// Extract maps a Gravity Forms payload onto the canonical submission.
func (a *GravityAdapter) Extract(raw RawSubmission) (*Submission, error) {
	var p gravityPayload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &AdapterError{Source: SourceGravity, Reason: "malformed payload", Err: err}
	}

	sub := &Submission{Source: SourceGravity}
	var untyped []string

	for _, f := range p.Fields {
		values := flattenValue(f.Value, f.Type)
		if len(values) == 0 {
			continue
		}

		if isJobIDKey(f.Label) {
			if id := parseJobID(values); id > 0 && sub.JobID == 0 {
				sub.JobID = id
			}
			continue
		}

		switch f.Type {
		case "name":
			if sub.Name == "" {
				sub.Name = strings.Join(values, " ")
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

		label := f.Label
		if label == "" {
			label = fmt.Sprintf("Field %s", f.ID)
		}
		sub.Fields = sub.Fields.Add(label, values...)
	}

	applyHeuristics(sub, untyped)
	return sub, nil
}

// applyHeuristics fills canonical fields a typed pass left empty by scanning
// the remaining values.
func applyHeuristics(sub *Submission, values []string) {
	if sub.Email == "" {
		sub.Email = GuessEmail(values)
	}
	if sub.Name == "" {
		sub.Name = GuessName(values)
	}
	if sub.Phone == "" {
		sub.Phone = GuessPhone(values)
	}
}
