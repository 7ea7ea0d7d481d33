package intake

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NinjaAdapter maps Ninja Forms payloads. Ninja fields carry both a machine
// key and a display label; type matching uses the declared type first and
// the key as a hint second.
type NinjaAdapter struct{}

type ninjaPayload struct {
	FormID json.Number  `json:"form_id"`
	Fields []ninjaField `json:"fields"`
}

type ninjaField struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Source identifies this adapter.
func (a *NinjaAdapter) Source() string { return SourceNinja }

// Extract maps a Ninja Forms payload onto the canonical submission.
func (a *NinjaAdapter) Extract(raw RawSubmission) (*Submission, error) {
	var p ninjaPayload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &AdapterError{Source: SourceNinja, Reason: "malformed payload", Err: err}
	}

	sub := &Submission{Source: SourceNinja}
	var untyped []string

	for _, f := range p.Fields {
		values := flattenValue(f.Value, f.Type)
		if len(values) == 0 {
			continue
		}

		if isJobIDKey(f.Key) || isJobIDKey(f.Label) {
			if id := parseJobID(values); id > 0 && sub.JobID == 0 {
				sub.JobID = id
			}
			continue
		}

		key := strings.ToLower(f.Key)
		switch {
		case f.Type == "email" || strings.HasPrefix(key, "email"):
			if sub.Email == "" {
				sub.Email = values[0]
			}
		case f.Type == "phone" || strings.HasPrefix(key, "phone"):
			if sub.Phone == "" {
				sub.Phone = values[0]
			}
		case f.Type == "name" || strings.HasPrefix(key, "name"):
			if sub.Name == "" {
				sub.Name = strings.Join(values, " ")
			}
		default:
			untyped = append(untyped, values...)
		}

		label := f.Label
		if label == "" {
			label = humanizeKey(f.Key)
		}
		if label == "" {
			label = fmt.Sprintf("Field %s", f.Key)
		}
		sub.Fields = sub.Fields.Add(label, values...)
	}

	applyHeuristics(sub, untyped)
	return sub, nil
}
