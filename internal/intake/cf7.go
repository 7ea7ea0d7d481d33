package intake

import (
	"encoding/json"
	"strings"
)

// CF7Adapter maps Contact Form 7 payloads. CF7 posts an untyped key/value
// bag, so canonical fields are guessed first from key naming conventions
// ("your-name", "your-email", "tel-…") and then from value heuristics.
type CF7Adapter struct{}

type cf7Payload struct {
	FormID     json.Number `json:"form_id"`
	PostedData orderedMap  `json:"posted_data"`
}

// Source identifies this adapter.
func (a *CF7Adapter) Source() string { return SourceCF7 }

// Extract maps a CF7 payload onto the canonical submission.
func (a *CF7Adapter) Extract(raw RawSubmission) (*Submission, error) {
	var p cf7Payload
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		return nil, &AdapterError{Source: SourceCF7, Reason: "malformed payload", Err: err}
	}

	sub := &Submission{Source: SourceCF7}
	var all []string

	for _, entry := range p.PostedData {
		values := flattenValue(entry.Value, "")
		if len(values) == 0 {
			continue
		}

		key := strings.ToLower(entry.Key)
		if isJobIDKey(key) {
			if id := parseJobID(values); id > 0 && sub.JobID == 0 {
				sub.JobID = id
			}
			continue
		}

		switch {
		case strings.Contains(key, "email"):
			if sub.Email == "" && LooksLikeEmail(values[0]) {
				sub.Email = values[0]
			}
		case strings.Contains(key, "tel") || strings.Contains(key, "phone"):
			if sub.Phone == "" {
				sub.Phone = values[0]
			}
		case strings.Contains(key, "name") && !strings.Contains(key, "company"):
			if sub.Name == "" && GuessName(values) != "" {
				sub.Name = GuessName(values)
			}
		}

		all = append(all, values...)
		sub.Fields = sub.Fields.Add(humanizeKey(entry.Key), values...)
	}

	applyHeuristics(sub, all)
	return sub, nil
}
