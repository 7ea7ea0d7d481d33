// Package schemas validates generic webhook payloads against the embedded
// JSON Schema before they reach the intake adapters.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed submission.schema.json
var submissionSchema string

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema violations for one payload.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("payload validation failed:")
	for _, e := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", e.Field, e.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateSubmission checks a generic webhook payload against the submission
// schema. Returns *ValidationError for schema violations and a plain error
// for undecodable documents.
func ValidateSubmission(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(submissionSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate payload: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
