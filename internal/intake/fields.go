package intake

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Composite sub-field key orders. When a field value arrives as an object
// (a composite name or address), its parts are joined in a stable,
// human-sensible order rather than map order.
var (
	nameKeyOrder    = []string{"prefix", "first", "middle", "last", "suffix"}
	addressKeyOrder = []string{"street", "street2", "address", "address2", "line1", "line2", "city", "state", "zip", "postal_code", "country"}
)

// flattenValue turns a raw JSON field value into a flat list of scalars.
// Strings pass through, arrays flatten element-wise, and objects join their
// sub-components into a single display string.
func flattenValue(raw json.RawMessage, fieldType string) []string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return flattenAny(v, fieldType)
}

func flattenAny(v any, fieldType string) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case float64:
		if t == float64(int64(t)) {
			return []string{fmt.Sprintf("%d", int64(t))}
		}
		return []string{fmt.Sprintf("%g", t)}
	case bool:
		if t {
			return []string{"Yes"}
		}
		return []string{"No"}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flattenAny(item, fieldType)...)
		}
		return out
	case map[string]any:
		joined := joinComposite(t, fieldType)
		if joined == "" {
			return nil
		}
		return []string{joined}
	default:
		return []string{fmt.Sprintf("%v", t)}
	}
}

// joinComposite flattens a sub-field object into one display string: name
// parts join with spaces, everything else with comma-space.
func joinComposite(parts map[string]any, fieldType string) string {
	sep := ", "
	order := addressKeyOrder
	if fieldType == "name" {
		sep = " "
		order = nameKeyOrder
	}

	var values []string
	used := map[string]bool{}
	for _, key := range order {
		if v, ok := parts[key]; ok {
			used[key] = true
			values = append(values, flattenAny(v, "")...)
		}
	}
	// Unrecognized keys follow in sorted order so output stays stable.
	var rest []string
	for key := range parts {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		values = append(values, flattenAny(parts[key], "")...)
	}

	var nonEmpty []string
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// isJobIDKey reports whether a field label or key names the hidden job
// binding field.
func isJobIDKey(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s == "job_id" || s == "jobid"
}

// parseJobID parses an explicit job id value from a form field.
func parseJobID(values []string) int64 {
	for _, v := range values {
		var id int64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &id); err == nil && id > 0 {
			return id
		}
	}
	return 0
}

// humanizeKey turns a machine field key like "your-name" or "cover_letter"
// into a display label.
func humanizeKey(key string) string {
	key = strings.TrimPrefix(key, "your-")
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	words := strings.Fields(key)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
