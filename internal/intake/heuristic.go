package intake

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Heuristic extraction is the shared last resort for untyped payloads. It is
// best effort: for malformed inputs the outcome is not deterministic beyond
// the filters below, and callers must treat an empty result as "not found",
// never guess further.

var (
	heuristicValidate = validator.New()

	// nameRe accepts letters, spaces, apostrophes, dots and hyphens,
	// 2-50 characters.
	nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z\s'.-]{1,49}$`)

	phoneRe = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
)

// nameDenylist filters values that match the name shape but are clearly not
// applicant names: salutations, yes/no answers, country names, and
// company-suffix tokens.
var nameDenylist = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true, "prof": true,
	"yes": true, "no": true, "none": true, "n/a": true, "na": true,
	"usa": true, "uk": true, "united states": true, "united kingdom": true,
	"canada": true, "australia": true, "india": true, "germany": true,
	"france": true, "spain": true, "italy": true, "netherlands": true,
	"brazil": true, "mexico": true, "china": true, "japan": true,
}

var companySuffixes = []string{"inc", "llc", "ltd", "corp", "gmbh", "plc", "co"}

func deniedName(v string) bool {
	lower := strings.ToLower(strings.TrimSpace(strings.TrimRight(v, ".")))
	if nameDenylist[lower] {
		return true
	}
	for _, token := range strings.Fields(lower) {
		token = strings.TrimRight(token, ".,")
		if nameDenylist[token] {
			return true
		}
		for _, suffix := range companySuffixes {
			if token == suffix {
				return true
			}
		}
	}
	return false
}

// GuessName scans field values for something that looks like a person's
// name. Values containing a space ("first last") win over single tokens.
func GuessName(values []string) string {
	single := ""
	for _, v := range values {
		v = strings.TrimSpace(v)
		if len(v) < 2 || len(v) > 50 || !nameRe.MatchString(v) {
			continue
		}
		if LooksLikeEmail(v) || deniedName(v) {
			continue
		}
		if strings.Contains(v, " ") {
			return v
		}
		if single == "" {
			single = v
		}
	}
	return single
}

// GuessEmail returns the first value that independently validates as a
// well-formed email address, regardless of which field carried it.
func GuessEmail(values []string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if LooksLikeEmail(v) {
			return v
		}
	}
	return ""
}

// GuessPhone returns the first value that looks like a phone number.
func GuessPhone(values []string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !phoneRe.MatchString(v) {
			continue
		}
		digits := 0
		for _, r := range v {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 {
			return v
		}
	}
	return ""
}

// LooksLikeEmail reports whether v is a well-formed email address.
func LooksLikeEmail(v string) bool {
	if v == "" {
		return false
	}
	return heuristicValidate.Var(v, "email") == nil
}
