package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanValue(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jane Doe", "Jane Doe"},
		{"markup stripped", "<p>Five years of <b>Go</b> experience</p>", "Five years of Go experience"},
		{"entities decoded", "Research &amp; Development", "Research & Development"},
		{"line breaks collapse", "line one\nline two\r\nline three", "line one; line two; line three"},
		{"whitespace collapses", "too   many\tspaces", "too many spaces"},
		{"trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
		{"markup with breaks", "<p>first</p>\n<p>second</p>", "first; second"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanValue(tc.in))
		})
	}
}
