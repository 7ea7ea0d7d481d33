package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessName_PrefersFullNames(t *testing.T) {
	got := GuessName([]string{"Berlin", "Jane", "Jane Doe"})
	assert.Equal(t, "Jane Doe", got)
}

func TestGuessName_SingleTokenFallback(t *testing.T) {
	got := GuessName([]string{"hello@example.com", "Madonna"})
	assert.Equal(t, "Madonna", got)
}

func TestGuessName_Denylist(t *testing.T) {
	assert.Empty(t, GuessName([]string{"Mr.", "Yes", "Germany", "Acme Inc"}))
}

func TestGuessName_RejectsEmailsAndNumbers(t *testing.T) {
	assert.Empty(t, GuessName([]string{"jane@example.com", "12345", ""}))
}

func TestGuessName_NoCandidates(t *testing.T) {
	assert.Empty(t, GuessName(nil))
}

func TestGuessEmail(t *testing.T) {
	got := GuessEmail([]string{"Jane Doe", "not-an-email", " jane@example.com "})
	assert.Equal(t, "jane@example.com", got)
}

func TestGuessEmail_NoMatch(t *testing.T) {
	assert.Empty(t, GuessEmail([]string{"Jane Doe", "Berlin"}))
}

func TestGuessPhone(t *testing.T) {
	got := GuessPhone([]string{"Jane Doe", "+49 (30) 123-4567"})
	assert.Equal(t, "+49 (30) 123-4567", got)
}

func TestGuessPhone_TooFewDigits(t *testing.T) {
	assert.Empty(t, GuessPhone([]string{"12345", "1-2-3"}))
}

func TestLooksLikeEmail(t *testing.T) {
	assert.True(t, LooksLikeEmail("jane@example.com"))
	assert.False(t, LooksLikeEmail("jane@"))
	assert.False(t, LooksLikeEmail(""))
}
