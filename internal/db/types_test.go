package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_AddMergesSameLabel(t *testing.T) {
	fs := Fields{}.Add("Skills", "Go").Add("City", "Berlin").Add("Skills", "SQL")

	assert.Equal(t, []string{"Skills", "City"}, fs.Labels())

	skills, ok := fs.Get("Skills")
	require.True(t, ok)
	assert.Equal(t, []string{"Go", "SQL"}, skills.Values)
}

func TestFields_GetMissing(t *testing.T) {
	_, ok := Fields{}.Get("Skills")
	assert.False(t, ok)
}

func TestFields_MarshalRoundTrip(t *testing.T) {
	fs := Fields{}.Add("Cover Letter", "Hello").Add("Skills", "Go", "SQL")

	data, err := fs.Marshal()
	require.NoError(t, err)

	parsed, err := UnmarshalFields(data)
	require.NoError(t, err)
	assert.Equal(t, fs, parsed)
}

func TestFields_MarshalNilIsEmptyArray(t *testing.T) {
	var fs Fields

	data, err := fs.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUnmarshalFields_Empty(t *testing.T) {
	fs, err := UnmarshalFields(nil)
	require.NoError(t, err)
	assert.Nil(t, fs)
}

func TestField_Display(t *testing.T) {
	f := Field{Label: "Skills", Values: []string{"Go", "SQL"}}
	assert.Equal(t, "Go, SQL", f.Display())
}
