package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenValue_Scalars(t *testing.T) {
	assert.Equal(t, []string{"hello"}, flattenValue(json.RawMessage(`"hello"`), ""))
	assert.Equal(t, []string{"42"}, flattenValue(json.RawMessage(`42`), ""))
	assert.Equal(t, []string{"3.5"}, flattenValue(json.RawMessage(`3.5`), ""))
	assert.Equal(t, []string{"Yes"}, flattenValue(json.RawMessage(`true`), ""))
	assert.Equal(t, []string{"No"}, flattenValue(json.RawMessage(`false`), ""))
}

func TestFlattenValue_EmptyAndNull(t *testing.T) {
	assert.Nil(t, flattenValue(json.RawMessage(`""`), ""))
	assert.Nil(t, flattenValue(json.RawMessage(`null`), ""))
	assert.Nil(t, flattenValue(json.RawMessage(`not json`), ""))
}

func TestFlattenValue_Array(t *testing.T) {
	got := flattenValue(json.RawMessage(`["Go", "SQL", 3]`), "")
	assert.Equal(t, []string{"Go", "SQL", "3"}, got)
}

func TestFlattenValue_CompositeName(t *testing.T) {
	raw := json.RawMessage(`{"last": "Doe", "first": "Jane", "prefix": "Dr"}`)
	got := flattenValue(raw, "name")
	assert.Equal(t, []string{"Dr Jane Doe"}, got)
}

func TestFlattenValue_CompositeAddress(t *testing.T) {
	raw := json.RawMessage(`{"city": "Berlin", "street": "Main St 1", "country": "Germany"}`)
	got := flattenValue(raw, "address")
	assert.Equal(t, []string{"Main St 1, Berlin, Germany"}, got)
}

func TestJoinComposite_UnknownKeysStable(t *testing.T) {
	parts := map[string]any{"zeta": "z", "alpha": "a"}
	assert.Equal(t, "a, z", joinComposite(parts, ""))
}

func TestIsJobIDKey(t *testing.T) {
	for _, key := range []string{"job_id", "Job ID", "jobid", "JOB-ID", "_job_id_"} {
		assert.True(t, isJobIDKey(key), key)
	}
	for _, key := range []string{"job", "id", "job_title"} {
		assert.False(t, isJobIDKey(key), key)
	}
}

func TestParseJobID(t *testing.T) {
	assert.Equal(t, int64(42), parseJobID([]string{"oops", " 42 "}))
	assert.Zero(t, parseJobID([]string{"-3", "zero"}))
	assert.Zero(t, parseJobID(nil))
}

func TestHumanizeKey(t *testing.T) {
	assert.Equal(t, "Name", humanizeKey("your-name"))
	assert.Equal(t, "Cover Letter", humanizeKey("cover_letter"))
	assert.Equal(t, "Portfolio Url", humanizeKey("portfolio-url"))
}

func TestOrderedMap_PreservesKeyOrder(t *testing.T) {
	data := []byte(`{"zeta": "1", "alpha": "2", "mid": ["a", "b"]}`)
	var m orderedMap
	require.NoError(t, json.Unmarshal(data, &m))

	require.Len(t, m, 3)
	assert.Equal(t, "zeta", m[0].Key)
	assert.Equal(t, "alpha", m[1].Key)
	assert.Equal(t, "mid", m[2].Key)
}

func TestOrderedMap_RejectsNonObject(t *testing.T) {
	var m orderedMap
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &m))
}
