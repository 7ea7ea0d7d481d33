package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedEntry is one key/value pair from a JSON object.
type orderedEntry struct {
	Key   string
	Value json.RawMessage
}

// orderedMap decodes a JSON object preserving key order. Field order carries
// meaning here: the canonical mapping and the export columns both follow the
// order the form presented its fields in.
type orderedMap []orderedEntry

// UnmarshalJSON decodes the object with a token stream instead of a Go map.
func (m *orderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out orderedMap
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, orderedEntry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = out
	return nil
}
