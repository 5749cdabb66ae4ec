package coltype

import (
	"encoding/json"
	"fmt"
)

// jsonType stores arbitrary structured values as a JSON document.
// The canonical Go representation is whatever encoding/json produces on
// Unmarshal: map[string]any, []any, string, float64, bool, or nil.
type jsonType struct {
	fragment string
}

var (
	// JSON is a textual JSON document column.
	JSON ColumnType = &jsonType{fragment: "JSON"}
	// JSONB is a binary JSON document column. Mapping behavior is identical
	// to JSON; the difference is storage-side only.
	JSONB ColumnType = &jsonType{fragment: "JSONB"}
)

func (t *jsonType) Fragment() string    { return t.fragment }
func (t *jsonType) RawFragment() string { return t.fragment }

func (t *jsonType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Type: t.fragment, Value: v, Cause: fmt.Errorf("not JSON-serializable: %w", err)}
	}
	return string(data), nil
}

func (t *jsonType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, &DecodeError{Type: t.fragment, Value: raw, Cause: fmt.Errorf("cannot decode %T as JSON", raw)}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &DecodeError{Type: t.fragment, Value: raw, Cause: fmt.Errorf("malformed JSON: %w", err)}
	}
	return out, nil
}
