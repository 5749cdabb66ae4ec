package coltype

import (
	"fmt"

	"github.com/google/uuid"
)

// uuidType stores universally unique identifiers. Canonical Go type:
// uuid.UUID.
type uuidType struct{}

// UUID is a universally unique identifier column.
var UUID ColumnType = &uuidType{}

func (t *uuidType) Fragment() string    { return "UUID" }
func (t *uuidType) RawFragment() string { return "UUID" }

func (t *uuidType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, &EncodeError{Type: "UUID", Value: v, Cause: err}
		}
		return parsed.String(), nil
	}
	return nil, &EncodeError{Type: "UUID", Value: v, Cause: fmt.Errorf("expected uuid.UUID or string, got %T", v)}
}

func (t *uuidType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch id := raw.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, &DecodeError{Type: "UUID", Value: raw, Cause: err}
		}
		return parsed, nil
	case []byte:
		return t.Decode(string(id))
	}
	return nil, &DecodeError{Type: "UUID", Value: raw, Cause: fmt.Errorf("cannot decode %T as UUID", raw)}
}
