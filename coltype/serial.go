package coltype

// serialType is the auto-increment pseudo type: it renders SERIAL in DDL but
// stores and references as INTEGER, and its values are normally generated by
// the server.
//
// Encode is pass-through for explicit integers. It is the row mapper's
// insert path that omits serial columns; the full-row encoding used by
// updates still needs to carry the generated value, so the type itself does
// not reject explicit values.
type serialType struct {
	inner ColumnType
}

// Serial is an auto-incrementing integer column, intended for
// server-generated surrogate keys.
var Serial ColumnType = &serialType{inner: Integer}

func (t *serialType) Fragment() string    { return "SERIAL" }
func (t *serialType) RawFragment() string { return "INTEGER" }

func (t *serialType) Encode(v any) (any, error) {
	out, err := t.inner.Encode(v)
	if err != nil {
		if ee, ok := err.(*EncodeError); ok {
			ee.Type = t.Fragment()
		}
		return nil, err
	}
	return out, nil
}

func (t *serialType) Decode(raw any) (any, error) {
	out, err := t.inner.Decode(raw)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Type = t.Fragment()
		}
		return nil, err
	}
	return out, nil
}

// ServerGenerated reports whether values for this column type are produced
// by the database rather than supplied on insert.
func ServerGenerated(t ColumnType) bool {
	_, ok := t.(*serialType)
	return ok
}
