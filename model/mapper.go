package model

import (
	"fmt"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

// DecodeRow instantiates the model from one raw row: an ordered sequence of
// column values as returned by a database driver. It fails with *ArityError
// when the value count does not match the field count, and with
// *DecodeError, tagged with the offending field, when a value cannot be
// parsed into the field's Go representation.
func (m *ModelDescriptor) DecodeRow(row []any) (*Instance, error) {
	if len(row) != len(m.fields) {
		return nil, &ArityError{Table: m.table, Want: len(m.fields), Got: len(row)}
	}
	values := make([]any, len(row))
	for i := range m.fields {
		decoded, err := m.fields[i].ctype.Decode(row[i])
		if err != nil {
			return nil, &DecodeError{Table: m.table, Field: m.fields[i].name, Cause: err}
		}
		values[i] = decoded
	}
	return &Instance{model: m, values: values}, nil
}

// EncodeInstance produces the ordered database literals for inserting an
// instance. Server-generated (serial) columns are omitted, matching
// InsertColumns; the database fills them. A nil value in a NOT NULL or
// primary key field fails with *EncodeError, as does any value outside its
// field type's domain.
func (m *ModelDescriptor) EncodeInstance(inst *Instance) ([]any, error) {
	if inst.model != m {
		return nil, ErrModelMismatch
	}
	literals := make([]any, 0, len(m.fields))
	for i := range m.fields {
		if coltype.ServerGenerated(m.fields[i].ctype) {
			continue
		}
		lit, err := m.encodeField(i, inst.values[i])
		if err != nil {
			return nil, err
		}
		literals = append(literals, lit)
	}
	return literals, nil
}

// EncodeRow produces database literals for every field including
// server-generated ones. Updates use this form, since by then the generated
// value is known and must be carried.
func (m *ModelDescriptor) EncodeRow(inst *Instance) ([]any, error) {
	if inst.model != m {
		return nil, ErrModelMismatch
	}
	literals := make([]any, len(m.fields))
	for i := range m.fields {
		lit, err := m.encodeField(i, inst.values[i])
		if err != nil {
			return nil, err
		}
		literals[i] = lit
	}
	return literals, nil
}

func (m *ModelDescriptor) encodeField(i int, v any) (any, error) {
	f := &m.fields[i]
	if v == nil && (f.Has(KindNotNull) || f.Has(KindPrimaryKey)) && !coltype.ServerGenerated(f.ctype) {
		return nil, &EncodeError{Table: m.table, Field: f.name,
			Cause: fmt.Errorf("null value in non-nullable field")}
	}
	lit, err := f.ctype.Encode(v)
	if err != nil {
		return nil, &EncodeError{Table: m.table, Field: f.name, Cause: err}
	}
	return lit, nil
}
