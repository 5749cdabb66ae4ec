// Package model holds the resolved, immutable schema representation of
// declared record types: field descriptors, model descriptors, the registry
// they live in, and the row mapper that moves values in and out of them.
package model

import (
	"fmt"
	"regexp"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

// columnName is the set of accepted table and field names.
var columnName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,58}$`)

// FieldDef declares one field of a shape: a name, a column type, and any
// constraints. FieldDefs are plain data; Build turns them into descriptors.
type FieldDef struct {
	Name        string
	Type        coltype.ColumnType
	Constraints []Constraint
}

// Shape is the phase-one declaration of a model: ordinary data describing a
// table name and its fields. Build is the phase-two step that validates a
// Shape and produces an immutable ModelDescriptor.
type Shape struct {
	Table  string
	Fields []FieldDef
}

// FieldDescriptor is one resolved field of a model. It is immutable once its
// model is built.
type FieldDescriptor struct {
	name        string
	ctype       coltype.ColumnType
	constraints []Constraint
}

// Name returns the column name.
func (f *FieldDescriptor) Name() string { return f.name }

// Type returns the field's column type.
func (f *FieldDescriptor) Type() coltype.ColumnType { return f.ctype }

// Constraints returns the field's constraints in declaration order.
func (f *FieldDescriptor) Constraints() []Constraint {
	return append([]Constraint(nil), f.constraints...)
}

// Has reports whether the field carries a constraint of the given kind.
func (f *FieldDescriptor) Has(kind ConstraintKind) bool {
	for _, c := range f.constraints {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// ForeignKey returns the field's foreign key constraint, if any.
func (f *FieldDescriptor) ForeignKey() (Constraint, bool) {
	for _, c := range f.constraints {
		if c.Kind == KindForeignKey {
			return c, true
		}
	}
	return Constraint{}, false
}

// ModelDescriptor is the resolved schema of one declared model: a table
// name and an ordered field list. Descriptors are created once by Build and
// never mutated afterward.
type ModelDescriptor struct {
	table  string
	fields []FieldDescriptor
	pk     int // index into fields, -1 when absent
}

// Table returns the model's table name.
func (m *ModelDescriptor) Table() string { return m.table }

// Fields returns the model's fields in declaration order.
func (m *ModelDescriptor) Fields() []FieldDescriptor {
	return append([]FieldDescriptor(nil), m.fields...)
}

// NumFields returns the number of declared fields.
func (m *ModelDescriptor) NumFields() int { return len(m.fields) }

// Field returns the descriptor of the named field.
func (m *ModelDescriptor) Field(name string) (*FieldDescriptor, bool) {
	for i := range m.fields {
		if m.fields[i].name == name {
			return &m.fields[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the model's primary key field, if one was declared.
func (m *ModelDescriptor) PrimaryKey() (*FieldDescriptor, bool) {
	if m.pk < 0 {
		return nil, false
	}
	return &m.fields[m.pk], true
}

// Columns returns all column names in declaration order.
func (m *ModelDescriptor) Columns() []string {
	cols := make([]string, len(m.fields))
	for i := range m.fields {
		cols[i] = m.fields[i].name
	}
	return cols
}

// InsertColumns returns the column names that participate in inserts,
// excluding server-generated columns.
func (m *ModelDescriptor) InsertColumns() []string {
	cols := make([]string, 0, len(m.fields))
	for i := range m.fields {
		if coltype.ServerGenerated(m.fields[i].ctype) {
			continue
		}
		cols = append(cols, m.fields[i].name)
	}
	return cols
}

// Dependencies returns the table names this model references through foreign
// keys, in field order and without duplicates. A self-reference is included.
func (m *ModelDescriptor) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for i := range m.fields {
		fk, ok := m.fields[i].ForeignKey()
		if !ok || seen[fk.RefTable] {
			continue
		}
		seen[fk.RefTable] = true
		deps = append(deps, fk.RefTable)
	}
	return deps
}

// String returns a short description of the model.
func (m *ModelDescriptor) String() string {
	return fmt.Sprintf("model %s (%d fields)", m.table, len(m.fields))
}

// Build validates a Shape and produces its immutable ModelDescriptor. It is
// a pure function: nothing is registered. Build fails with a
// *DeclarationError for a bad field, type, or constraint combination,
// including a second primary key, since only single-column keys are
// supported.
func Build(shape Shape) (*ModelDescriptor, error) {
	if !columnName.MatchString(shape.Table) {
		return nil, &DeclarationError{Table: shape.Table, Message: "invalid table name"}
	}
	if len(shape.Fields) == 0 {
		return nil, &DeclarationError{Table: shape.Table, Message: "model declares no fields"}
	}

	m := &ModelDescriptor{
		table:  shape.Table,
		fields: make([]FieldDescriptor, 0, len(shape.Fields)),
		pk:     -1,
	}

	names := make(map[string]bool, len(shape.Fields))
	for i, def := range shape.Fields {
		if !columnName.MatchString(def.Name) {
			return nil, &DeclarationError{Table: shape.Table,
				Message: fmt.Sprintf("invalid field name %q", def.Name)}
		}
		if names[def.Name] {
			return nil, &DeclarationError{Table: shape.Table,
				Message: fmt.Sprintf("field %q declared twice", def.Name)}
		}
		names[def.Name] = true

		if def.Type == nil {
			return nil, &DeclarationError{Table: shape.Table,
				Message: fmt.Sprintf("field %q has no column type", def.Name)}
		}

		kinds := make(map[ConstraintKind]bool, len(def.Constraints))
		for _, c := range def.Constraints {
			if kinds[c.Kind] {
				return nil, &DeclarationError{Table: shape.Table,
					Message: fmt.Sprintf("field %q repeats constraint %s", def.Name, c.Kind)}
			}
			kinds[c.Kind] = true

			switch c.Kind {
			case KindPrimaryKey:
				if m.pk >= 0 {
					return nil, &DeclarationError{Table: shape.Table,
						Message: fmt.Sprintf("fields %q and %q both declare PRIMARY KEY; composite keys are not supported",
							m.fields[m.pk].name, def.Name)}
				}
				m.pk = i
			case KindForeignKey:
				if !columnName.MatchString(c.RefTable) {
					return nil, &DeclarationError{Table: shape.Table,
						Message: fmt.Sprintf("field %q references invalid table %q", def.Name, c.RefTable)}
				}
				if c.RefField != "" && !columnName.MatchString(c.RefField) {
					return nil, &DeclarationError{Table: shape.Table,
						Message: fmt.Sprintf("field %q references invalid column %q", def.Name, c.RefField)}
				}
			}
		}

		m.fields = append(m.fields, FieldDescriptor{
			name:        def.Name,
			ctype:       def.Type,
			constraints: append([]Constraint(nil), def.Constraints...),
		})
	}

	return m, nil
}

// MustBuild is a helper that calls Build and panics on error. It is intended
// for package-level model declarations.
func MustBuild(shape Shape) *ModelDescriptor {
	m, err := Build(shape)
	if err != nil {
		panic(err)
	}
	return m
}
