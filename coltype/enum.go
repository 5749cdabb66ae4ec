package coltype

import (
	"fmt"
	"strings"
)

// DeclaredType is implemented by column types that require a named type
// declaration to exist in the database before any table can reference them.
// The schema synthesizer emits these declarations ahead of CREATE TABLE
// statements.
type DeclaredType interface {
	ColumnType
	// TypeName returns the name of the declared database type.
	TypeName() string
	// Declaration returns the idempotent statement creating the type.
	Declaration() string
}

// enumType is a constructed type whose domain is exactly its labels.
// Values are carried by label identity, never by position, so reordering
// labels in a later declaration does not remap stored values.
type enumType struct {
	name   string
	labels []string
	member map[string]bool
}

// Enum returns a named enumerated column type accepting exactly the given
// labels. Panics if the name is empty, no labels are given, or a label is
// duplicated.
func Enum(name string, labels ...string) ColumnType {
	if name == "" {
		panic("coltype: Enum requires a type name")
	}
	if len(labels) == 0 {
		panic(fmt.Sprintf("coltype: Enum %q requires at least one label", name))
	}
	member := make(map[string]bool, len(labels))
	for _, l := range labels {
		if member[l] {
			panic(fmt.Sprintf("coltype: Enum %q declares label %q twice", name, l))
		}
		member[l] = true
	}
	return &enumType{name: name, labels: append([]string(nil), labels...), member: member}
}

func (t *enumType) Fragment() string    { return quoteIdent(t.name) }
func (t *enumType) RawFragment() string { return quoteIdent(t.name) }

// TypeName returns the enum's declared type name.
func (t *enumType) TypeName() string { return t.name }

// Labels returns the enum's labels in declaration order.
func (t *enumType) Labels() []string { return append([]string(nil), t.labels...) }

// Declaration returns a DO-block statement that creates the enum type and
// ignores a duplicate_object error, so it is safe to run repeatedly.
func (t *enumType) Declaration() string {
	quoted := make([]string, len(t.labels))
	for i, l := range t.labels {
		quoted[i] = quoteLiteral(l)
	}
	return fmt.Sprintf(
		"DO $$ BEGIN CREATE TYPE %s AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN null; END $$;",
		quoteIdent(t.name), strings.Join(quoted, ", "))
}

func (t *enumType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &EncodeError{Type: t.name, Value: v, Cause: fmt.Errorf("expected label string, got %T", v)}
	}
	if !t.member[s] {
		return nil, &EncodeError{Type: t.name, Value: v,
			Cause: fmt.Errorf("label %q is not one of %s", s, strings.Join(t.labels, ", "))}
	}
	return s, nil
}

func (t *enumType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := decodeString(raw)
	if err != nil {
		return nil, &DecodeError{Type: t.name, Value: raw, Cause: fmt.Errorf("cannot decode %T as enum label", raw)}
	}
	label := s.(string)
	if !t.member[label] {
		return nil, &DecodeError{Type: t.name, Value: raw,
			Cause: fmt.Errorf("label %q is not one of %s", label, strings.Join(t.labels, ", "))}
	}
	return label, nil
}

// quoteIdent double-quotes an identifier for use in DDL, doubling any
// embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral single-quotes a string literal, doubling any embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
