package model

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

// fieldTag is the structured representation of a parsed `db` struct tag.
type fieldTag struct {
	// Name is the column name. Empty means derive from the field name.
	Name string
	// Table overrides the shape's table name.
	Table string
	// TypeFragment overrides the inferred column type, e.g. "VARCHAR(50)".
	TypeFragment string
	// Serial marks the column as server-generated.
	Serial bool
	// PrimaryKey, Unique, and NotNull attach the corresponding constraints.
	PrimaryKey bool
	Unique     bool
	NotNull    bool
	// RefTable and RefField describe a foreign key target.
	RefTable string
	RefField string
	// Skip indicates the field should be ignored.
	Skip bool
}

// parseFieldTag parses the content of a `db` struct tag. It supports a
// leading column name followed by options: pk, unique, notnull, serial,
// type=FRAGMENT, fk=Table or fk=Table.column, and table=Name. Type
// fragments may themselves contain commas, as in type=NUMERIC(10,2).
func parseFieldTag(tag string) (fieldTag, error) {
	if tag == "" || tag == "-" {
		return fieldTag{Skip: tag == "-"}, nil
	}

	ft := fieldTag{}
	for i, part := range splitTag(tag) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case part == "pk":
			ft.PrimaryKey = true
		case part == "unique":
			ft.Unique = true
		case part == "notnull":
			ft.NotNull = true
		case part == "serial":
			ft.Serial = true
		case strings.HasPrefix(part, "type="):
			ft.TypeFragment = strings.TrimPrefix(part, "type=")
		case strings.HasPrefix(part, "table="):
			ft.Table = strings.TrimPrefix(part, "table=")
		case strings.HasPrefix(part, "fk="):
			target := strings.TrimPrefix(part, "fk=")
			ft.RefTable, ft.RefField, _ = strings.Cut(target, ".")
			if ft.RefTable == "" {
				return fieldTag{}, fmt.Errorf("empty foreign key target in tag %q", tag)
			}
		default:
			if i != 0 || strings.Contains(part, "=") {
				return fieldTag{}, fmt.Errorf("unknown tag option %q", part)
			}
			ft.Name = part
		}
	}
	return ft, nil
}

// splitTag splits a tag on commas that are not inside parentheses, so
// parameterized type fragments survive intact.
func splitTag(tag string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range tag {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, tag[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, tag[start:])
}

// ShapeOf derives a Shape from a Go struct type using `db` tags. Untagged
// and ignored fields are skipped. The table name defaults to the snake_case
// struct name; a table= option on any field overrides it. Column types are
// inferred from the Go field type unless a type= option names a fragment.
func ShapeOf[T any]() (Shape, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Shape{}, fmt.Errorf("model: expected struct, got %s", t.Kind())
	}

	shape := Shape{Table: toSnakeCase(t.Name())}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		tagStr, ok := field.Tag.Lookup("db")
		if !ok {
			continue
		}
		tag, err := parseFieldTag(tagStr)
		if err != nil {
			return Shape{}, fmt.Errorf("model: field %s.%s: %w", t.Name(), field.Name, err)
		}
		if tag.Skip {
			continue
		}
		if tag.Table != "" {
			shape.Table = tag.Table
		}

		def := FieldDef{Name: tag.Name}
		if def.Name == "" {
			def.Name = toSnakeCase(field.Name)
		}

		switch {
		case tag.Serial:
			def.Type = coltype.Serial
		case tag.TypeFragment != "":
			ct, err := coltype.FromFragment(tag.TypeFragment)
			if err != nil {
				return Shape{}, fmt.Errorf("model: field %s.%s: %w", t.Name(), field.Name, err)
			}
			def.Type = ct
		default:
			ct, err := inferColumnType(field.Type)
			if err != nil {
				return Shape{}, fmt.Errorf("model: field %s.%s: %w", t.Name(), field.Name, err)
			}
			def.Type = ct
		}

		if tag.PrimaryKey {
			def.Constraints = append(def.Constraints, PrimaryKey)
		}
		if tag.Unique {
			def.Constraints = append(def.Constraints, Unique)
		}
		if tag.NotNull {
			def.Constraints = append(def.Constraints, NotNull)
		}
		if tag.RefTable != "" {
			def.Constraints = append(def.Constraints, ReferencesField(tag.RefTable, tag.RefField))
		}

		shape.Fields = append(shape.Fields, def)
	}

	if len(shape.Fields) == 0 {
		return Shape{}, fmt.Errorf("model: struct %s declares no db-tagged fields", t.Name())
	}
	return shape, nil
}

// DefineStruct derives a Shape from T and registers it, returning the built
// descriptor.
func DefineStruct[T any](r *Registry) (*ModelDescriptor, error) {
	shape, err := ShapeOf[T]()
	if err != nil {
		return nil, err
	}
	return Define(r, shape)
}

// MustDefineStruct is a helper that calls DefineStruct and panics on error.
func MustDefineStruct[T any](r *Registry) *ModelDescriptor {
	m, err := DefineStruct[T](r)
	if err != nil {
		panic(err)
	}
	return m
}

// ScanRow decodes a raw row against the descriptor and populates a new T,
// matching decoded values to struct fields by their db-tag column names.
func ScanRow[T any](m *ModelDescriptor, row []any) (*T, error) {
	inst, err := m.DecodeRow(row)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := hydrateStruct(out, inst); err != nil {
		return nil, err
	}
	return out, nil
}

// hydrateStruct copies instance values into a struct pointer's db-tagged
// fields.
func hydrateStruct(target any, inst *Instance) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		tagStr, ok := field.Tag.Lookup("db")
		if !ok {
			continue
		}
		tag, err := parseFieldTag(tagStr)
		if err != nil || tag.Skip {
			continue
		}
		col := tag.Name
		if col == "" {
			col = toSnakeCase(field.Name)
		}
		val, ok := inst.Get(col)
		if !ok || val == nil {
			continue
		}
		if err := setStructField(v.Field(i), val); err != nil {
			return &DecodeError{Table: inst.model.table, Field: col, Cause: err}
		}
	}
	return nil
}

func setStructField(field reflect.Value, val any) error {
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := setStructField(elem.Elem(), val); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		field.SetString(s)
	case reflect.Bool:
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", val)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := val.(int64)
		if !ok {
			return fmt.Errorf("expected int64, got %T", val)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, ok := val.(float64)
		if !ok {
			return fmt.Errorf("expected float64, got %T", val)
		}
		field.SetFloat(f)
	default:
		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(field.Type()) {
			return fmt.Errorf("cannot assign %T to %s", val, field.Type())
		}
		field.Set(rv)
	}
	return nil
}

// inferColumnType maps a Go field type to a default column type.
func inferColumnType(t reflect.Type) (coltype.ColumnType, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return coltype.Text, nil
	case reflect.Bool:
		return coltype.Boolean, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return coltype.Integer, nil
	case reflect.Float32, reflect.Float64:
		return coltype.Real, nil
	case reflect.Map, reflect.Slice:
		return coltype.JSONB, nil
	}
	switch t {
	case reflect.TypeOf(time.Time{}):
		return coltype.TimestampTZ, nil
	case reflect.TypeOf(uuid.UUID{}):
		return coltype.UUID, nil
	}
	return nil, fmt.Errorf("no column type for Go type %s", t)
}

// toSnakeCase converts a PascalCase name to snake_case, keeping acronym runs
// together: "UserAccount" becomes "user_account", "UserID" becomes "user_id",
// "HTTPServer" becomes "http_server".
func toSnakeCase(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if r < 'A' || r > 'Z' {
			b.WriteRune(r)
			continue
		}
		// A word starts at an upper after a lower or digit, and at the last
		// upper of a run followed by a lower.
		if i > 0 {
			prevLower := (rs[i-1] >= 'a' && rs[i-1] <= 'z') || (rs[i-1] >= '0' && rs[i-1] <= '9')
			nextLower := i+1 < len(rs) && rs[i+1] >= 'a' && rs[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r - 'A' + 'a')
	}
	return b.String()
}
