package model

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

// shapeFile is the YAML document layout for declaring models as data.
type shapeFile struct {
	Enums  []enumDecl  `yaml:"enums"`
	Models []shapeDecl `yaml:"models"`
}

type enumDecl struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

type shapeDecl struct {
	Table  string      `yaml:"table"`
	Fields []fieldDecl `yaml:"fields"`
}

type fieldDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Constraints lists primarykey, unique, and notnull flags.
	Constraints []string `yaml:"constraints"`
	// References names a foreign key target as "table" or "table.column".
	References string `yaml:"references"`
}

// LoadShapes reads model declarations from a YAML document. Field types are
// DDL fragments ("SERIAL", "VARCHAR(50)", "INTEGER[]") or the name of an
// enum declared in the same document. The returned shapes have not been
// built or registered.
func LoadShapes(r io.Reader) ([]Shape, error) {
	var file shapeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("model: parse shape file: %w", err)
	}

	enums := make(map[string]coltype.ColumnType, len(file.Enums))
	for _, e := range file.Enums {
		if _, ok := enums[e.Name]; ok {
			return nil, fmt.Errorf("model: enum %q declared twice", e.Name)
		}
		if e.Name == "" || len(e.Labels) == 0 {
			return nil, fmt.Errorf("model: enum %q needs a name and labels", e.Name)
		}
		enums[e.Name] = coltype.Enum(e.Name, e.Labels...)
	}

	shapes := make([]Shape, 0, len(file.Models))
	for _, decl := range file.Models {
		shape := Shape{Table: decl.Table}
		for _, f := range decl.Fields {
			def := FieldDef{Name: f.Name}

			if ct, ok := enums[f.Type]; ok {
				def.Type = ct
			} else {
				ct, err := coltype.FromFragment(f.Type)
				if err != nil {
					return nil, fmt.Errorf("model: %s.%s: %w", decl.Table, f.Name, err)
				}
				def.Type = ct
			}

			for _, c := range f.Constraints {
				switch c {
				case "primarykey", "pk":
					def.Constraints = append(def.Constraints, PrimaryKey)
				case "unique":
					def.Constraints = append(def.Constraints, Unique)
				case "notnull":
					def.Constraints = append(def.Constraints, NotNull)
				default:
					return nil, fmt.Errorf("model: %s.%s: unknown constraint %q", decl.Table, f.Name, c)
				}
			}
			if f.References != "" {
				table, field, _ := strings.Cut(f.References, ".")
				def.Constraints = append(def.Constraints, ReferencesField(table, field))
			}

			shape.Fields = append(shape.Fields, def)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// DefineAll builds and registers each shape in order, stopping at the first
// error. Shapes registered before the failure remain registered.
func DefineAll(r *Registry, shapes []Shape) error {
	for _, shape := range shapes {
		if _, err := Define(r, shape); err != nil {
			return err
		}
	}
	return nil
}
