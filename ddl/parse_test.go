package ddl

import (
	"errors"
	"testing"

	"github.com/HazelTheWitch/dbmodels/model"
)

func TestParseCreateTable(t *testing.T) {
	shape, err := ParseCreateTable(
		`CREATE TABLE Person (id SERIAL PRIMARY KEY, name VARCHAR(50) NOT NULL, dept INTEGER REFERENCES Department(id));`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if shape.Table != "Person" {
		t.Errorf("table: got %q", shape.Table)
	}
	if len(shape.Fields) != 3 {
		t.Fatalf("fields: got %d", len(shape.Fields))
	}

	id := shape.Fields[0]
	if id.Name != "id" || id.Type.Fragment() != "SERIAL" {
		t.Errorf("id: %s %s", id.Name, id.Type.Fragment())
	}
	if len(id.Constraints) != 1 || id.Constraints[0].Kind != model.KindPrimaryKey {
		t.Errorf("id constraints: %+v", id.Constraints)
	}

	name := shape.Fields[1]
	if name.Type.Fragment() != "VARCHAR(50)" {
		t.Errorf("name type: %s", name.Type.Fragment())
	}
	if len(name.Constraints) != 1 || name.Constraints[0].Kind != model.KindNotNull {
		t.Errorf("name constraints: %+v", name.Constraints)
	}

	dept := shape.Fields[2]
	if len(dept.Constraints) != 1 {
		t.Fatalf("dept constraints: %+v", dept.Constraints)
	}
	fk := dept.Constraints[0]
	if fk.Kind != model.KindForeignKey || fk.RefTable != "Department" || fk.RefField != "id" {
		t.Errorf("dept foreign key: %+v", fk)
	}

	if _, err := model.Build(shape); err != nil {
		t.Errorf("parsed shape should build: %v", err)
	}
}

func TestParseCreateTableVariants(t *testing.T) {
	cases := []struct {
		name  string
		input string
		check func(t *testing.T, shape model.Shape)
	}{
		{"if not exists", `CREATE TABLE IF NOT EXISTS t (a INTEGER)`,
			func(t *testing.T, s model.Shape) {
				if s.Table != "t" {
					t.Errorf("table: %q", s.Table)
				}
			}},
		{"quoted identifiers", `CREATE TABLE "Order Items" ("item id" INTEGER);`,
			func(t *testing.T, s model.Shape) {
				if s.Table != "Order Items" || s.Fields[0].Name != "item id" {
					t.Errorf("quoting: %q %q", s.Table, s.Fields[0].Name)
				}
			}},
		{"multi word type", `CREATE TABLE t (at TIMESTAMP WITH TIME ZONE);`,
			func(t *testing.T, s model.Shape) {
				if got := s.Fields[0].Type.Fragment(); got != "TIMESTAMP WITH TIME ZONE" {
					t.Errorf("type: %q", got)
				}
			}},
		{"numeric parameters", `CREATE TABLE t (amount NUMERIC(10, 2) NOT NULL);`,
			func(t *testing.T, s model.Shape) {
				if got := s.Fields[0].Type.Fragment(); got != "NUMERIC(10, 2)" {
					t.Errorf("type: %q", got)
				}
			}},
		{"array type", `CREATE TABLE t (tags TEXT[], triple INTEGER[3]);`,
			func(t *testing.T, s model.Shape) {
				if got := s.Fields[0].Type.Fragment(); got != "TEXT[]" {
					t.Errorf("tags type: %q", got)
				}
				if got := s.Fields[1].Type.Fragment(); got != "INTEGER[3]" {
					t.Errorf("triple type: %q", got)
				}
			}},
		{"lowercase keywords", `create table t (id serial primary key, ref integer references other);`,
			func(t *testing.T, s model.Shape) {
				if s.Fields[0].Constraints[0].Kind != model.KindPrimaryKey {
					t.Errorf("constraints: %+v", s.Fields[0].Constraints)
				}
				fk := s.Fields[1].Constraints[0]
				if fk.RefTable != "other" || fk.RefField != "" {
					t.Errorf("bare reference should leave the column empty: %+v", fk)
				}
			}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shape, err := ParseCreateTable(tc.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tc.check(t, shape)
		})
	}
}

func TestParseCreateTables(t *testing.T) {
	shapes, err := ParseCreateTables(`
CREATE TABLE department (id SERIAL PRIMARY KEY, title VARCHAR(80) UNIQUE);
CREATE TABLE person (id SERIAL PRIMARY KEY, dept INTEGER REFERENCES department (id));
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(shapes) != 2 || shapes[0].Table != "department" || shapes[1].Table != "person" {
		t.Errorf("shapes: %+v", shapes)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not a create", `DROP TABLE person;`},
		{"unknown type", `CREATE TABLE t (a WIDGET);`},
		{"missing column list", `CREATE TABLE t;`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCreateTable(tc.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	r := model.NewRegistry()
	model.MustDefine(r, departmentShape())
	person := model.MustDefine(r, personShape())

	stmt, err := NewSynthesizer(r).CreateTable(person)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	shape, err := ParseCreateTable(stmt)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	back, err := model.Build(shape)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if back.Table() != person.Table() {
		t.Errorf("table: %q", back.Table())
	}
	for _, col := range person.Columns() {
		orig, _ := person.Field(col)
		parsed, ok := back.Field(col)
		if !ok {
			t.Fatalf("missing column %q", col)
		}
		if parsed.Type().Fragment() != orig.Type().Fragment() {
			t.Errorf("%s type: got %q, want %q", col, parsed.Type().Fragment(), orig.Type().Fragment())
		}
	}
}
