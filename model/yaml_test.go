package model

import (
	"strings"
	"testing"
)

const shapeDoc = `
enums:
  - name: mood
    labels: [happy, sad]
models:
  - table: person
    fields:
      - name: id
        type: SERIAL
        constraints: [primarykey]
      - name: name
        type: VARCHAR(50)
        constraints: [notnull]
      - name: feeling
        type: mood
      - name: dept
        type: INTEGER
        references: department.id
`

func TestLoadShapes(t *testing.T) {
	shapes, err := LoadShapes(strings.NewReader(shapeDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(shapes) != 1 {
		t.Fatalf("expected one shape, got %d", len(shapes))
	}

	shape := shapes[0]
	if shape.Table != "person" {
		t.Errorf("table: got %q", shape.Table)
	}
	if len(shape.Fields) != 4 {
		t.Fatalf("fields: got %d", len(shape.Fields))
	}
	if got := shape.Fields[0].Type.Fragment(); got != "SERIAL" {
		t.Errorf("id type: got %q", got)
	}
	if got := shape.Fields[2].Type.Fragment(); got != `"mood"` {
		t.Errorf("enum field should resolve to the declared enum, got %q", got)
	}
	fk, ok := foreignKeyOf(shape.Fields[3])
	if !ok || fk.RefTable != "department" || fk.RefField != "id" {
		t.Errorf("references: got %+v", fk)
	}

	r := NewRegistry()
	if err := DefineAll(r, shapes); err != nil {
		t.Fatalf("define all: %v", err)
	}
	if _, err := r.Resolve("person"); err != nil {
		t.Errorf("resolve after DefineAll: %v", err)
	}
}

func TestLoadShapesErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown constraint", `
models:
  - table: t
    fields:
      - {name: a, type: INTEGER, constraints: [wat]}
`},
		{"unknown type", `
models:
  - table: t
    fields:
      - {name: a, type: WIDGET}
`},
		{"duplicate enum", `
enums:
  - {name: mood, labels: [a]}
  - {name: mood, labels: [b]}
`},
		{"unknown key", `
models:
  - table: t
    bogus: true
    fields:
      - {name: a, type: INTEGER}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadShapes(strings.NewReader(tc.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
