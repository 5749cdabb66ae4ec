package model

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

type Employee struct {
	ID       int       `db:"id,serial,pk"`
	Name     string    `db:"name,type=VARCHAR(50),notnull"`
	Email    *string   `db:"email,unique"`
	DeptID   int       `db:"dept_id,fk=department"`
	Salary   string    `db:"salary,type=NUMERIC(10,2)"`
	HiredAt  time.Time `db:"hired_at"`
	BadgeRef uuid.UUID `db:"badge_ref"`
	Internal string    `db:"-"`
	Untagged string
}

func TestShapeOf(t *testing.T) {
	shape, err := ShapeOf[Employee]()
	if err != nil {
		t.Fatalf("shape: %v", err)
	}
	if shape.Table != "employee" {
		t.Errorf("table: got %q", shape.Table)
	}
	if len(shape.Fields) != 7 {
		t.Fatalf("expected 7 fields, got %d", len(shape.Fields))
	}

	byName := make(map[string]FieldDef)
	for _, f := range shape.Fields {
		byName[f.Name] = f
	}

	if byName["id"].Type != coltype.Serial {
		t.Errorf("id should be SERIAL, got %s", byName["id"].Type.Fragment())
	}
	if got := byName["name"].Type.Fragment(); got != "VARCHAR(50)" {
		t.Errorf("name type: got %q", got)
	}
	if got := byName["salary"].Type.Fragment(); got != "NUMERIC(10, 2)" {
		t.Errorf("salary type: got %q", got)
	}
	if got := byName["hired_at"].Type.Fragment(); got != "TIMESTAMP WITH TIME ZONE" {
		t.Errorf("hired_at type: got %q", got)
	}
	if got := byName["badge_ref"].Type.Fragment(); got != "UUID" {
		t.Errorf("badge_ref type: got %q", got)
	}

	fk, ok := foreignKeyOf(byName["dept_id"])
	if !ok || fk.RefTable != "department" {
		t.Errorf("dept_id foreign key: got %+v", fk)
	}
}

func foreignKeyOf(def FieldDef) (Constraint, bool) {
	for _, c := range def.Constraints {
		if c.Kind == KindForeignKey {
			return c, true
		}
	}
	return Constraint{}, false
}

func TestShapeOfTableOverride(t *testing.T) {
	type Person struct {
		ID int `db:"id,pk,table=people"`
	}
	shape, err := ShapeOf[Person]()
	if err != nil {
		t.Fatalf("shape: %v", err)
	}
	if shape.Table != "people" {
		t.Errorf("table: got %q", shape.Table)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Person":      "person",
		"UserAccount": "user_account",
		"UserID":      "user_id",
		"HTTPServer":  "http_server",
		"ID":          "id",
		"parsedDDL":   "parsed_ddl",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestShapeOfRejectsBadTag(t *testing.T) {
	type Broken struct {
		A int `db:"a,bogus=1"`
	}
	if _, err := ShapeOf[Broken](); err == nil {
		t.Fatal("expected error for unknown tag option")
	}
}

func TestDefineStructAndScanRow(t *testing.T) {
	r := NewRegistry()
	m, err := DefineStruct[Employee](r)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	hired := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	badge := uuid.MustParse("7f9c24e8-3b12-4fef-91e0-56a2d5a3a117")
	row := []any{
		int64(12), "Ada", "ada@example.com", int64(4), "99000.50",
		hired.Format(time.RFC3339), badge.String(),
	}

	emp, err := ScanRow[Employee](m, row)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if emp.ID != 12 || emp.Name != "Ada" || emp.DeptID != 4 {
		t.Errorf("scalars: %+v", emp)
	}
	if emp.Email == nil || *emp.Email != "ada@example.com" {
		t.Errorf("pointer field: %v", emp.Email)
	}
	if emp.Salary != "99000.50" {
		t.Errorf("salary: %q", emp.Salary)
	}
	if !emp.HiredAt.Equal(hired) {
		t.Errorf("hired_at: %v", emp.HiredAt)
	}
	if emp.BadgeRef != badge {
		t.Errorf("badge_ref: %v", emp.BadgeRef)
	}
}

func TestScanRowNullLeavesZeroValue(t *testing.T) {
	r := NewRegistry()
	m := MustDefineStruct[Employee](r)

	row := []any{int64(1), "Ada", nil, int64(4), "1.00",
		time.Now().UTC().Format(time.RFC3339), uuid.Nil.String()}
	emp, err := ScanRow[Employee](m, row)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if emp.Email != nil {
		t.Errorf("null column should leave pointer nil, got %v", *emp.Email)
	}
}
