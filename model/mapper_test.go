package model

import (
	"errors"
	"testing"

	"github.com/HazelTheWitch/dbmodels/coltype"
)

func TestDecodeRow(t *testing.T) {
	m := MustBuild(personShape())

	inst, err := m.DecodeRow([]any{int64(1), "Alice", int64(3)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := inst.Get("id"); v != int64(1) {
		t.Errorf("id: got %v", v)
	}
	if v, _ := inst.Get("name"); v != "Alice" {
		t.Errorf("name: got %v", v)
	}
	if v, _ := inst.Get("dept"); v != int64(3) {
		t.Errorf("dept: got %v", v)
	}
	if pk, ok := inst.PrimaryKeyValue(); !ok || pk != int64(1) {
		t.Errorf("primary key value: got %v, %v", pk, ok)
	}
}

func TestDecodeRowArity(t *testing.T) {
	m := MustBuild(personShape())
	_, err := m.DecodeRow([]any{int64(1), "Alice"})
	var ae *ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if ae.Want != 3 || ae.Got != 2 {
		t.Errorf("arity: %+v", ae)
	}
}

func TestDecodeRowTagsOffendingField(t *testing.T) {
	m := MustBuild(personShape())
	_, err := m.DecodeRow([]any{int64(1), "Alice", "not-a-number"})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Table != "person" || de.Field != "dept" {
		t.Errorf("error should name model and field: %+v", de)
	}
	var inner *coltype.DecodeError
	if !errors.As(err, &inner) {
		t.Error("should wrap the column type's DecodeError")
	}
}

func TestEncodeInstanceOmitsSerial(t *testing.T) {
	m := MustBuild(personShape())
	inst := MustNewInstance(m, nil, "Alice", int64(3))

	literals, err := m.EncodeInstance(inst)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// id is serial and omitted; the remaining literals pair with InsertColumns.
	if len(literals) != 2 || literals[0] != "Alice" || literals[1] != int64(3) {
		t.Errorf("literals: got %v", literals)
	}
}

func TestEncodeRowRoundTrip(t *testing.T) {
	m := MustBuild(personShape())
	inst := MustNewInstance(m, int64(7), "Bob", int64(2))

	literals, err := m.EncodeRow(inst)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := m.DecodeRow(literals)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Equal(inst) {
		t.Errorf("round trip: got %v, want %v", back, inst)
	}
}

func TestEncodeTagsOffendingField(t *testing.T) {
	m := MustBuild(personShape())
	inst := MustNewInstance(m, nil, "a name that is far too long for a VARCHAR of fifty characters, clearly", int64(1))

	_, err := m.EncodeInstance(inst)
	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if ee.Table != "person" || ee.Field != "name" {
		t.Errorf("error should name model and field: %+v", ee)
	}
}

func TestEncodeRejectsNullInNotNullField(t *testing.T) {
	m := MustBuild(personShape())
	inst := MustNewInstance(m, nil, nil, int64(1))

	_, err := m.EncodeInstance(inst)
	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if ee.Field != "name" {
		t.Errorf("field: got %q", ee.Field)
	}
}

func TestEncodeModelMismatch(t *testing.T) {
	m := MustBuild(personShape())
	other := MustBuild(Shape{Table: "other", Fields: []FieldDef{{Name: "id", Type: coltype.Integer}}})
	inst := MustNewInstance(other, int64(1))

	if _, err := m.EncodeInstance(inst); !errors.Is(err, ErrModelMismatch) {
		t.Fatalf("expected ErrModelMismatch, got %v", err)
	}
	if _, err := m.EncodeRow(inst); !errors.Is(err, ErrModelMismatch) {
		t.Fatalf("expected ErrModelMismatch, got %v", err)
	}
}

func TestNewInstanceArity(t *testing.T) {
	m := MustBuild(personShape())
	if _, err := NewInstance(m, int64(1)); err == nil {
		t.Fatal("expected ArityError")
	}
}

func TestInstanceSetAndString(t *testing.T) {
	m := MustBuild(personShape())
	inst := MustNewInstance(m, int64(1), "Alice", int64(3))

	if err := inst.Set("name", "Alicia"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := inst.Get("name"); v != "Alicia" {
		t.Errorf("get after set: %v", v)
	}
	if err := inst.Set("ghost", 1); err == nil {
		t.Error("expected error for unknown field")
	}
	if got := inst.String(); got != "person(id=1, name=Alicia, dept=3)" {
		t.Errorf("string: %q", got)
	}
}
