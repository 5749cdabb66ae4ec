package model

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Instance is a concrete value conforming to a ModelDescriptor: one native
// value per field, in field order. Instances are created by application code
// through NewInstance or by the row mapper through DecodeRow; a descriptor
// may have any number of live instances with independent lifetimes.
type Instance struct {
	model  *ModelDescriptor
	values []any
}

// NewInstance creates an instance of the given model from one value per
// field, in declaration order. It fails with *ArityError when the count does
// not match.
func NewInstance(m *ModelDescriptor, values ...any) (*Instance, error) {
	if len(values) != len(m.fields) {
		return nil, &ArityError{Table: m.table, Want: len(m.fields), Got: len(values)}
	}
	return &Instance{model: m, values: append([]any(nil), values...)}, nil
}

// MustNewInstance is a helper that calls NewInstance and panics on error.
func MustNewInstance(m *ModelDescriptor, values ...any) *Instance {
	inst, err := NewInstance(m, values...)
	if err != nil {
		panic(err)
	}
	return inst
}

// Model returns the descriptor this instance conforms to.
func (i *Instance) Model() *ModelDescriptor { return i.model }

// Get returns the value of the named field.
func (i *Instance) Get(field string) (any, bool) {
	for idx := range i.model.fields {
		if i.model.fields[idx].name == field {
			return i.values[idx], true
		}
	}
	return nil, false
}

// Set replaces the value of the named field. The new value is not validated
// until the instance is encoded.
func (i *Instance) Set(field string, v any) error {
	for idx := range i.model.fields {
		if i.model.fields[idx].name == field {
			i.values[idx] = v
			return nil
		}
	}
	return fmt.Errorf("model %s: no field %q", i.model.table, field)
}

// Values returns the instance's values in field order.
func (i *Instance) Values() []any {
	return append([]any(nil), i.values...)
}

// PrimaryKeyValue returns the value of the model's primary key field, or
// false when the model has no primary key.
func (i *Instance) PrimaryKeyValue() (any, bool) {
	if i.model.pk < 0 {
		return nil, false
	}
	return i.values[i.model.pk], true
}

// Equal reports whether two instances conform to the same descriptor and
// hold equal values. Timestamps compare by instant rather than by
// representation.
func (i *Instance) Equal(other *Instance) bool {
	if other == nil || i.model != other.model {
		return false
	}
	for idx := range i.values {
		if !valueEqual(i.values[idx], other.values[idx]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// String renders the instance in table(field=value, ...) form.
func (i *Instance) String() string {
	parts := make([]string, len(i.values))
	for idx := range i.model.fields {
		parts[idx] = fmt.Sprintf("%s=%v", i.model.fields[idx].name, i.values[idx])
	}
	return fmt.Sprintf("%s(%s)", i.model.table, strings.Join(parts, ", "))
}
