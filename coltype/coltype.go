// Package coltype defines the column types a model field can take and the
// conversion rules between Go values and database literals.
package coltype

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ColumnType describes one column type: how it appears in DDL and how values
// move between their Go representation and a database literal.
//
// Encode and Decode are inverses over the type's domain: for any value v the
// type accepts, Decode(Encode(v)) yields v again.
type ColumnType interface {
	// Fragment returns the DDL type fragment, e.g. "VARCHAR(50)".
	Fragment() string
	// RawFragment returns the underlying storable type. It differs from
	// Fragment only for pseudo types: SERIAL stores as INTEGER. Foreign key
	// columns reference a target column by its raw fragment.
	RawFragment() string
	// Encode converts a Go value into a driver-ready literal.
	// It fails with *EncodeError if the value is outside the type's domain.
	Encode(v any) (any, error)
	// Decode converts a database-returned value into the canonical Go
	// representation. It fails with *DecodeError for malformed input.
	Decode(raw any) (any, error)
}

// scalarType is a basic type: the fragment and raw fragment are the same and
// conversion is delegated to a converter pair.
type scalarType struct {
	fragment string
	encode   func(v any) (any, error)
	decode   func(raw any) (any, error)
}

func (t *scalarType) Fragment() string    { return t.fragment }
func (t *scalarType) RawFragment() string { return t.fragment }

func (t *scalarType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := t.encode(v)
	if err != nil {
		return nil, &EncodeError{Type: t.fragment, Value: v, Cause: err}
	}
	return out, nil
}

func (t *scalarType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	out, err := t.decode(raw)
	if err != nil {
		return nil, &DecodeError{Type: t.fragment, Value: raw, Cause: err}
	}
	return out, nil
}

// Base scalar types. Each is a process-wide singleton; column types carry no
// per-field state apart from their construction parameters.
var (
	// Integer is a 64-bit integer column. Canonical Go type: int64.
	Integer ColumnType = &scalarType{fragment: "INTEGER", encode: encodeInt, decode: decodeInt}
	// Real is a double-precision float column. Canonical Go type: float64.
	Real ColumnType = &scalarType{fragment: "DOUBLE PRECISION", encode: encodeFloat, decode: decodeFloat}
	// Text is an unbounded string column. Canonical Go type: string.
	Text ColumnType = &scalarType{fragment: "TEXT", encode: encodeString, decode: decodeString}
	// Boolean is a true/false column. Canonical Go type: bool.
	Boolean ColumnType = &scalarType{fragment: "BOOLEAN", encode: encodeBool, decode: decodeBool}
	// Timestamp is a timezone-naive timestamp column. Canonical Go type: time.Time.
	Timestamp ColumnType = &scalarType{
		fragment: "TIMESTAMP",
		encode:   encodeTime(timestampLayout),
		decode:   decodeTime,
	}
	// TimestampTZ is a timezone-aware timestamp column. Canonical Go type: time.Time.
	TimestampTZ ColumnType = &scalarType{
		fragment: "TIMESTAMP WITH TIME ZONE",
		encode:   encodeTime(time.RFC3339Nano),
		decode:   decodeTime,
	}
	// Date is a calendar date column. Canonical Go type: time.Time at midnight UTC.
	Date ColumnType = &scalarType{fragment: "DATE", encode: encodeDate, decode: decodeDate}
	// Time is a time-of-day column. Canonical Go type: string in HH:MM:SS form.
	Time ColumnType = &scalarType{fragment: "TIME", encode: encodeClock, decode: decodeClock}
)

const timestampLayout = "2006-01-02T15:04:05.999999"

// VarChar returns a bounded-string column type holding at most n characters.
// Encoding a longer string fails with *EncodeError. Panics if n < 1.
func VarChar(n int) ColumnType {
	if n < 1 {
		panic(fmt.Sprintf("coltype: VarChar length must be positive, got %d", n))
	}
	return &scalarType{
		fragment: fmt.Sprintf("VARCHAR(%d)", n),
		encode:   encodeBounded(n),
		decode:   decodeString,
	}
}

// Char returns a fixed-width string column type of width n. Values longer
// than n characters are rejected; shorter values are left for the database
// to pad. Panics if n < 1.
func Char(n int) ColumnType {
	if n < 1 {
		panic(fmt.Sprintf("coltype: Char width must be positive, got %d", n))
	}
	return &scalarType{
		fragment: fmt.Sprintf("CHAR(%d)", n),
		encode:   encodeBounded(n),
		decode:   decodeString,
	}
}

func encodeInt(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	}
	return nil, fmt.Errorf("expected integer, got %T", v)
}

func decodeInt(raw any) (any, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("non-integral value %v", n)
		}
		return int64(n), nil
	case string:
		return parseInt(n)
	case []byte:
		return parseInt(string(n))
	}
	return nil, fmt.Errorf("cannot decode %T as integer", raw)
}

func parseInt(s string) (any, error) {
	var n int64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err != nil {
		return nil, fmt.Errorf("malformed integer %q", s)
	}
	return n, nil
}

func encodeFloat(v any) (any, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case int:
		return float64(f), nil
	}
	return nil, fmt.Errorf("expected float, got %T", v)
}

func decodeFloat(raw any) (any, error) {
	switch f := raw.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case string:
		var out float64
		if _, err := fmt.Sscanf(strings.TrimSpace(f), "%g", &out); err != nil {
			return nil, fmt.Errorf("malformed float %q", f)
		}
		return out, nil
	case []byte:
		return decodeFloat(string(f))
	}
	return nil, fmt.Errorf("cannot decode %T as float", raw)
}

func encodeString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func decodeString(raw any) (any, error) {
	switch s := raw.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return nil, fmt.Errorf("cannot decode %T as string", raw)
}

func encodeBounded(n int) func(any) (any, error) {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		if count := utf8.RuneCountInString(s); count > n {
			return nil, fmt.Errorf("string of %d characters exceeds limit %d", count, n)
		}
		return s, nil
	}
}

func encodeBool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func decodeBool(raw any) (any, error) {
	switch b := raw.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case string:
		switch strings.ToLower(b) {
		case "t", "true", "1":
			return true, nil
		case "f", "false", "0":
			return false, nil
		}
		return nil, fmt.Errorf("malformed boolean %q", b)
	case []byte:
		return decodeBool(string(b))
	}
	return nil, fmt.Errorf("cannot decode %T as boolean", raw)
}

func encodeTime(layout string) func(any) (any, error) {
	return func(v any) (any, error) {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time, got %T", v)
		}
		return t.Format(layout), nil
	}
}

// timeLayouts are tried in order when decoding timestamp strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	timestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func decodeTime(raw any) (any, error) {
	switch t := raw.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("malformed timestamp %q", t)
	case []byte:
		return decodeTime(string(t))
	}
	return nil, fmt.Errorf("cannot decode %T as timestamp", raw)
}

func encodeDate(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("expected time.Time, got %T", v)
	}
	return t.Format(time.DateOnly), nil
}

func decodeDate(raw any) (any, error) {
	switch d := raw.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("malformed date %q", d)
		}
		return parsed, nil
	case []byte:
		return decodeDate(string(d))
	}
	return nil, fmt.Errorf("cannot decode %T as date", raw)
}

func encodeClock(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	if err := validateClock(s); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeClock(raw any) (any, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %T as time of day", raw)
	}
	str := s.(string)
	if err := validateClock(str); err != nil {
		return nil, err
	}
	return str, nil
}

func validateClock(s string) error {
	for _, layout := range []string{"15:04:05.999999", "15:04:05", "15:04"} {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("malformed time of day %q", s)
}
