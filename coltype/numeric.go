package coltype

import (
	"fmt"
	"regexp"
	"strings"
)

var numericPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// numericType is an exact decimal column with a fixed precision and scale.
// The canonical Go representation is a decimal string, which avoids the
// float rounding the original floating-point mapping suffered from.
type numericType struct {
	precision int
	scale     int
}

// Numeric returns an exact decimal column type with the given precision
// (total significant digits) and scale (digits after the point). Panics if
// precision < 1 or scale is negative or exceeds precision.
func Numeric(precision, scale int) ColumnType {
	if precision < 1 {
		panic(fmt.Sprintf("coltype: Numeric precision must be positive, got %d", precision))
	}
	if scale < 0 || scale > precision {
		panic(fmt.Sprintf("coltype: Numeric scale %d out of range for precision %d", scale, precision))
	}
	return &numericType{precision: precision, scale: scale}
}

func (t *numericType) Fragment() string {
	return fmt.Sprintf("NUMERIC(%d, %d)", t.precision, t.scale)
}

func (t *numericType) RawFragment() string { return t.Fragment() }

func (t *numericType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &EncodeError{Type: t.Fragment(), Value: v, Cause: fmt.Errorf("expected decimal string, got %T", v)}
	}
	if err := t.validate(s); err != nil {
		return nil, &EncodeError{Type: t.Fragment(), Value: v, Cause: err}
	}
	return s, nil
}

func (t *numericType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		s = fmt.Sprintf("%d", v)
	case float64:
		s = fmt.Sprintf("%.*f", t.scale, v)
		// Trim only fractional zeros; integral digits must survive.
		if strings.Contains(s, ".") {
			s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		}
		if s == "-0" {
			s = "0"
		}
	default:
		return nil, &DecodeError{Type: t.Fragment(), Value: raw, Cause: fmt.Errorf("cannot decode %T as numeric", raw)}
	}
	if err := t.validate(s); err != nil {
		return nil, &DecodeError{Type: t.Fragment(), Value: raw, Cause: err}
	}
	return s, nil
}

// validate checks that s is a well-formed decimal within the declared
// precision and scale.
func (t *numericType) validate(s string) error {
	if !numericPattern.MatchString(s) {
		return fmt.Errorf("malformed decimal %q", s)
	}
	digits := strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(digits, ".")
	whole = strings.TrimLeft(whole, "0")
	if len(frac) > t.scale {
		return fmt.Errorf("%q has %d fractional digits, scale is %d", s, len(frac), t.scale)
	}
	if len(whole)+t.scale > t.precision {
		return fmt.Errorf("%q exceeds precision %d", s, t.precision)
	}
	return nil
}
