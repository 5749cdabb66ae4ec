package coltype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	arraySuffix = regexp.MustCompile(`^(.*)\[([0-9]*)\]$`)
	paramType   = regexp.MustCompile(`^([A-Za-z ]+?)\s*\(\s*([0-9]+)\s*(?:,\s*([0-9]+)\s*)?\)$`)
)

// FromFragment resolves a DDL type fragment such as "VARCHAR(50)",
// "NUMERIC(10, 2)", "TIMESTAMP WITH TIME ZONE", or "INTEGER[]" back into a
// ColumnType. Matching is case-insensitive. Named enum types cannot be
// resolved from a fragment alone and yield an error; callers that know the
// declared enums should resolve those names themselves first.
func FromFragment(fragment string) (ColumnType, error) {
	s := strings.TrimSpace(fragment)

	if m := arraySuffix.FindStringSubmatch(s); m != nil {
		elem, err := FromFragment(m[1])
		if err != nil {
			return nil, err
		}
		if m[2] == "" {
			return Array(elem), nil
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("coltype: bad array length in %q", fragment)
		}
		return ArrayOf(elem, n), nil
	}

	if m := paramType.FindStringSubmatch(s); m != nil {
		name := strings.ToUpper(strings.TrimSpace(m[1]))
		first, _ := strconv.Atoi(m[2])
		switch name {
		case "VARCHAR", "CHARACTER VARYING":
			if first < 1 {
				return nil, fmt.Errorf("coltype: bad VARCHAR length in %q", fragment)
			}
			return VarChar(first), nil
		case "CHAR", "CHARACTER":
			if first < 1 {
				return nil, fmt.Errorf("coltype: bad CHAR width in %q", fragment)
			}
			return Char(first), nil
		case "NUMERIC", "DECIMAL":
			scale := 0
			if m[3] != "" {
				scale, _ = strconv.Atoi(m[3])
			}
			if first < 1 || scale < 0 || scale > first {
				return nil, fmt.Errorf("coltype: bad NUMERIC parameters in %q", fragment)
			}
			return Numeric(first, scale), nil
		}
		return nil, fmt.Errorf("coltype: unknown parameterized type %q", fragment)
	}

	switch strings.ToUpper(s) {
	case "INTEGER", "INT", "INT4", "BIGINT", "INT8", "SMALLINT":
		return Integer, nil
	case "SERIAL", "BIGSERIAL":
		return Serial, nil
	case "DOUBLE PRECISION", "REAL", "FLOAT", "FLOAT8":
		return Real, nil
	case "TEXT":
		return Text, nil
	case "BOOLEAN", "BOOL":
		return Boolean, nil
	case "TIMESTAMP", "TIMESTAMP WITHOUT TIME ZONE":
		return Timestamp, nil
	case "TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ":
		return TimestampTZ, nil
	case "DATE":
		return Date, nil
	case "TIME":
		return Time, nil
	case "JSON":
		return JSON, nil
	case "JSONB":
		return JSONB, nil
	case "UUID":
		return UUID, nil
	}
	return nil, fmt.Errorf("coltype: unknown type %q", fragment)
}
