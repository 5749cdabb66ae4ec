package coltype

import (
	"fmt"
	"strings"
)

// arrayType turns an element type into an array column, optionally with a
// declared length. The canonical Go representation is []any holding element
// natives; nil elements map to SQL NULL.
//
// Literals use the brace form and a plain comma split, matching the original
// mapper. Element values whose encoded text contains a comma or brace, is
// empty, or spells the literal NULL are outside the supported domain and are
// rejected on encode: such text cannot be told apart from the delimiters or
// from a null element on decode.
type arrayType struct {
	elem   ColumnType
	length int // 0 means unbounded
}

// Array returns an unbounded array column over the given element type.
func Array(elem ColumnType) ColumnType {
	return &arrayType{elem: elem}
}

// ArrayOf returns an array column over the given element type with a
// declared length n. Encoding or decoding a value with a different number of
// elements fails. Panics if n < 1.
func ArrayOf(elem ColumnType, n int) ColumnType {
	if n < 1 {
		panic(fmt.Sprintf("coltype: ArrayOf length must be positive, got %d", n))
	}
	return &arrayType{elem: elem, length: n}
}

// Elem returns the array's element type.
func (t *arrayType) Elem() ColumnType { return t.elem }

func (t *arrayType) Fragment() string {
	if t.length > 0 {
		return fmt.Sprintf("%s[%d]", t.elem.Fragment(), t.length)
	}
	return t.elem.Fragment() + "[]"
}

func (t *arrayType) RawFragment() string {
	if t.length > 0 {
		return fmt.Sprintf("%s[%d]", t.elem.RawFragment(), t.length)
	}
	return t.elem.RawFragment() + "[]"
}

func (t *arrayType) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &EncodeError{Type: t.Fragment(), Value: v, Cause: fmt.Errorf("expected []any, got %T", v)}
	}
	if t.length > 0 && len(items) != t.length {
		return nil, &EncodeError{Type: t.Fragment(), Value: v,
			Cause: fmt.Errorf("expected %d elements, got %d", t.length, len(items))}
	}
	parts := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			parts[i] = "NULL"
			continue
		}
		encoded, err := t.elem.Encode(item)
		if err != nil {
			return nil, &EncodeError{Type: t.Fragment(), Value: v,
				Cause: fmt.Errorf("element %d: %w", i, err)}
		}
		text := fmt.Sprintf("%v", encoded)
		if strings.ContainsAny(text, ",{}") {
			return nil, &EncodeError{Type: t.Fragment(), Value: v,
				Cause: fmt.Errorf("element %d literal %q contains an array delimiter", i, text)}
		}
		if text == "" || text == "NULL" {
			return nil, &EncodeError{Type: t.Fragment(), Value: v,
				Cause: fmt.Errorf("element %d literal %q is indistinguishable from a null element", i, text)}
		}
		parts[i] = text
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func (t *arrayType) Decode(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := decodeString(raw)
	if err != nil {
		return nil, &DecodeError{Type: t.Fragment(), Value: raw, Cause: fmt.Errorf("cannot decode %T as array", raw)}
	}
	text := s.(string)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, &DecodeError{Type: t.Fragment(), Value: raw, Cause: fmt.Errorf("malformed array literal %q", text)}
	}
	body := text[1 : len(text)-1]
	if body == "" {
		if t.length > 0 {
			return nil, &DecodeError{Type: t.Fragment(), Value: raw,
				Cause: fmt.Errorf("expected %d elements, got 0", t.length)}
		}
		return []any{}, nil
	}
	parts := strings.Split(body, ",")
	if t.length > 0 && len(parts) != t.length {
		return nil, &DecodeError{Type: t.Fragment(), Value: raw,
			Cause: fmt.Errorf("expected %d elements, got %d", t.length, len(parts))}
	}
	items := make([]any, len(parts))
	for i, part := range parts {
		if part == "NULL" {
			continue
		}
		decoded, err := t.elem.Decode(part)
		if err != nil {
			return nil, &DecodeError{Type: t.Fragment(), Value: raw,
				Cause: fmt.Errorf("element %d: %w", i, err)}
		}
		items[i] = decoded
	}
	return items, nil
}
