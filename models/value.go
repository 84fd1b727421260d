package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the JSON type held by a Value.
type Kind int

// The JSON kinds a Value can hold.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value wraps an arbitrary decoded JSON value. Numbers are held as
// json.Number so integer codes survive a round trip untouched.
type Value struct {
	raw interface{}
}

// NewValue wraps a decoded JSON value.
func NewValue(raw interface{}) Value {
	return Value{raw: raw}
}

// Kind reports which JSON type the value holds.
func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, int, int64, float64:
		return KindNumber
	case string:
		return KindString
	case []interface{}, []string:
		return KindArray
	case map[string]interface{}:
		return KindObject
	default:
		return KindNull
	}
}

// AsObject returns the members of an object value.
func (v Value) AsObject() (map[string]Value, error) {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil, NewFormatError("expected object, got %s", v.Kind())
	}

	out := make(map[string]Value, len(m))
	for k, raw := range m {
		out[k] = Value{raw: raw}
	}
	return out, nil
}

// AsInt returns the value as an integer. Only integral numbers qualify:
// 1.0, "1" and true are all rejected.
func (v Value) AsInt() (int64, error) {
	switch n := v.raw.(type) {
	case json.Number:
		i, err := strconv.ParseInt(string(n), 10, 64)
		if err != nil {
			return 0, NewFormatError("expected int, got %s", n)
		}
		return i, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, NewFormatError("expected int, got %s", v.Kind())
	}
}

// AsSequence returns the elements of an array value.
func (v Value) AsSequence() ([]Value, error) {
	switch s := v.raw.(type) {
	case []interface{}:
		out := make([]Value, len(s))
		for i, raw := range s {
			out[i] = Value{raw: raw}
		}
		return out, nil
	case []string:
		out := make([]Value, len(s))
		for i, str := range s {
			out[i] = Value{raw: str}
		}
		return out, nil
	default:
		return nil, NewFormatError("expected list, got %s", v.Kind())
	}
}

// AsString returns the value as a string.
func (v Value) AsString() (string, error) {
	s, ok := v.raw.(string)
	if !ok {
		return "", NewFormatError("expected string, got %s", v.Kind())
	}
	return s, nil
}

// AsStrings returns an array value whose elements are all strings.
func (v Value) AsStrings() ([]string, error) {
	seq, err := v.AsSequence()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(seq))
	for i, elem := range seq {
		s, err := elem.AsString()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
