package variable

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the value type of a variable.
type Kind string

// Variable kinds.
const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	}
	return false
}

// Label returns the capitalised kind name used in status strings ("Boolean required").
func (k Kind) Label() string {
	switch k {
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	}
	return string(k)
}

// Variable is a typed live value.
// Value holds bool, int64, float64 or string according to Kind.
type Variable struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bool returns the value of a bool variable.
func (v Variable) Bool() (bool, bool) {
	b, ok := v.Value.(bool)
	return b, ok
}

// Int returns the value of an int variable, or a float variable truncated.
func (v Variable) Int() (int64, bool) {
	switch n := v.Value.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// Float returns the value of a numeric variable.
func (v Variable) Float() (float64, bool) {
	switch n := v.Value.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Reader reads variables.
type Reader interface {
	// Get returns the variable. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (Variable, error)
}

// Store reads and writes variables.
type Store interface {
	Reader

	// Set coerces value to the variable's kind and stores it.
	// Returns ErrNotFound or ErrTypeMismatch.
	Set(ctx context.Context, id string, value any) error
}

// Coerce converts value to the Go representation of kind.
//
// Accepted inputs are Go numbers, json.Number, bool and string. Numbers are
// never converted to bool or string and non-integral numbers are never
// converted to int.
func Coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindInt:
		switch n := value.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
		if f, ok := number(value); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), nil
		}
	case KindFloat:
		if f, ok := number(value); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil, fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, value, kind)
}

// number extracts a float from any numeric input.
func number(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// encodeValue serialises a coerced value for storage.
func encodeValue(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encoding value: %w", err)
	}
	return string(data), nil
}

// decodeValue parses a stored value of kind.
func decodeValue(kind Kind, raw string) (any, error) {
	if kind == KindInt {
		// Keep full int64 precision.
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return Coerce(kind, v)
}
