// Package record provides typed, total access to semi-structured configuration
// records.
//
// A record is the map[string]any shape produced by generic document decoders
// (encoding/json, YAML, TOML). Values inside a record are classified into a
// small set of kinds so that every extraction site states the shape it expects
// and receives an explicit "not present" answer instead of a panic or error.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Kind classifies a structured value.
type Kind int

const (
	// KindNull is a missing or explicit null value.
	KindNull Kind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is any integer or floating point value.
	KindNumber
	// KindString is a string value.
	KindString
	// KindArray is a sequence of values.
	KindArray
	// KindObject is a string-keyed mapping.
	KindObject
	// KindInvalid is a value that has no structured representation
	// (functions, channels, complex numbers, ...).
	KindInvalid
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
		return "invalid"
	}
}

// KindOf returns the kind of v.
// Typed maps with string keys and typed slices are classified by shape,
// so map[string]string is an object and []string is an array.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string, []byte:
		return KindString
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumber
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	}
	return KindInvalid
}

// String returns v as a string if it is string-typed.
func String(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

// Bool returns v as a bool if it is bool-typed.
// Strings such as "true" are not converted.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Number returns v as a float64 if it is numeric.
// Non-finite values are reported as not present.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Object returns v as a map[string]any if it is object-shaped.
// Typed maps with string keys are converted into a new map[string]any;
// map[string]any values are returned without copying.
func Object(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Array returns v as a []any if it is a sequence.
// []byte is treated as a string, not a sequence.
func Array(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && (rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Strings returns v as a []string if it is a sequence whose elements are all
// strings. A sequence with any non-string element is reported as not present.
func Strings(v any) ([]string, bool) {
	if s, ok := v.([]string); ok {
		return append([]string{}, s...), true
	}
	items, ok := Array(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := String(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// CloneMap creates a deep copy of a map[string]any, recursively copying
// nested maps and slices.
func CloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = Clone(v)
	}
	return dst
}

// Clone creates a deep copy of v. Maps and slices are copied recursively;
// scalars are returned as-is.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		dst := make([]any, len(val))
		for i, elem := range val {
			dst[i] = Clone(elem)
		}
		return dst
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

// Normalize converts decoder output into the canonical record shape:
// every object becomes map[string]any and every sequence becomes []any.
// Maps with non-string keys (as produced by some YAML documents) have their
// keys formatted with fmt.Sprint.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, string, float64, int, int64, json.Number:
		return val
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	}

	switch KindOf(v) {
	case KindObject:
		m, _ := Object(v)
		return Normalize(m)
	case KindArray:
		s, _ := Array(v)
		return Normalize(s)
	}
	return v
}
