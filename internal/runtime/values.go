package runtime

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// The checked language is dynamically typed; its values are modelled with
// plain Go values:
//
//	null        → nil
//	undefined   → Undefined
//	number      → float64 (int and friends are widened on the way in)
//	string      → string
//	boolean     → bool
//	symbol      → *Symbol
//	array       → []any (FrozenArray for read-only arrays)
//	object      → map[string]any
//	callable    → any Go func value
//
// A missing object key reads as undefined.

// UndefinedValue is the type of the Undefined sentinel.
type UndefinedValue struct{}

// Undefined is the undefined value. It is distinct from nil, which models null.
var Undefined = UndefinedValue{}

// Symbol is an opaque, identity-compared symbol value.
type Symbol struct {
	Description string
}

// NewSymbol creates a fresh symbol. Two symbols are equal only if they are
// the same pointer, regardless of description.
func NewSymbol(description string) *Symbol {
	return &Symbol{Description: description}
}

// TypeParametersSymbol is the sentinel key under which emitted code stores
// per-instance class type parameters when no uid has been allocated for the
// class (untouched derived classes reach their base parameters through it).
var TypeParametersSymbol = NewSymbol("runtype.TypeParameters")

// FrozenArray is a sequence that the host has marked read-only.
type FrozenArray []any

// IsUndefined reports whether v is the undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// IsNullish reports whether v is null or undefined.
func IsNullish(v any) bool {
	return v == nil || IsUndefined(v)
}

// numberOf widens any Go numeric value to float64.
func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// sequenceOf returns the elements of v if it is an array value.
func sequenceOf(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case FrozenArray:
		return s, true
	}
	return nil, false
}

// objectOf returns the own properties of v if it is an object value.
func objectOf(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// isCallable reports whether v is a callable value.
func isCallable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// sortedKeys returns the own keys of an object in a stable order.
// Error paths and inferred object shapes rely on this determinism.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// valueKind names a value's runtime kind for error messages.
func valueKind(v any) string {
	if v == nil {
		return "null"
	}
	if IsUndefined(v) {
		return "undefined"
	}
	if _, ok := numberOf(v); ok {
		return "number"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case *Symbol:
		return "symbol"
	case []any, FrozenArray:
		return "array"
	case map[string]any:
		return "object"
	}
	if isCallable(v) {
		return "function"
	}
	return reflect.TypeOf(v).String()
}

// describeValue renders a value for error messages, shortened for composites.
func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case UndefinedValue:
		return "undefined"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case *Symbol:
		return fmt.Sprintf("Symbol(%s)", val.Description)
	case []any:
		return fmt.Sprintf("array of length %d", len(val))
	case FrozenArray:
		return fmt.Sprintf("read-only array of length %d", len(val))
	case map[string]any:
		return "object"
	}
	if n, ok := numberOf(v); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	if isCallable(v) {
		return "function"
	}
	return fmt.Sprintf("%v", v)
}
