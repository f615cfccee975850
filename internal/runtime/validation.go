package runtime

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json"
)

// Path identifies where inside a value a check happened. Segments are
// property names, array indices, parameter names, or the literal "return".
// A failing union is recorded at the union's own path; no branch index is
// appended.
type Path []any

// child returns a new path with seg appended. The receiver is never aliased,
// so sibling checks can extend the same parent path independently.
func (p Path) child(seg any) Path {
	return append(p[:len(p):len(p)], seg)
}

// String renders the path in source notation: input.kids[0].name.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("input")
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			if isIdentifier(s) {
				sb.WriteString(".")
				sb.WriteString(s)
			} else {
				fmt.Fprintf(&sb, "[%q]", s)
			}
		case int:
			fmt.Fprintf(&sb, "[%d]", s)
		default:
			fmt.Fprintf(&sb, "[%v]", s)
		}
	}
	return sb.String()
}

// isIdentifier reports whether s can be used in dot notation. Names with
// spaces, hyphens, or a leading digit must use bracket notation instead.
func isIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
		if i == 0 {
			if !alpha {
				return false
			}
		} else if !alpha && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// ErrorRecord is a single structural mismatch.
type ErrorRecord struct {
	Path     Path
	Expected Type
	Actual   any
}

// Message renders the record for display.
func (e ErrorRecord) Message() string {
	return fmt.Sprintf("%s must be %s, got %s", e.Path, e.Expected, describeValue(e.Actual))
}

// JSON returns a marshal-ready form of the record.
func (e ErrorRecord) JSON() any {
	return map[string]any{
		"path":     e.Path.String(),
		"expected": e.Expected.JSON(),
		"actual":   valueKind(e.Actual),
	}
}

// visitKey guards against cyclic values: a (descriptor, container) pair that
// is already being checked further up the current check is not entered
// again. leave releases the pair once its check is done.
type visitKey struct {
	t   Type
	ptr uintptr
}

// Validation accumulates error records during a check.
type Validation struct {
	context *TypeContext
	errors  []ErrorRecord
	visited map[visitKey]bool
}

// NewValidation creates an empty validation owned by ctx.
func NewValidation(ctx *TypeContext) *Validation {
	return &Validation{context: ctx}
}

// AddError appends a mismatch record.
func (v *Validation) AddError(path Path, expected Type, actual any) {
	v.errors = append(v.errors, ErrorRecord{Path: path, Expected: expected, Actual: actual})
}

// HasErrors reports whether any record was collected.
func (v *Validation) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the collected records in visitation order.
func (v *Validation) Errors() []ErrorRecord {
	return v.errors
}

// enter marks the (descriptor, container) pair as being checked and reports
// whether it was already entered. Only container values (objects, arrays)
// participate; primitives cannot form cycles.
func (v *Validation) enter(t Type, value any) bool {
	var ptr uintptr
	switch value.(type) {
	case map[string]any, []any, FrozenArray:
		ptr = reflect.ValueOf(value).Pointer()
	default:
		return false
	}
	key := visitKey{t: t, ptr: ptr}
	if v.visited[key] {
		return true
	}
	if v.visited == nil {
		v.visited = make(map[visitKey]bool)
	}
	v.visited[key] = true
	return false
}

// leave unmarks a pair entered with enter.
func (v *Validation) leave(t Type, value any) {
	switch value.(type) {
	case map[string]any, []any, FrozenArray:
		delete(v.visited, visitKey{t: t, ptr: reflect.ValueOf(value).Pointer()})
	}
}

// Report marshals the collected records as JSON.
func (v *Validation) Report() ([]byte, error) {
	records := make([]any, len(v.errors))
	for i, e := range v.errors {
		records[i] = e.JSON()
	}
	return json.Marshal(records)
}

// String renders all records, one per line.
func (v *Validation) String() string {
	var sb strings.Builder
	for i, e := range v.errors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Message())
	}
	return sb.String()
}

// Failure is the error raised in assert mode. It aggregates every record
// collected during the failed check.
type Failure struct {
	Errors []ErrorRecord
}

// Error implements error.
func (f *Failure) Error() string {
	if len(f.Errors) == 1 {
		return "runtype: " + f.Errors[0].Message()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "runtype: %d validation errors:", len(f.Errors))
	for _, e := range f.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(e.Message())
	}
	return sb.String()
}
