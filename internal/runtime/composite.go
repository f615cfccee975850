package runtime

import (
	"fmt"
	"strings"
)

// NullableType accepts null, undefined, or a conforming value.
type NullableType struct {
	base
	Of Type
}

func (t *NullableType) TypeName() string { return "NullableType" }
func (t *NullableType) Accepts(v any) bool {
	return IsNullish(v) || t.Of.Accepts(v)
}
func (t *NullableType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *NullableType) Unwrap() Type                { return t }
func (t *NullableType) String() string              { return "?" + t.Of.String() }
func (t *NullableType) JSON() any {
	return map[string]any{"kind": "nullable", "of": t.Of.JSON()}
}
func (t *NullableType) CollectErrors(val *Validation, path Path, v any) bool {
	if IsNullish(v) {
		return false
	}
	return t.Of.CollectErrors(val, path, v)
}

// ArrayType accepts sequences whose every element conforms.
type ArrayType struct {
	base
	ElementType Type
}

func (t *ArrayType) TypeName() string            { return "ArrayType" }
func (t *ArrayType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *ArrayType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *ArrayType) Unwrap() Type                { return t }
func (t *ArrayType) String() string {
	return fmt.Sprintf("Array<%s>", t.ElementType)
}
func (t *ArrayType) JSON() any {
	return map[string]any{"kind": "array", "elementType": t.ElementType.JSON()}
}
func (t *ArrayType) CollectErrors(val *Validation, path Path, v any) bool {
	elems, ok := sequenceOf(v)
	if !ok {
		val.AddError(path, t, v)
		return true
	}
	if val.enter(t, v) {
		return false
	}
	defer val.leave(t, v)
	failed := false
	for i, elem := range elems {
		if t.ElementType.CollectErrors(val, path.child(i), elem) {
			failed = true
		}
	}
	return failed
}

// TupleType accepts sequences at least as long as the tuple whose leading
// positions conform element-wise.
type TupleType struct {
	base
	Elements []Type
}

func (t *TupleType) TypeName() string            { return "TupleType" }
func (t *TupleType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *TupleType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *TupleType) Unwrap() Type                { return t }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *TupleType) JSON() any {
	elems := make([]any, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.JSON()
	}
	return map[string]any{"kind": "tuple", "elements": elems}
}
func (t *TupleType) CollectErrors(val *Validation, path Path, v any) bool {
	elems, ok := sequenceOf(v)
	if !ok || len(elems) < len(t.Elements) {
		val.AddError(path, t, v)
		return true
	}
	if val.enter(t, v) {
		return false
	}
	defer val.leave(t, v)
	failed := false
	for i, elemType := range t.Elements {
		if elemType.CollectErrors(val, path.child(i), elems[i]) {
			failed = true
		}
	}
	return failed
}

// UnionType accepts a value accepted by any member. Members are tried in
// declared order and the first match wins; error records of losing branches
// are discarded. A type parameter recorded inside a branch that ultimately
// fails is not rolled back.
type UnionType struct {
	base
	Members []Type
}

func (t *UnionType) TypeName() string            { return "UnionType" }
func (t *UnionType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *UnionType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *UnionType) Unwrap() Type                { return t }
func (t *UnionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (t *UnionType) JSON() any {
	members := make([]any, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.JSON()
	}
	return map[string]any{"kind": "union", "members": members}
}
func (t *UnionType) CollectErrors(val *Validation, path Path, v any) bool {
	for _, m := range t.Members {
		if m.Accepts(v) {
			return false
		}
	}
	val.AddError(path, t, v)
	return true
}

// IntersectionType accepts a value accepted by every member. The value must
// independently satisfy each member; object shapes are not merged. The first
// failing member stops the check.
type IntersectionType struct {
	base
	Members []Type
}

func (t *IntersectionType) TypeName() string            { return "IntersectionType" }
func (t *IntersectionType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *IntersectionType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *IntersectionType) Unwrap() Type                { return t }
func (t *IntersectionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}
func (t *IntersectionType) JSON() any {
	members := make([]any, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.JSON()
	}
	return map[string]any{"kind": "intersection", "members": members}
}
func (t *IntersectionType) CollectErrors(val *Validation, path Path, v any) bool {
	for _, m := range t.Members {
		if m.CollectErrors(val, path, v) {
			return true
		}
	}
	return false
}
