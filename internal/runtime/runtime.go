// Package runtime implements the type descriptor library: a tree of
// descriptor values that can check dynamic values at runtime. Descriptors are
// created through a TypeContext and answer three questions about a value —
// does it conform (Accepts), does another descriptor conform (AcceptsType),
// and what exactly failed and where (CollectErrors).
package runtime

import "github.com/go-json-experiment/json"

// Type is the interface implemented by every descriptor variant.
//
// The descriptor family is a closed set: each variant carries a stable
// TypeName tag used for cheap discrimination, and the four behaviours are
// grouped per variant rather than spread over a deep hierarchy.
type Type interface {
	// TypeName returns the stable tag for this variant, e.g. "ObjectType".
	TypeName() string

	// Context returns the owning context.
	Context() *TypeContext

	// Accepts reports whether the value structurally conforms.
	Accepts(v any) bool

	// AcceptsType reports whether every value accepted by other would also
	// be accepted by this descriptor.
	AcceptsType(other Type) bool

	// CollectErrors validates v, appending an error record for every
	// mismatch, and reports whether validation failed.
	CollectErrors(val *Validation, path Path, v any) bool

	// Unwrap resolves references, aliases, boxes and applied parameters to
	// the current concrete descriptor. Unwrap is idempotent.
	Unwrap() Type

	// String returns the source-level form of the type, e.g.
	// "{ id: string | number }". Informational only.
	String() string

	// JSON returns a marshal-ready tree describing the descriptor.
	JSON() any
}

// base carries the context back-reference shared by all descriptor variants.
type base struct {
	context *TypeContext
}

// Context returns the owning context.
func (b *base) Context() *TypeContext {
	return b.context
}

// acceptsImpl implements Accepts in terms of CollectErrors so the two can
// never disagree: t.Accepts(v) ⇔ CollectErrors produces no records.
func acceptsImpl(t Type, v any) bool {
	val := NewValidation(t.Context())
	return !t.CollectErrors(val, nil, v)
}

// MarshalType marshals a descriptor's JSON tree.
func MarshalType(t Type) ([]byte, error) {
	return json.Marshal(t.JSON())
}

// deepUnwrap unwraps until the descriptor is its own unwrapped form.
// References and aliases resolve one layer per Unwrap call; checks always go
// through the fully resolved descriptor.
func deepUnwrap(t Type) Type {
	for {
		u := t.Unwrap()
		if u == t || u == nil {
			return t
		}
		t = u
	}
}
