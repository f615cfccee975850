package runtime

import (
	"fmt"
	"strings"
)

// ExtendsClause names a super type whose structural body an instance must
// also satisfy.
type ExtendsClause struct {
	Type Type
}

func (e *ExtendsClause) String() string { return "extends " + e.Type.String() }
func (e *ExtendsClause) JSON() any      { return e.Type.JSON() }

// ClassBodyCreator builds the members of a parameterized or self-referential
// class shape.
type ClassBodyCreator func(self TypeHandle) []any

// ClassType is a class shape: a nominal name plus a structural body.
// The name check consults the context's predicate registry; when the host
// has not registered a predicate for the name, membership is structural
// only.
type ClassType struct {
	base
	Name           string
	TypeParameters []*TypeParameter
	Body           *ObjectType
	Supers         []Type
	creator        ClassBodyCreator
	built          bool
	resolving      bool
}

func (t *ClassType) TypeName() string            { return "ClassType" }
func (t *ClassType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *ClassType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *ClassType) Unwrap() Type                { t.resolve(); return t }

// TypeParameter declares a class-scoped type parameter.
func (t *ClassType) TypeParameter(id string, bound ...Type) *TypeParameter {
	p := &TypeParameter{base: base{t.context}, ID: id}
	if len(bound) > 0 {
		p.Bound = bound[0]
	}
	t.TypeParameters = append(t.TypeParameters, p)
	return p
}

// resolve runs the body creator once and sorts members into slots. The
// creator is retained so Apply can re-run it with fresh parameters.
func (t *ClassType) resolve() {
	if t.creator == nil || t.built || t.resolving {
		return
	}
	t.resolving = true
	t.addMembers(t.creator(t))
	t.built = true
	t.resolving = false
}

func (t *ClassType) addMembers(members []any) {
	if t.Body == nil {
		t.Body = &ObjectType{base: base{t.context}}
	}
	for _, m := range members {
		switch member := m.(type) {
		case *ObjectTypeProperty:
			t.Body.Properties = append(t.Body.Properties, member)
		case *ObjectTypeIndexer:
			t.Body.Indexers = append(t.Body.Indexers, member)
		case *ObjectTypeCallProperty:
			t.Body.CallProperties = append(t.Body.CallProperties, member)
		case *ExtendsClause:
			t.Supers = append(t.Supers, member.Type)
		case nil:
		default:
			panic(fmt.Sprintf("runtype: invalid class member %T", m))
		}
	}
}

// Apply materializes the class for concrete type instances, cloning its
// parameters so independent instantiations never share recordings.
func (t *ClassType) Apply(instances ...Type) Type {
	p := &PartialType{base: base{t.context}, Name: t.Name, TypeInstances: instances}
	if t.creator != nil {
		creator := t.creator
		p.creator = func(self TypeHandle) Type {
			clone := &ClassType{base: base{t.context}, Name: t.Name}
			clone.addMembers(creator(partialClassHandle{clone, self.(*PartialType)}))
			return clone
		}
	} else {
		p.inner = t
	}
	p.bindEagerly()
	return p
}

// partialClassHandle routes type-parameter declarations made during a class
// body re-run to the owning partial, while self-references resolve to the
// cloned class.
type partialClassHandle struct {
	*ClassType
	partial *PartialType
}

func (h partialClassHandle) TypeParameter(id string, bound ...Type) *TypeParameter {
	return h.partial.TypeParameter(id, bound...)
}

func (t *ClassType) String() string {
	if len(t.TypeParameters) == 0 {
		return t.Name
	}
	ids := make([]string, len(t.TypeParameters))
	for i, p := range t.TypeParameters {
		ids[i] = p.String()
	}
	return t.Name + "<" + strings.Join(ids, ", ") + ">"
}

func (t *ClassType) JSON() any {
	t.resolve()
	out := map[string]any{"kind": "class", "name": t.Name}
	if t.resolving {
		// A self-reference inside the body renders by name only.
		return out
	}
	t.resolving = true
	defer func() { t.resolving = false }()
	if t.Body != nil {
		out["body"] = t.Body.JSON()
	}
	if len(t.Supers) > 0 {
		supers := make([]any, len(t.Supers))
		for i, s := range t.Supers {
			supers[i] = s.JSON()
		}
		out["supers"] = supers
	}
	return out
}

func (t *ClassType) CollectErrors(val *Validation, path Path, v any) bool {
	t.resolve()
	if pred := t.context.LookupPredicate(t.Name); pred != nil && !pred(v) {
		val.AddError(path, t, v)
		return true
	}
	failed := false
	for _, super := range t.Supers {
		if structuralBody(super).CollectErrors(val, path, v) {
			failed = true
		}
	}
	if t.Body != nil {
		if t.Body.CollectErrors(val, path, v) {
			failed = true
		}
	}
	return failed
}

// structuralBody strips exactness from a super's shape: subclass instances
// legitimately carry more keys than the base declares.
func structuralBody(t Type) Type {
	u := deepUnwrap(t)
	if obj, ok := u.(*ObjectType); ok && obj.Exact {
		return &ObjectType{
			base:           obj.base,
			Properties:     obj.Properties,
			Indexers:       obj.Indexers,
			CallProperties: obj.CallProperties,
		}
	}
	return u
}

// ModuleDeclaration scopes a set of declared names to a named module. The
// body runs against a child context so module names shadow instead of
// colliding.
type ModuleDeclaration struct {
	base
	Name    string
	Inner   *TypeContext
	exports Type
}

func (t *ModuleDeclaration) TypeName() string            { return "ModuleDeclaration" }
func (t *ModuleDeclaration) Accepts(v any) bool          { return t.exportsType().Accepts(v) }
func (t *ModuleDeclaration) AcceptsType(other Type) bool { return t.exportsType().AcceptsType(other) }
func (t *ModuleDeclaration) Unwrap() Type                { return t.exportsType() }
func (t *ModuleDeclaration) String() string              { return fmt.Sprintf("module %q", t.Name) }
func (t *ModuleDeclaration) JSON() any {
	return map[string]any{"kind": "module", "name": t.Name}
}
func (t *ModuleDeclaration) CollectErrors(val *Validation, path Path, v any) bool {
	return t.exportsType().CollectErrors(val, path, v)
}

// exportsType returns the declared module exports, or any.
func (t *ModuleDeclaration) exportsType() Type {
	if t.exports == nil {
		return t.context.Any()
	}
	return t.exports
}

// SetExports records the module's export type (declare module.exports).
func (t *ModuleDeclaration) SetExports(exports Type) {
	t.exports = exports
}
