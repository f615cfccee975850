package runtime

import (
	"fmt"
	"strings"
)

// TypeHandle is the view of a named or applied type passed to a TypeCreator:
// the handle is usable as the type itself (self-reference) and declares the
// type parameters scoped to it.
type TypeHandle interface {
	Type
	TypeParameter(id string, bound ...Type) *TypeParameter
}

// TypeCreator builds the body of a named type. Emitting self-referential
// aliases as creators is what makes `type Tree = {kids: Tree[]}` finite:
// construction stores the handle, dereferencing happens per check.
type TypeCreator func(self TypeHandle) Type

// TypeAlias is a named type. The body is either given directly or built
// lazily by a creator (required for self-reference and type parameters).
type TypeAlias struct {
	base
	Name           string
	TypeParameters []*TypeParameter
	aliased        Type
	creator        TypeCreator
	resolving      bool
}

func (t *TypeAlias) TypeName() string            { return "TypeAlias" }
func (t *TypeAlias) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *TypeAlias) AcceptsType(other Type) bool { return t.resolve().AcceptsType(other) }

// TypeParameter declares a type parameter scoped to this alias.
func (t *TypeAlias) TypeParameter(id string, bound ...Type) *TypeParameter {
	p := &TypeParameter{base: base{t.context}, ID: id}
	if len(bound) > 0 {
		p.Bound = bound[0]
	}
	t.TypeParameters = append(t.TypeParameters, p)
	return p
}

// resolve materializes the body on first use. The creator is retained so
// Apply can re-run it with fresh parameters.
func (t *TypeAlias) resolve() Type {
	if t.aliased == nil && t.creator != nil && !t.resolving {
		t.resolving = true
		t.aliased = t.creator(t)
		t.resolving = false
	}
	if t.aliased == nil {
		return t.context.Any()
	}
	return t.aliased
}

func (t *TypeAlias) Unwrap() Type { return t.resolve() }

func (t *TypeAlias) String() string {
	if len(t.TypeParameters) == 0 {
		return t.Name
	}
	ids := make([]string, len(t.TypeParameters))
	for i, p := range t.TypeParameters {
		ids[i] = p.String()
	}
	return t.Name + "<" + strings.Join(ids, ", ") + ">"
}

func (t *TypeAlias) JSON() any {
	out := map[string]any{"kind": "alias", "name": t.Name}
	if len(t.TypeParameters) > 0 {
		params := make([]any, len(t.TypeParameters))
		for i, p := range t.TypeParameters {
			params[i] = p.JSON()
		}
		out["typeParameters"] = params
	}
	return out
}

func (t *TypeAlias) CollectErrors(val *Validation, path Path, v any) bool {
	return t.resolve().CollectErrors(val, path, v)
}

// Apply materializes the alias for a set of type instances. Each application
// re-runs the creator so the cloned parameters never alias another
// application's state.
func (t *TypeAlias) Apply(instances ...Type) Type {
	p := &PartialType{base: base{t.context}, Name: t.Name, TypeInstances: instances}
	if t.creator != nil {
		p.creator = t.creator
	} else {
		p.inner = t.resolve()
	}
	p.bindEagerly()
	return p
}

// PartialType is a parameterized descriptor applied to concrete type
// instances. It owns freshly created parameters bound to those instances.
type PartialType struct {
	base
	Name           string
	TypeInstances  []Type
	TypeParameters []*TypeParameter
	inner          Type
	creator        TypeCreator
}

func (t *PartialType) TypeName() string            { return "PartialType" }
func (t *PartialType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *PartialType) AcceptsType(other Type) bool { return t.resolve().AcceptsType(other) }

// TypeParameter collects a freshly cloned parameter during creator re-run.
func (t *PartialType) TypeParameter(id string, bound ...Type) *TypeParameter {
	p := &TypeParameter{base: base{t.context}, ID: id}
	if len(bound) > 0 {
		p.Bound = bound[0]
	}
	t.TypeParameters = append(t.TypeParameters, p)
	return p
}

// bindEagerly resolves the body now so parameters exist to receive bounds.
func (t *PartialType) bindEagerly() {
	t.resolve()
	for i, inst := range t.TypeInstances {
		if i < len(t.TypeParameters) {
			t.TypeParameters[i].bind(inst)
		}
	}
}

func (t *PartialType) resolve() Type {
	if t.inner == nil && t.creator != nil {
		creator := t.creator
		t.creator = nil
		t.inner = creator(t)
	}
	if t.inner == nil {
		return t.context.Any()
	}
	return t.inner
}

func (t *PartialType) Unwrap() Type { return t.resolve() }

func (t *PartialType) String() string {
	if len(t.TypeInstances) == 0 {
		return t.Name
	}
	args := make([]string, len(t.TypeInstances))
	for i, inst := range t.TypeInstances {
		args[i] = inst.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *PartialType) JSON() any {
	args := make([]any, len(t.TypeInstances))
	for i, inst := range t.TypeInstances {
		args[i] = inst.JSON()
	}
	return map[string]any{"kind": "partial", "name": t.Name, "typeInstances": args}
}

func (t *PartialType) CollectErrors(val *Validation, path Path, v any) bool {
	return t.resolve().CollectErrors(val, path, v)
}

// TypeReference is a lazy lookup: by name against the context registry at
// check time, or against a direct subject, optionally applied to instances.
type TypeReference struct {
	base
	Name          string
	Subject       Type
	TypeInstances []Type
	resolved      Type
}

func (t *TypeReference) TypeName() string            { return "TypeReference" }
func (t *TypeReference) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *TypeReference) AcceptsType(other Type) bool { return t.resolveRef().AcceptsType(other) }
func (t *TypeReference) Unwrap() Type                { return t.resolveRef() }

// resolveRef resolves the reference target. Name lookups consult the type
// registry first, then the predicate registry for nominal types. An
// unresolved reference is a configuration error.
func (t *TypeReference) resolveRef() Type {
	if t.resolved != nil {
		return t.resolved
	}
	subject := t.Subject
	if subject == nil {
		subject = t.context.LookupType(t.Name)
	}
	if subject == nil && t.Name != "" {
		if t.context.LookupPredicate(t.Name) != nil {
			subject = &NominalType{base: base{t.context}, Name: t.Name}
		}
	}
	if subject == nil {
		panic(fmt.Sprintf("runtype: cannot resolve type reference %q", t.Name))
	}
	t.resolved = applyInstances(subject, t.TypeInstances)
	return t.resolved
}

// applyInstances applies type arguments to a parameterizable target.
func applyInstances(subject Type, instances []Type) Type {
	if len(instances) == 0 {
		return subject
	}
	switch s := subject.(type) {
	case *TypeAlias:
		return s.Apply(instances...)
	case *ClassType:
		return s.Apply(instances...)
	case *NominalType:
		return &NominalType{base: base{s.context}, Name: s.Name, TypeInstances: instances}
	default:
		return subject
	}
}

func (t *TypeReference) String() string {
	name := t.Name
	if name == "" && t.Subject != nil {
		name = t.Subject.String()
	}
	if len(t.TypeInstances) == 0 {
		return name
	}
	args := make([]string, len(t.TypeInstances))
	for i, inst := range t.TypeInstances {
		args[i] = inst.String()
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

func (t *TypeReference) JSON() any {
	return map[string]any{"kind": "ref", "name": t.Name}
}

func (t *TypeReference) CollectErrors(val *Validation, path Path, v any) bool {
	return t.resolveRef().CollectErrors(val, path, v)
}

// TypeBox defers construction of its inner type until first use, breaking
// construction-time recursion between declarations.
type TypeBox struct {
	base
	thunk    func() Type
	resolved Type
}

func (t *TypeBox) TypeName() string { return "TypeBox" }
func (t *TypeBox) resolve() Type {
	if t.resolved == nil {
		t.resolved = t.thunk()
	}
	return t.resolved
}
func (t *TypeBox) Accepts(v any) bool          { return t.resolve().Accepts(v) }
func (t *TypeBox) AcceptsType(other Type) bool { return t.resolve().AcceptsType(other) }
func (t *TypeBox) Unwrap() Type                { return t.resolve() }
func (t *TypeBox) String() string              { return t.resolve().String() }
func (t *TypeBox) JSON() any                   { return t.resolve().JSON() }
func (t *TypeBox) CollectErrors(val *Validation, path Path, v any) bool {
	return t.resolve().CollectErrors(val, path, v)
}

// NominalType checks membership through a registered predicate rather than
// structure. Array and $ReadOnlyArray additionally check elements against
// their first type instance.
type NominalType struct {
	base
	Name          string
	TypeInstances []Type
}

func (t *NominalType) TypeName() string            { return "NominalType" }
func (t *NominalType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *NominalType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *NominalType) Unwrap() Type                { return t }

func (t *NominalType) String() string {
	if len(t.TypeInstances) == 0 {
		return t.Name
	}
	args := make([]string, len(t.TypeInstances))
	for i, inst := range t.TypeInstances {
		args[i] = inst.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *NominalType) JSON() any {
	return map[string]any{"kind": "nominal", "name": t.Name}
}

func (t *NominalType) CollectErrors(val *Validation, path Path, v any) bool {
	pred := t.context.LookupPredicate(t.Name)
	if pred == nil {
		panic(fmt.Sprintf("runtype: no predicate registered for nominal type %q", t.Name))
	}
	if !pred(v) {
		val.AddError(path, t, v)
		return true
	}
	if (t.Name == "Array" || t.Name == "$ReadOnlyArray") && len(t.TypeInstances) > 0 {
		elemType := t.TypeInstances[0]
		if elems, ok := sequenceOf(v); ok {
			failed := false
			for i, elem := range elems {
				if elemType.CollectErrors(val, path.child(i), elem) {
					failed = true
				}
			}
			return failed
		}
	}
	return false
}
