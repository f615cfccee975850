package runtime

// TypeParameter is a named placeholder for an unknown type. It is
// monomorphized by its first observed value, or constrained up front by a
// bound (set at declaration or by application).
//
// recorded is write-once per activation: once a shape has been observed,
// later values must conform to it. FlowIntoType is the only writer allowed
// to widen it afterwards.
type TypeParameter struct {
	base
	ID       string
	Bound    Type
	recorded Type
}

func (t *TypeParameter) TypeName() string            { return "TypeParameter" }
func (t *TypeParameter) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *TypeParameter) AcceptsType(other Type) bool { return acceptsType(t, other) }

// Recorded returns the inferred shape observed so far, or nil.
func (t *TypeParameter) Recorded() Type { return t.recorded }

// Unwrap resolves the parameter to its current concrete stand-in: the
// recorded shape, then the bound, then the parameter itself.
func (t *TypeParameter) Unwrap() Type {
	if t.recorded != nil {
		return t.recorded
	}
	if t.Bound != nil {
		return t.Bound
	}
	return t
}

func (t *TypeParameter) String() string {
	if t.Bound != nil {
		return t.ID + ": " + t.Bound.String()
	}
	return t.ID
}

func (t *TypeParameter) JSON() any {
	out := map[string]any{"kind": "typeParameter", "id": t.ID}
	if t.Bound != nil {
		out["bound"] = t.Bound.JSON()
	}
	if t.recorded != nil {
		out["recorded"] = t.recorded.JSON()
	}
	return out
}

func (t *TypeParameter) CollectErrors(val *Validation, path Path, v any) bool {
	// A bound that is itself a flow wrapper means this parameter was bound
	// to an outer parameter instance; the outer one records.
	if flow, ok := t.Bound.(*FlowIntoType); ok {
		return flow.CollectErrors(val, path, v)
	}
	if t.recorded != nil {
		return t.recorded.CollectErrors(val, path, v)
	}
	if t.Bound != nil {
		if isAnyLike(t.Bound) {
			// Unconstrained in a way that carries no information; do
			// not record, so the parameter stays open.
			return false
		}
		if t.Bound.CollectErrors(val, path, v) {
			return true
		}
	}
	t.recorded = t.context.TypeOf(v)
	return false
}

// bind constrains the parameter for an application. A prior concrete bound
// composes as an intersection; any and existential are identity elements.
func (t *TypeParameter) bind(instance Type) {
	if instance == nil {
		return
	}
	if t.Bound == nil || isAnyLike(t.Bound) {
		t.Bound = instance
		return
	}
	t.Bound = &IntersectionType{base: base{t.context}, Members: []Type{t.Bound, instance}}
}

// isAnyLike reports whether a bound carries no constraint.
func isAnyLike(t Type) bool {
	if t == nil {
		return true
	}
	switch t.(type) {
	case *AnyType, *MixedType, *ExistentialType:
		return true
	}
	return false
}

// FlowIntoType wraps a type parameter at flowable positions (function
// parameters; the converter does not wrap class property annotations).
// Checks through the wrapper write the
// observed shape into the parameter, widening an existing recording into a
// normalized union. The recording is monotonic: it can only grow.
type FlowIntoType struct {
	base
	Parameter *TypeParameter
}

func (t *FlowIntoType) TypeName() string            { return "FlowIntoType" }
func (t *FlowIntoType) Accepts(v any) bool          { return acceptsImpl(t, v) }
func (t *FlowIntoType) AcceptsType(other Type) bool { return t.target().AcceptsType(other) }
func (t *FlowIntoType) Unwrap() Type                { return t.target().Unwrap() }
func (t *FlowIntoType) String() string              { return t.Parameter.ID }
func (t *FlowIntoType) JSON() any {
	return map[string]any{"kind": "flowInto", "parameter": t.Parameter.JSON()}
}

// target follows chained flow wrappers to the parameter that records.
func (t *FlowIntoType) target() *TypeParameter {
	param := t.Parameter
	for {
		flow, ok := param.Bound.(*FlowIntoType)
		if !ok {
			return param
		}
		param = flow.Parameter
	}
}

func (t *FlowIntoType) CollectErrors(val *Validation, path Path, v any) bool {
	param := t.target()
	if param.recorded != nil {
		if param.recorded.Accepts(v) {
			return false
		}
		if param.Bound != nil && !isAnyLike(param.Bound) && param.Bound.CollectErrors(val, path, v) {
			return true
		}
		param.recorded = normalizeUnion(t.context, param.recorded, t.context.TypeOf(v))
		return false
	}
	if param.Bound != nil && !isAnyLike(param.Bound) && param.Bound.CollectErrors(val, path, v) {
		return true
	}
	param.recorded = t.context.TypeOf(v)
	return false
}

// normalizeUnion widens existing into addition, collapsing duplicates and
// literals subsumed by their primitive.
func normalizeUnion(ctx *TypeContext, existing Type, addition Type) Type {
	var members []Type
	flatten := func(t Type) {
		if u, ok := t.(*UnionType); ok {
			members = append(members, u.Members...)
			return
		}
		members = append(members, t)
	}
	flatten(existing)
	flatten(addition)

	var kept []Type
	for _, m := range members {
		subsumed := false
		for _, other := range members {
			if other == m {
				continue
			}
			if literalSubsumes(other, m) {
				subsumed = true
				break
			}
		}
		if subsumed {
			continue
		}
		dup := false
		for _, k := range kept {
			if typesEquivalent(k, m) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, m)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &UnionType{base: base{ctx}, Members: kept}
}

// literalSubsumes reports whether wide is the primitive of the literal lit.
func literalSubsumes(wide Type, lit Type) bool {
	switch lit.(type) {
	case *NumericLiteralType:
		_, ok := wide.(*NumberType)
		return ok
	case *StringLiteralType:
		_, ok := wide.(*StringType)
		return ok
	case *BooleanLiteralType:
		_, ok := wide.(*BooleanType)
		return ok
	}
	return false
}

// typesEquivalent is a cheap structural equality used by union
// normalization. The printed form is canonical per variant.
func typesEquivalent(a, b Type) bool {
	return a.TypeName() == b.TypeName() && a.String() == b.String()
}
