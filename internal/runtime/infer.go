package runtime

// TypeOf infers a descriptor from a sample value's concrete shape. The
// inferred type accepts the sample by construction: typeOf(v).Accepts(v).
//
// Primitives infer their primitive type rather than a literal so that
// first-observation recording of type parameters stays usable: observing 1
// fixes a parameter to number, not to the literal 1.
func (c *TypeContext) TypeOf(v any) Type {
	if v == nil {
		return c.Null()
	}
	if IsUndefined(v) {
		return c.Void()
	}
	if _, ok := numberOf(v); ok {
		return c.Number()
	}
	switch val := v.(type) {
	case string:
		return c.String()
	case bool:
		return c.Boolean()
	case *Symbol:
		return c.Symbol()
	case []any:
		return c.Array(c.typeOfElements(val))
	case FrozenArray:
		return c.Array(c.typeOfElements(val))
	case map[string]any:
		var members []any
		for _, key := range sortedKeys(val) {
			members = append(members, c.Property(key, c.TypeOf(val[key])))
		}
		return c.Object(members...)
	}
	if isCallable(v) {
		return c.Function(c.Rest("args", c.Any()), c.Return(c.Existential()))
	}
	return c.Mixed()
}

// typeOfElements infers a shared element type for a sequence: the
// normalized union of the element shapes, or existential when empty.
func (c *TypeContext) typeOfElements(elems []any) Type {
	if len(elems) == 0 {
		return c.Existential()
	}
	result := c.TypeOf(elems[0])
	for _, elem := range elems[1:] {
		next := c.TypeOf(elem)
		if result.AcceptsType(next) {
			continue
		}
		result = normalizeUnion(c, result, next)
	}
	return result
}
