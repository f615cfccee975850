package runtime

// acceptsType is the shared implementation behind AcceptsType: it reports
// whether every value accepted by other would also be accepted by receiver.
// The comparison is structural and deliberately permissive where the checked
// language is — open type parameters compare as any, and function parameter
// lists compare contravariantly but without arity strictness for optional
// tails.
func acceptsType(receiver Type, other Type) bool {
	if receiver == other {
		return true
	}
	a := deepUnwrap(receiver)
	b := deepUnwrap(other)
	if a == b {
		return true
	}

	switch a.(type) {
	case *AnyType, *MixedType, *ExistentialType:
		return true
	}
	switch bt := b.(type) {
	case *AnyType, *MixedType, *ExistentialType:
		// any flows everywhere in the checked language.
		return true
	case *TypeParameter:
		// Open parameter: no information, compatible.
		return true
	case *UnionType:
		for _, m := range bt.Members {
			if !acceptsType(a, m) {
				return false
			}
		}
		return len(bt.Members) > 0
	case *IntersectionType:
		for _, m := range bt.Members {
			if acceptsType(a, m) {
				return true
			}
		}
		return false
	}

	switch at := a.(type) {
	case *EmptyType:
		_, ok := b.(*EmptyType)
		return ok
	case *VoidType:
		_, ok := b.(*VoidType)
		return ok
	case *NullLiteralType:
		_, ok := b.(*NullLiteralType)
		return ok
	case *NumberType:
		switch b.(type) {
		case *NumberType, *NumericLiteralType:
			return true
		}
		return false
	case *NumericLiteralType:
		lit, ok := b.(*NumericLiteralType)
		return ok && lit.Value == at.Value
	case *StringType:
		switch b.(type) {
		case *StringType, *StringLiteralType:
			return true
		}
		return false
	case *StringLiteralType:
		lit, ok := b.(*StringLiteralType)
		return ok && lit.Value == at.Value
	case *BooleanType:
		switch b.(type) {
		case *BooleanType, *BooleanLiteralType:
			return true
		}
		return false
	case *BooleanLiteralType:
		lit, ok := b.(*BooleanLiteralType)
		return ok && lit.Value == at.Value
	case *SymbolType:
		switch b.(type) {
		case *SymbolType, *SymbolLiteralType:
			return true
		}
		return false
	case *SymbolLiteralType:
		lit, ok := b.(*SymbolLiteralType)
		return ok && lit.Value == at.Value
	case *NullableType:
		switch bt := b.(type) {
		case *NullableType:
			return acceptsType(at.Of, bt.Of)
		case *VoidType, *NullLiteralType:
			return true
		}
		return acceptsType(at.Of, b)
	case *ArrayType:
		switch bt := b.(type) {
		case *ArrayType:
			return acceptsType(at.ElementType, bt.ElementType)
		case *TupleType:
			for _, e := range bt.Elements {
				if !acceptsType(at.ElementType, e) {
					return false
				}
			}
			return true
		case *NominalType:
			if bt.Name == "Array" || bt.Name == "$ReadOnlyArray" {
				if len(bt.TypeInstances) > 0 {
					return acceptsType(at.ElementType, bt.TypeInstances[0])
				}
				return isAnyLike(at.ElementType)
			}
		}
		return false
	case *TupleType:
		bt, ok := b.(*TupleType)
		if !ok || len(bt.Elements) < len(at.Elements) {
			return false
		}
		for i, e := range at.Elements {
			if !acceptsType(e, bt.Elements[i]) {
				return false
			}
		}
		return true
	case *ObjectType:
		bt, ok := b.(*ObjectType)
		if !ok {
			if cls, isClass := b.(*ClassType); isClass && cls.Body != nil {
				bt = cls.Body
			} else {
				return false
			}
		}
		for _, p := range at.Properties {
			bp := bt.property(p.Key)
			if bp == nil {
				if !p.Optional {
					return false
				}
				continue
			}
			if !acceptsType(p.Value, bp.Value) {
				return false
			}
		}
		if at.Exact {
			for _, bp := range bt.Properties {
				if at.property(bp.Key) == nil {
					return false
				}
			}
		}
		return true
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		if !ok {
			return false
		}
		at.resolve()
		bt.resolve()
		for i, p := range at.Params {
			if i >= len(bt.Params) {
				break
			}
			// Parameters compare contravariantly.
			if !acceptsType(bt.Params[i].Type, p.Type) {
				return false
			}
		}
		if at.ReturnType != nil && bt.ReturnType != nil {
			return acceptsType(at.ReturnType.Type, bt.ReturnType.Type)
		}
		return true
	case *UnionType:
		for _, m := range at.Members {
			if acceptsType(m, b) {
				return true
			}
		}
		return false
	case *IntersectionType:
		for _, m := range at.Members {
			if !acceptsType(m, b) {
				return false
			}
		}
		return true
	case *TypeParameter:
		// Reached only when the parameter is still open.
		return true
	case *NominalType:
		switch bt := b.(type) {
		case *NominalType:
			return bt.Name == at.Name
		case *ArrayType:
			if at.Name == "Array" || at.Name == "$ReadOnlyArray" {
				if len(at.TypeInstances) > 0 {
					return acceptsType(at.TypeInstances[0], bt.ElementType)
				}
				return true
			}
		}
		return false
	case *ClassType:
		bt, ok := b.(*ClassType)
		if !ok {
			return false
		}
		if bt.Name == at.Name {
			return true
		}
		for _, super := range bt.Supers {
			if acceptsType(at, super) {
				return true
			}
		}
		return false
	}
	return false
}
