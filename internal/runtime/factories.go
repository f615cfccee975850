package runtime

import "fmt"

// Factory methods. Emitted code constructs every descriptor through these;
// each returns a descriptor owned by the receiver context.

// Any returns the any type.
func (c *TypeContext) Any() Type { return &AnyType{base{c}} }

// Mixed returns the mixed type.
func (c *TypeContext) Mixed() Type { return &MixedType{base{c}} }

// Existential returns the `*` placeholder type.
func (c *TypeContext) Existential() Type { return &ExistentialType{base{c}} }

// Empty returns the type that accepts nothing.
func (c *TypeContext) Empty() Type { return &EmptyType{base{c}} }

// Void returns the undefined type.
func (c *TypeContext) Void() Type { return &VoidType{base{c}} }

// Null returns the null type.
func (c *TypeContext) Null() Type { return &NullLiteralType{base{c}} }

// Number returns the number type, or a numeric literal type when a literal
// value is given.
func (c *TypeContext) Number(literal ...float64) Type {
	if len(literal) > 0 {
		return &NumericLiteralType{base: base{c}, Value: literal[0]}
	}
	return &NumberType{base{c}}
}

// String returns the string type, or a string literal type.
func (c *TypeContext) String(literal ...string) Type {
	if len(literal) > 0 {
		return &StringLiteralType{base: base{c}, Value: literal[0]}
	}
	return &StringType{base{c}}
}

// Boolean returns the boolean type, or a boolean literal type.
func (c *TypeContext) Boolean(literal ...bool) Type {
	if len(literal) > 0 {
		return &BooleanLiteralType{base: base{c}, Value: literal[0]}
	}
	return &BooleanType{base{c}}
}

// Symbol returns the symbol type, or a single-symbol literal type.
func (c *TypeContext) Symbol(literal ...*Symbol) Type {
	if len(literal) > 0 {
		return &SymbolLiteralType{base: base{c}, Value: literal[0]}
	}
	return &SymbolType{base{c}}
}

// Nullable wraps a type to additionally accept null and undefined.
func (c *TypeContext) Nullable(of Type) Type {
	return &NullableType{base: base{c}, Of: of}
}

// Array returns an array type; without an element type, elements are
// unchecked.
func (c *TypeContext) Array(elementType ...Type) *ArrayType {
	elem := Type(nil)
	if len(elementType) > 0 {
		elem = elementType[0]
	}
	if elem == nil {
		elem = c.Any()
	}
	return &ArrayType{base: base{c}, ElementType: elem}
}

// Tuple returns a fixed-position sequence type.
func (c *TypeContext) Tuple(elements ...Type) *TupleType {
	return &TupleType{base: base{c}, Elements: elements}
}

// Union returns the union of the given members, tried in declared order.
func (c *TypeContext) Union(members ...Type) *UnionType {
	return &UnionType{base: base{c}, Members: members}
}

// Intersection returns the intersection of the given members.
func (c *TypeContext) Intersection(members ...Type) *IntersectionType {
	return &IntersectionType{base: base{c}, Members: members}
}

// Intersect is Intersection under the name the converter emits.
func (c *TypeContext) Intersect(members ...Type) *IntersectionType {
	return c.Intersection(members...)
}

// Object assembles an object shape from properties, indexers and call
// properties.
func (c *TypeContext) Object(members ...any) *ObjectType {
	obj := &ObjectType{base: base{c}}
	for _, m := range members {
		switch member := m.(type) {
		case *ObjectTypeProperty:
			obj.Properties = append(obj.Properties, member)
		case *ObjectTypeIndexer:
			obj.Indexers = append(obj.Indexers, member)
		case *ObjectTypeCallProperty:
			obj.CallProperties = append(obj.CallProperties, member)
		case nil:
		default:
			panic(fmt.Sprintf("runtype: invalid object member %T", m))
		}
	}
	return obj
}

// ExactObject is Object with the closed-world rule: no own keys beyond the
// declared members.
func (c *TypeContext) ExactObject(members ...any) *ObjectType {
	obj := c.Object(members...)
	obj.Exact = true
	return obj
}

// Property declares a named object member.
func (c *TypeContext) Property(key string, value Type, optional ...bool) *ObjectTypeProperty {
	p := &ObjectTypeProperty{Key: key, Value: value}
	if len(optional) > 0 {
		p.Optional = optional[0]
	}
	return p
}

// StaticProperty declares a static class member.
func (c *TypeContext) StaticProperty(key string, value Type, optional ...bool) *ObjectTypeProperty {
	p := c.Property(key, value, optional...)
	p.Static = true
	return p
}

// Method declares a method member; value should be a function type.
func (c *TypeContext) Method(key string, value Type) *ObjectTypeProperty {
	return c.Property(key, value)
}

// StaticMethod declares a static method member.
func (c *TypeContext) StaticMethod(key string, value Type) *ObjectTypeProperty {
	return c.StaticProperty(key, value)
}

// Indexer declares an index signature member.
func (c *TypeContext) Indexer(id string, key Type, value Type) *ObjectTypeIndexer {
	return &ObjectTypeIndexer{ID: id, Key: key, Value: value}
}

// CallProperty declares that the shape itself is callable.
func (c *TypeContext) CallProperty(value Type, static ...bool) *ObjectTypeCallProperty {
	cp := &ObjectTypeCallProperty{Value: value}
	if len(static) > 0 {
		cp.Static = static[0]
	}
	return cp
}

// Function assembles a function signature from params, an optional rest
// param and an optional return type, or from a body creator when the
// signature declares its own type parameters.
func (c *TypeContext) Function(members ...any) *FunctionType {
	fn := &FunctionType{base: base{c}}
	if len(members) == 1 {
		if creator, ok := members[0].(FunctionBodyCreator); ok {
			fn.creator = creator
			return fn
		}
		if creator, ok := members[0].(func(fn *FunctionType) []any); ok {
			fn.creator = creator
			return fn
		}
	}
	fn.addMembers(members)
	return fn
}

// Param declares a function parameter.
func (c *TypeContext) Param(name string, t Type, optional ...bool) *FunctionTypeParam {
	p := &FunctionTypeParam{Name: name, Type: t}
	if len(optional) > 0 {
		p.Optional = optional[0]
	}
	return p
}

// Rest declares a rest parameter.
func (c *TypeContext) Rest(name string, t Type) *FunctionTypeRestParam {
	return &FunctionTypeRestParam{Name: name, Type: t}
}

// Return declares a function return type.
func (c *TypeContext) Return(t Type) *FunctionTypeReturn {
	return &FunctionTypeReturn{Type: t}
}

// TypeParameter creates a free-standing type parameter.
func (c *TypeContext) TypeParameter(id string, bound ...Type) *TypeParameter {
	p := &TypeParameter{base: base{c}, ID: id}
	if len(bound) > 0 {
		p.Bound = bound[0]
	}
	return p
}

// FlowInto wraps a type parameter for a flowable position, letting observed
// values widen the parameter. Non-parameter types pass through unchanged.
func (c *TypeContext) FlowInto(t Type) Type {
	switch p := t.(type) {
	case *TypeParameter:
		return &FlowIntoType{base: base{c}, Parameter: p}
	case *FlowIntoType:
		return p
	default:
		return t
	}
}

// Type declares a named alias. The body is a Type for plain aliases, or a
// TypeCreator for self-referential or parameterized ones.
func (c *TypeContext) Type(name string, body any) *TypeAlias {
	alias := &TypeAlias{base: base{c}, Name: name}
	switch b := body.(type) {
	case TypeCreator:
		alias.creator = b
	case func(self TypeHandle) Type:
		alias.creator = b
	case Type:
		alias.aliased = b
	default:
		panic(fmt.Sprintf("runtype: invalid alias body %T", body))
	}
	return alias
}

// Class declares a class shape. Members are properties, methods, indexers,
// call properties and extends clauses, or a single body creator for
// parameterized or self-referential classes.
func (c *TypeContext) Class(name string, members ...any) *ClassType {
	cls := &ClassType{base: base{c}, Name: name}
	if len(members) == 1 {
		if creator, ok := members[0].(ClassBodyCreator); ok {
			cls.creator = creator
			return cls
		}
		if creator, ok := members[0].(func(self TypeHandle) []any); ok {
			cls.creator = creator
			return cls
		}
	}
	cls.addMembers(members)
	return cls
}

// Extends declares a super type by reference or by name.
func (c *TypeContext) Extends(subject any, instances ...Type) *ExtendsClause {
	return &ExtendsClause{Type: c.Ref(subject, instances...)}
}

// Ref is a lazy reference to a type: by registered name for late binding,
// or to a direct descriptor, optionally applied to type instances.
func (c *TypeContext) Ref(subject any, instances ...Type) Type {
	switch s := subject.(type) {
	case string:
		return &TypeReference{base: base{c}, Name: s, TypeInstances: instances}
	case Type:
		if len(instances) == 0 {
			return s
		}
		return &TypeReference{base: base{c}, Subject: s, TypeInstances: instances}
	default:
		panic(fmt.Sprintf("runtype: invalid ref subject %T", subject))
	}
}

// Box defers construction of a type until first use, breaking recursion
// between mutually referring declarations.
func (c *TypeContext) Box(thunk func() Type) *TypeBox {
	return &TypeBox{base: base{c}, thunk: thunk}
}

// Nominal returns a predicate-backed nominal type.
func (c *TypeContext) Nominal(name string, instances ...Type) *NominalType {
	return &NominalType{base: base{c}, Name: name, TypeInstances: instances}
}

// Module declares a named module whose body registers into a child context.
func (c *TypeContext) Module(name string, body func(inner *TypeContext)) *ModuleDeclaration {
	inner := c.Child()
	mod := &ModuleDeclaration{base: base{c}, Name: name, Inner: inner}
	inner.module = mod
	if body != nil {
		body(inner)
	}
	return mod
}

// ModuleExports records the export type of the module this context belongs
// to (declare module.exports). Calling it outside a module body is a
// configuration error.
func (c *TypeContext) ModuleExports(exports Type) Type {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.module != nil {
			ctx.module.SetExports(exports)
			return exports
		}
	}
	panic("runtype: ModuleExports called outside a module body")
}
