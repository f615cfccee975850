package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/diagnostic"
)

// Emit converts one annotation node to a JavaScript expression.
type Emit func(cc *ConversionContext, node *ast.Node) string

// Convert dispatches a node through the context's handler table. Unknown
// kinds degrade to any with a diagnostic.
func Convert(cc *ConversionContext, node *ast.Node) string {
	if node == nil {
		return cc.Lib + ".any()"
	}
	if handler, ok := cc.Handlers[node.Kind]; ok {
		return handler(cc, node)
	}
	cc.Diags.Warn(diagnostic.CategoryAnnotationUnsupported, cc.File, 0,
		fmt.Sprintf("unsupported annotation kind %q, emitting any", node.Kind))
	return cc.Lib + ".any()"
}

// defaultHandlers builds the default kind → emitter table.
func defaultHandlers() map[string]Emit {
	return map[string]Emit{
		ast.KindAnyTypeAnnotation:     simple("any"),
		ast.KindMixedTypeAnnotation:   simple("mixed"),
		ast.KindEmptyTypeAnnotation:   simple("empty"),
		ast.KindVoidTypeAnnotation:    simple("void"),
		ast.KindNullLiteralTypeAnnotation: simple("null"),
		ast.KindNumberTypeAnnotation:  simple("number"),
		ast.KindStringTypeAnnotation:  simple("string"),
		ast.KindBooleanTypeAnnotation: simple("boolean"),
		ast.KindSymbolTypeAnnotation:  simple("symbol"),
		ast.KindExistsTypeAnnotation:  simple("existential"),

		ast.KindNumberLiteralTypeAnnotation:  convertNumberLiteral,
		ast.KindStringLiteralTypeAnnotation:  convertStringLiteral,
		ast.KindBooleanLiteralTypeAnnotation: convertBooleanLiteral,

		ast.KindThisTypeAnnotation: convertThis,

		ast.KindNullableTypeAnnotation:     convertNullable,
		ast.KindArrayTypeAnnotation:        convertArray,
		ast.KindTupleTypeAnnotation:        convertTuple,
		ast.KindUnionTypeAnnotation:        convertUnion,
		ast.KindIntersectionTypeAnnotation: convertIntersection,
		ast.KindGenericTypeAnnotation:      convertGeneric,
		ast.KindTypeofTypeAnnotation:       convertTypeof,
		ast.KindFunctionTypeAnnotation:     convertFunction,
		ast.KindObjectTypeAnnotation:       convertObject,
		ast.KindTypeAnnotation:             convertWrapper,
	}
}

// simple returns an emitter for a zero-argument factory call.
func simple(factory string) Emit {
	return func(cc *ConversionContext, node *ast.Node) string {
		return fmt.Sprintf("%s.%s()", cc.Lib, factory)
	}
}

// convertWrapper unwraps the TypeAnnotation holder node.
func convertWrapper(cc *ConversionContext, node *ast.Node) string {
	return Convert(cc, node.TypeAnnotation)
}

func convertNumberLiteral(cc *ConversionContext, node *ast.Node) string {
	n, ok := node.NumberValue()
	if !ok {
		return cc.Lib + ".number()"
	}
	return fmt.Sprintf("%s.number(%s)", cc.Lib, strconv.FormatFloat(n, 'g', -1, 64))
}

func convertStringLiteral(cc *ConversionContext, node *ast.Node) string {
	s, ok := node.StringValue()
	if !ok {
		return cc.Lib + ".string()"
	}
	return fmt.Sprintf("%s.string(%q)", cc.Lib, s)
}

func convertBooleanLiteral(cc *ConversionContext, node *ast.Node) string {
	b, ok := node.BoolValue()
	if !ok {
		return cc.Lib + ".boolean()"
	}
	return fmt.Sprintf("%s.boolean(%t)", cc.Lib, b)
}

// convertThis degrades: the checked value's own class is not knowable from
// the annotation alone.
func convertThis(cc *ConversionContext, node *ast.Node) string {
	cc.Diags.Warn(diagnostic.CategoryAnnotationUnsupported, cc.File, 0,
		"this type annotations degrade to any")
	return cc.Lib + ".any()"
}

func convertNullable(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.nullable(%s)", cc.Lib, Convert(cc, node.TypeAnnotation))
}

func convertArray(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.array(%s)", cc.Lib, Convert(cc, node.ElementType))
}

func convertTuple(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.tuple(%s)", cc.Lib, convertList(cc, node.Types))
}

func convertUnion(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.union(%s)", cc.Lib, convertList(cc, node.Types))
}

func convertIntersection(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.intersect(%s)", cc.Lib, convertList(cc, node.Types))
}

func convertList(cc *ConversionContext, nodes []*ast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = Convert(cc, n)
	}
	return strings.Join(parts, ", ")
}

// convertGeneric handles named type references: aliases, type parameters,
// class type parameters, and external names, plus the Array/Object/Function
// specializations.
func convertGeneric(cc *ConversionContext, node *ast.Node) string {
	id := node.ID
	if id == nil {
		return cc.Lib + ".any()"
	}
	if id.Kind == ast.KindQualifiedTypeIdentifier {
		return fmt.Sprintf("%s.ref(%q%s)", cc.Lib, qualifiedName(id), typeArgsSuffix(cc, node))
	}
	name := id.Name
	if cc.Suppressed[name] {
		return cc.Lib + ".any()"
	}

	switch cc.Classify(id) {
	case ClassifiedTypeAlias:
		if args := typeArguments(node); len(args) > 0 {
			return fmt.Sprintf("%s.ref(%s%s)", cc.Lib, name, typeArgsSuffix(cc, node))
		}
		return name

	case ClassifiedTypeParameter:
		if isFlowable(node) {
			return fmt.Sprintf("%s.flowInto(%s)", cc.Lib, name)
		}
		return name

	case ClassifiedClassTypeParameter:
		class := EnclosingClass(node)
		if class == nil {
			return fmt.Sprintf("this[%s.TypeParametersSymbol].%s", cc.Lib, name)
		}
		uids := cc.UIDsFor(class)
		if inStaticContext(node) {
			return fmt.Sprintf("%s.%s", uids.TypeParametersUid, name)
		}
		return fmt.Sprintf("(this[%s] || this[%s.TypeParametersSymbol]).%s",
			uids.TypeParametersSymbolUid, cc.Lib, name)

	default:
		switch name {
		case "Array":
			if args := typeArguments(node); len(args) == 1 {
				return fmt.Sprintf("%s.array(%s)", cc.Lib, Convert(cc, args[0]))
			}
			return cc.Lib + ".array()"
		case "Object":
			return cc.Lib + ".object()"
		case "Function":
			return cc.Lib + ".function()"
		}
		return fmt.Sprintf("%s.ref(%q%s)", cc.Lib, name, typeArgsSuffix(cc, node))
	}
}

// typeArguments returns the instantiation arguments of a generic reference.
func typeArguments(node *ast.Node) []*ast.Node {
	inst := node.TypeParameters
	if inst == nil {
		inst = node.TypeArguments
	}
	if inst == nil {
		return nil
	}
	return inst.Params
}

// typeArgsSuffix renders ", A, B" for a reference's type arguments.
func typeArgsSuffix(cc *ConversionContext, node *ast.Node) string {
	args := typeArguments(node)
	if len(args) == 0 {
		return ""
	}
	return ", " + convertList(cc, args)
}

// qualifiedName flattens a qualified identifier chain to "Foo.Bar".
func qualifiedName(id *ast.Node) string {
	if id.Kind == ast.KindQualifiedTypeIdentifier {
		return qualifiedName(id.Qualification) + "." + id.ID.Name
	}
	return id.Name
}

// convertTypeof emits typeOf over the value-level expression named by the
// annotation: the type-level chain Foo.Bar reads the value Foo.Bar.
func convertTypeof(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.typeOf(%s)", cc.Lib, AnnotationToValue(node.Argument))
}

// AnnotationToValue converts a type-level identifier chain back to its
// value-level expression.
func AnnotationToValue(node *ast.Node) string {
	if node == nil {
		return "undefined"
	}
	switch node.Kind {
	case ast.KindIdentifier:
		return node.Name
	case ast.KindQualifiedTypeIdentifier:
		return AnnotationToValue(node.Qualification) + "." + node.ID.Name
	case ast.KindGenericTypeAnnotation:
		return AnnotationToValue(node.ID)
	}
	return "undefined"
}

// convertFunction emits a function signature. Signatures with their own
// type parameters wrap the members in a body creator so the parameters are
// scoped to the signature.
func convertFunction(cc *ConversionContext, node *ast.Node) string {
	members := functionMembers(cc, node)
	if node.TypeParameters == nil || len(node.TypeParameters.Params) == 0 {
		return fmt.Sprintf("%s.function(%s)", cc.Lib, strings.Join(members, ", "))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s.function(fn => {\n", cc.Lib)
	for _, p := range node.TypeParameters.Params {
		if p.Bound != nil {
			fmt.Fprintf(&sb, "  const %s = fn.typeParameter(%q, %s);\n", p.Name, p.Name, Convert(cc, p.Bound))
		} else {
			fmt.Fprintf(&sb, "  const %s = fn.typeParameter(%q);\n", p.Name, p.Name)
		}
	}
	fmt.Fprintf(&sb, "  return [%s];\n})", strings.Join(members, ", "))
	return sb.String()
}

// functionMembers renders the param/rest/return members of a signature.
func functionMembers(cc *ConversionContext, node *ast.Node) []string {
	var members []string
	for i, p := range node.Params {
		name := p.Name
		if name == "" && p.ID != nil {
			name = p.ID.Name
		}
		if name == "" {
			name = fmt.Sprintf("_arg%d", i)
		}
		param := fmt.Sprintf("%s.param(%q, %s", cc.Lib, name, Convert(cc, p.TypeAnnotation))
		if p.Optional {
			param += ", true"
		}
		members = append(members, param+")")
	}
	if node.Rest != nil {
		name := node.Rest.Name
		if name == "" && node.Rest.ID != nil {
			name = node.Rest.ID.Name
		}
		members = append(members, fmt.Sprintf("%s.rest(%q, %s)", cc.Lib, name, Convert(cc, node.Rest.TypeAnnotation)))
	}
	if node.ReturnType != nil {
		members = append(members, fmt.Sprintf("%s.return(%s)", cc.Lib, Convert(cc, node.ReturnType)))
	}
	return members
}

// convertObject emits an object shape; exact shapes use exactObject.
func convertObject(cc *ConversionContext, node *ast.Node) string {
	factory := "object"
	if node.Exact {
		factory = "exactObject"
	}
	var members []string
	for _, p := range node.Properties {
		if p.Kind == ast.KindObjectTypeSpreadProperty {
			cc.Diags.Warn(diagnostic.CategoryAnnotationUnsupported, cc.File, 0,
				"object type spread properties are not supported and were skipped")
			continue
		}
		members = append(members, convertObjectProperty(cc, p))
	}
	for _, ix := range node.Indexers {
		id := "key"
		if ix.ID != nil {
			id = ix.ID.Name
		}
		members = append(members, fmt.Sprintf("%s.indexer(%q, %s, %s)",
			cc.Lib, id, Convert(cc, ix.Key), Convert(cc, ix.TypeAnnotation)))
	}
	for _, cp := range node.CallProperties {
		call := fmt.Sprintf("%s.callProperty(%s", cc.Lib, Convert(cc, cp.TypeAnnotation))
		if cp.Static {
			call += ", true"
		}
		members = append(members, call+")")
	}
	return fmt.Sprintf("%s.%s(%s)", cc.Lib, factory, strings.Join(members, ", "))
}

// convertObjectProperty renders one named member, choosing the
// property/method and static variants.
func convertObjectProperty(cc *ConversionContext, p *ast.Node) string {
	key := propertyKey(p.Key)
	isMethod := p.Method && p.TypeAnnotation != nil && p.TypeAnnotation.Kind == ast.KindFunctionTypeAnnotation
	factory := "property"
	if isMethod {
		factory = "method"
	}
	if p.Static {
		if isMethod {
			factory = "staticMethod"
		} else {
			factory = "staticProperty"
		}
	}
	out := fmt.Sprintf("%s.%s(%q, %s", cc.Lib, factory, key, Convert(cc, p.TypeAnnotation))
	if p.Optional && !isMethod {
		out += ", true"
	}
	return out + ")"
}

// propertyKey extracts a member name from an identifier or string literal
// key node.
func propertyKey(key *ast.Node) string {
	if key == nil {
		return ""
	}
	if key.Kind == ast.KindStringLiteral {
		if s, ok := key.StringValue(); ok {
			return s
		}
	}
	return key.Name
}

// isFlowable reports whether a node sits in a flowable position: it (or an
// enclosing annotation) reaches a function's params list before reaching a
// non-annotation statement. Class property annotations deliberately do not
// flow: a property check against an already-fixed parameter must fail, not
// widen; properties flow through the constructor parameters instead.
func isFlowable(node *ast.Node) bool {
	for cur := node; cur != nil; cur = cur.Parent {
		parent := cur.Parent
		if parent == nil {
			return false
		}
		if cur.ParentField() == "params" || cur.ParentField() == "rest" {
			switch parent.Kind {
			case ast.KindFunctionTypeAnnotation, ast.KindFunctionDeclaration, ast.KindClassMethod:
				return true
			}
		}
		if !parent.IsAnnotation() && parent.Kind != ast.KindFunctionDeclaration && parent.Kind != ast.KindClassMethod {
			return false
		}
	}
	return false
}
