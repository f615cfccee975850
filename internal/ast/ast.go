// Package ast defines the annotation AST node shape the converter consumes.
// Nodes follow Babel's flow annotation naming (NullableTypeAnnotation,
// GenericTypeAnnotation, ...) and decode from Babel-style JSON, so any host
// parser that can dump its tree as JSON can feed the transformer. Value-level
// code the transformer does not own travels as preserved source text in Raw.
package ast

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Annotation node kinds. The converter dispatches on these strings; hosts
// may introduce further kinds and register their own emitters.
const (
	KindIdentifier              = "Identifier"
	KindQualifiedTypeIdentifier = "QualifiedTypeIdentifier"

	KindAnyTypeAnnotation            = "AnyTypeAnnotation"
	KindMixedTypeAnnotation          = "MixedTypeAnnotation"
	KindEmptyTypeAnnotation          = "EmptyTypeAnnotation"
	KindVoidTypeAnnotation           = "VoidTypeAnnotation"
	KindNullLiteralTypeAnnotation    = "NullLiteralTypeAnnotation"
	KindNumberTypeAnnotation         = "NumberTypeAnnotation"
	KindStringTypeAnnotation         = "StringTypeAnnotation"
	KindBooleanTypeAnnotation        = "BooleanTypeAnnotation"
	KindSymbolTypeAnnotation         = "SymbolTypeAnnotation"
	KindNumberLiteralTypeAnnotation  = "NumberLiteralTypeAnnotation"
	KindStringLiteralTypeAnnotation  = "StringLiteralTypeAnnotation"
	KindBooleanLiteralTypeAnnotation = "BooleanLiteralTypeAnnotation"
	KindExistsTypeAnnotation         = "ExistsTypeAnnotation"
	KindThisTypeAnnotation           = "ThisTypeAnnotation"
	KindNullableTypeAnnotation       = "NullableTypeAnnotation"
	KindArrayTypeAnnotation          = "ArrayTypeAnnotation"
	KindTupleTypeAnnotation          = "TupleTypeAnnotation"
	KindUnionTypeAnnotation          = "UnionTypeAnnotation"
	KindIntersectionTypeAnnotation   = "IntersectionTypeAnnotation"
	KindGenericTypeAnnotation        = "GenericTypeAnnotation"
	KindTypeofTypeAnnotation         = "TypeofTypeAnnotation"
	KindFunctionTypeAnnotation       = "FunctionTypeAnnotation"
	KindFunctionTypeParam            = "FunctionTypeParam"
	KindObjectTypeAnnotation         = "ObjectTypeAnnotation"
	KindObjectTypeProperty           = "ObjectTypeProperty"
	KindObjectTypeIndexer            = "ObjectTypeIndexer"
	KindObjectTypeCallProperty       = "ObjectTypeCallProperty"
	KindObjectTypeSpreadProperty     = "ObjectTypeSpreadProperty"
	KindTypeParameterDeclaration     = "TypeParameterDeclaration"
	KindTypeParameter                = "TypeParameter"
	KindTypeParameterInstantiation   = "TypeParameterInstantiation"
	KindTypeAnnotation               = "TypeAnnotation"
	KindTypeCastExpression           = "TypeCastExpression"

	KindTypeAlias            = "TypeAlias"
	KindOpaqueType           = "OpaqueType"
	KindInterfaceDeclaration = "InterfaceDeclaration"
	KindInterfaceExtends     = "InterfaceExtends"

	KindDeclareTypeAlias     = "DeclareTypeAlias"
	KindDeclareInterface     = "DeclareInterface"
	KindDeclareClass         = "DeclareClass"
	KindDeclareFunction      = "DeclareFunction"
	KindDeclareVariable      = "DeclareVariable"
	KindDeclareModule        = "DeclareModule"
	KindDeclareModuleExports = "DeclareModuleExports"

	KindProgram             = "Program"
	KindFunctionDeclaration = "FunctionDeclaration"
	KindClassDeclaration    = "ClassDeclaration"
	KindClassBody           = "ClassBody"
	KindClassProperty       = "ClassProperty"
	KindClassMethod         = "ClassMethod"
	KindVariableDeclaration = "VariableDeclaration"
	KindVariableDeclarator  = "VariableDeclarator"
	KindBlockStatement      = "BlockStatement"
	KindReturnStatement     = "ReturnStatement"
	KindStringLiteral       = "StringLiteral"
	KindRawStatement        = "RawStatement"
)

// Node is a single AST node. One struct covers every kind; unused slots stay
// nil, matching how Babel JSON carries them.
type Node struct {
	Kind string `json:"type"`

	// Identifier and literal payloads.
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`

	// Raw preserves original source for value-level code the transformer
	// re-emits untouched (function bodies, initializer expressions).
	Raw string `json:"raw,omitempty"`

	// Annotation slots. TypeAnnotation doubles as the value slot of
	// object members, function params and declared variables; hosts
	// dumping Babel trees rename "value" to "typeAnnotation" for those
	// member kinds.
	TypeAnnotation *Node   `json:"typeAnnotation,omitempty"`
	ElementType    *Node   `json:"elementType,omitempty"`
	Types          []*Node `json:"types,omitempty"`
	Params         []*Node `json:"params,omitempty"`
	Rest           *Node   `json:"rest,omitempty"`
	ReturnType     *Node   `json:"returnType,omitempty"`
	TypeParameters *Node   `json:"typeParameters,omitempty"`
	TypeArguments  *Node   `json:"typeArguments,omitempty"`
	ID             *Node   `json:"id,omitempty"`
	Key            *Node   `json:"key,omitempty"`
	Qualification  *Node   `json:"qualification,omitempty"`
	Argument       *Node   `json:"argument,omitempty"`
	Right          *Node   `json:"right,omitempty"`
	Bound          *Node   `json:"bound,omitempty"`
	Properties     []*Node `json:"properties,omitempty"`
	Indexers       []*Node `json:"indexers,omitempty"`
	CallProperties []*Node `json:"callProperties,omitempty"`
	Extends        []*Node `json:"extends,omitempty"`
	Exact          bool    `json:"exact,omitempty"`
	Optional       bool    `json:"optional,omitempty"`
	Static         bool    `json:"static,omitempty"`
	Method         bool    `json:"method,omitempty"`

	// Declaration and statement slots.
	Body         []*Node `json:"body,omitempty"`
	SuperClass   *Node   `json:"superClass,omitempty"`
	Declarations []*Node `json:"declarations,omitempty"`
	Init         *Node   `json:"init,omitempty"`
	DeclKind     string  `json:"kind,omitempty"` // var/let/const, method/constructor

	// Parent is set by Link; it is never part of the JSON form.
	Parent *Node `json:"-"`

	// parentField names the slot this node occupies in its parent.
	parentField string
}

// ParentField names the slot this node occupies in its parent ("params",
// "returnType", ...). Empty for the root.
func (n *Node) ParentField() string { return n.parentField }

// Decode parses a Babel-style JSON document into a linked tree.
func Decode(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast: failed to decode node tree: %w", err)
	}
	Link(&root)
	return &root, nil
}

// Link sets Parent pointers and slot names throughout the tree. It must be
// called before classification or flowable-position checks.
func Link(root *Node) {
	link(root, nil, "")
}

func link(n *Node, parent *Node, field string) {
	if n == nil {
		return
	}
	n.Parent = parent
	n.parentField = field

	link(n.TypeAnnotation, n, "typeAnnotation")
	link(n.ElementType, n, "elementType")
	linkAll(n.Types, n, "types")
	linkAll(n.Params, n, "params")
	link(n.Rest, n, "rest")
	link(n.ReturnType, n, "returnType")
	link(n.TypeParameters, n, "typeParameters")
	link(n.TypeArguments, n, "typeArguments")
	link(n.ID, n, "id")
	link(n.Key, n, "key")
	link(n.Qualification, n, "qualification")
	link(n.Argument, n, "argument")
	link(n.Right, n, "right")
	link(n.Bound, n, "bound")
	linkAll(n.Properties, n, "properties")
	linkAll(n.Indexers, n, "indexers")
	linkAll(n.CallProperties, n, "callProperties")
	linkAll(n.Extends, n, "extends")
	linkAll(n.Body, n, "body")
	link(n.SuperClass, n, "superClass")
	linkAll(n.Declarations, n, "declarations")
	link(n.Init, n, "init")
}

func linkAll(nodes []*Node, parent *Node, field string) {
	for _, child := range nodes {
		link(child, parent, field)
	}
}

// IsAnnotation reports whether the node kind belongs to the annotation
// grammar rather than value-level code.
func (n *Node) IsAnnotation() bool {
	switch n.Kind {
	case KindProgram, KindFunctionDeclaration, KindClassDeclaration,
		KindClassBody, KindClassProperty, KindClassMethod,
		KindVariableDeclaration, KindVariableDeclarator,
		KindBlockStatement, KindReturnStatement, KindRawStatement,
		KindStringLiteral:
		return false
	}
	return true
}

// StringValue returns the node's Value as a string, when it is one.
func (n *Node) StringValue() (string, bool) {
	s, ok := n.Value.(string)
	return s, ok
}

// NumberValue returns the node's Value as a float64, widening decoded
// integers.
func (n *Node) NumberValue() (float64, bool) {
	switch v := n.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// BoolValue returns the node's Value as a bool, when it is one.
func (n *Node) BoolValue() (bool, bool) {
	b, ok := n.Value.(bool)
	return b, ok
}
