package convert

import (
	"strings"
	"testing"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/diagnostic"
)

func newTestContext() *ConversionContext {
	return NewContext("t", diagnostic.NewCollector(false, false))
}

func ident(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindIdentifier, Name: name}
}

func generic(name string, args ...*ast.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindGenericTypeAnnotation, ID: ident(name)}
	if len(args) > 0 {
		n.TypeParameters = &ast.Node{Kind: ast.KindTypeParameterInstantiation, Params: args}
	}
	return n
}

func annotation(kind string) *ast.Node {
	return &ast.Node{Kind: kind}
}

func assertConverts(t *testing.T, cc *ConversionContext, node *ast.Node, want string) {
	t.Helper()
	ast.Link(node)
	if got := Convert(cc, node); got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}
}

// --- Simple annotation kinds ---

func TestConvertPrimitives(t *testing.T) {
	cc := newTestContext()
	cases := map[string]string{
		ast.KindAnyTypeAnnotation:         "t.any()",
		ast.KindMixedTypeAnnotation:       "t.mixed()",
		ast.KindEmptyTypeAnnotation:       "t.empty()",
		ast.KindVoidTypeAnnotation:        "t.void()",
		ast.KindNullLiteralTypeAnnotation: "t.null()",
		ast.KindNumberTypeAnnotation:      "t.number()",
		ast.KindStringTypeAnnotation:      "t.string()",
		ast.KindBooleanTypeAnnotation:     "t.boolean()",
		ast.KindSymbolTypeAnnotation:      "t.symbol()",
		ast.KindExistsTypeAnnotation:      "t.existential()",
	}
	for kind, want := range cases {
		assertConverts(t, cc, annotation(kind), want)
	}
}

func TestConvertLiterals(t *testing.T) {
	cc := newTestContext()
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindNumberLiteralTypeAnnotation, Value: 42.0},
		"t.number(42)")
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindStringLiteralTypeAnnotation, Value: "on"},
		`t.string("on")`)
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindBooleanLiteralTypeAnnotation, Value: true},
		"t.boolean(true)")
}

func TestConvertComposites(t *testing.T) {
	cc := newTestContext()
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindNullableTypeAnnotation, TypeAnnotation: annotation(ast.KindNumberTypeAnnotation)},
		"t.nullable(t.number())")
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindArrayTypeAnnotation, ElementType: annotation(ast.KindStringTypeAnnotation)},
		"t.array(t.string())")
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindTupleTypeAnnotation, Types: []*ast.Node{
			annotation(ast.KindNumberTypeAnnotation), annotation(ast.KindStringTypeAnnotation),
		}},
		"t.tuple(t.number(), t.string())")
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindUnionTypeAnnotation, Types: []*ast.Node{
			annotation(ast.KindStringTypeAnnotation), annotation(ast.KindNumberTypeAnnotation),
		}},
		"t.union(t.string(), t.number())")
	assertConverts(t, cc,
		&ast.Node{Kind: ast.KindIntersectionTypeAnnotation, Types: []*ast.Node{
			annotation(ast.KindNumberTypeAnnotation), annotation(ast.KindStringTypeAnnotation),
		}},
		"t.intersect(t.number(), t.string())")
}

func TestConvertUnknownKindDegradesToAny(t *testing.T) {
	cc := newTestContext()
	assertConverts(t, cc, annotation("IndexedAccessType"), "t.any()")
	if cc.Diags.WarningCount() != 1 {
		t.Errorf("expected a diagnostic, got %d", cc.Diags.WarningCount())
	}
}

func TestHandlerOverride(t *testing.T) {
	cc := newTestContext()
	cc.Handlers["IndexedAccessType"] = func(cc *ConversionContext, node *ast.Node) string {
		return cc.Lib + ".mixed()"
	}
	assertConverts(t, cc, annotation("IndexedAccessType"), "t.mixed()")
	if cc.Diags.WarningCount() != 0 {
		t.Errorf("overridden kinds must not warn, got %d", cc.Diags.WarningCount())
	}
}

// --- References ---

func TestConvertExternalRef(t *testing.T) {
	cc := newTestContext()
	assertConverts(t, cc, generic("Thing"), `t.ref("Thing")`)
	assertConverts(t, cc, generic("Box", annotation(ast.KindNumberTypeAnnotation)),
		`t.ref("Box", t.number())`)
}

func TestConvertArraySpecialization(t *testing.T) {
	cc := newTestContext()
	assertConverts(t, cc, generic("Array", annotation(ast.KindNumberTypeAnnotation)),
		"t.array(t.number())")
	assertConverts(t, cc, generic("Array"), "t.array()")
	assertConverts(t, cc, generic("Object"), "t.object()")
	assertConverts(t, cc, generic("Function"), "t.function()")
}

func TestConvertSuppressedName(t *testing.T) {
	cc := newTestContext()
	cc.Suppressed["Opaque"] = true
	assertConverts(t, cc, generic("Opaque"), "t.any()")
}

func TestConvertQualifiedRef(t *testing.T) {
	cc := newTestContext()
	node := &ast.Node{Kind: ast.KindGenericTypeAnnotation, ID: &ast.Node{
		Kind:          ast.KindQualifiedTypeIdentifier,
		Qualification: ident("React"),
		ID:            ident("Node"),
	}}
	assertConverts(t, cc, node, `t.ref("React.Node")`)
}

func TestClassifyAlias(t *testing.T) {
	cc := newTestContext()
	program := &ast.Node{Kind: ast.KindProgram, Body: []*ast.Node{
		{Kind: ast.KindTypeAlias, ID: ident("Thing"), Right: annotation(ast.KindNumberTypeAnnotation)},
	}}
	ast.Link(program)
	cc.Walk(program)

	ref := generic("Thing")
	assertConverts(t, cc, ref, "Thing")
	if got := cc.Classify(ref.ID); got != ClassifiedTypeAlias {
		t.Errorf("Classify = %v, want type-alias", got)
	}
}

func TestDuplicateAliasIsFatal(t *testing.T) {
	cc := newTestContext()
	program := &ast.Node{Kind: ast.KindProgram, Body: []*ast.Node{
		{Kind: ast.KindTypeAlias, ID: ident("Twice"), Right: annotation(ast.KindNumberTypeAnnotation)},
		{Kind: ast.KindTypeAlias, ID: ident("Twice"), Right: annotation(ast.KindStringTypeAnnotation)},
	}}
	ast.Link(program)
	cc.Walk(program)
	if !cc.Diags.HasErrors() {
		t.Fatal("duplicate declarations must be a fatal diagnostic")
	}
}

// --- Type parameters and flow ---

// paramedFunction builds <T>(x: T) => T as a FunctionTypeAnnotation.
func paramedFunction() *ast.Node {
	return &ast.Node{
		Kind: ast.KindFunctionTypeAnnotation,
		TypeParameters: &ast.Node{Kind: ast.KindTypeParameterDeclaration, Params: []*ast.Node{
			{Kind: ast.KindTypeParameter, Name: "T"},
		}},
		Params: []*ast.Node{
			{Kind: ast.KindFunctionTypeParam, Name: "x", TypeAnnotation: generic("T")},
		},
		ReturnType: generic("T"),
	}
}

func TestConvertParameterizedFunction(t *testing.T) {
	cc := newTestContext()
	node := paramedFunction()
	ast.Link(node)
	got := Convert(cc, node)

	for _, want := range []string{
		"t.function(fn => {",
		`const T = fn.typeParameter("T");`,
		`t.param("x", t.flowInto(T))`,
		"t.return(T)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "t.return(t.flowInto") {
		t.Errorf("return positions must not flow:\n%s", got)
	}
}

func TestConvertAliasTypeParameter(t *testing.T) {
	cc := newTestContext()
	alias := &ast.Node{
		Kind: ast.KindTypeAlias,
		ID:   ident("Box"),
		TypeParameters: &ast.Node{Kind: ast.KindTypeParameterDeclaration, Params: []*ast.Node{
			{Kind: ast.KindTypeParameter, Name: "T"},
		}},
		Right: &ast.Node{Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
			{Kind: ast.KindObjectTypeProperty, Key: ident("v"), TypeAnnotation: generic("T")},
		}},
	}
	program := &ast.Node{Kind: ast.KindProgram, Body: []*ast.Node{alias}}
	ast.Link(program)
	cc.Walk(program)

	got := ConvertDeclaration(cc, alias)
	for _, want := range []string{
		`const Box = t.type("Box", Box => {`,
		`const T = Box.typeParameter("T");`,
		`t.property("v", T)`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	// An alias property is not a flowable position.
	if strings.Contains(got, "flowInto") {
		t.Errorf("alias members must not flow:\n%s", got)
	}
}

// --- Objects ---

func TestConvertObject(t *testing.T) {
	cc := newTestContext()
	node := &ast.Node{Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
		{Kind: ast.KindObjectTypeProperty, Key: ident("a"), TypeAnnotation: annotation(ast.KindNumberTypeAnnotation)},
		{Kind: ast.KindObjectTypeProperty, Key: ident("b"), TypeAnnotation: annotation(ast.KindStringTypeAnnotation), Optional: true},
	}}
	assertConverts(t, cc, node, `t.object(t.property("a", t.number()), t.property("b", t.string(), true))`)

	node.Exact = true
	assertConverts(t, cc, node, `t.exactObject(t.property("a", t.number()), t.property("b", t.string(), true))`)
}

func TestConvertObjectMembers(t *testing.T) {
	cc := newTestContext()
	node := &ast.Node{
		Kind: ast.KindObjectTypeAnnotation,
		Properties: []*ast.Node{
			{Kind: ast.KindObjectTypeProperty, Key: ident("run"), Method: true,
				TypeAnnotation: &ast.Node{Kind: ast.KindFunctionTypeAnnotation, ReturnType: annotation(ast.KindVoidTypeAnnotation)}},
		},
		Indexers: []*ast.Node{
			{Kind: ast.KindObjectTypeIndexer, ID: ident("key"),
				Key:            annotation(ast.KindStringTypeAnnotation),
				TypeAnnotation: annotation(ast.KindNumberTypeAnnotation)},
		},
		CallProperties: []*ast.Node{
			{Kind: ast.KindObjectTypeCallProperty,
				TypeAnnotation: &ast.Node{Kind: ast.KindFunctionTypeAnnotation, ReturnType: annotation(ast.KindStringTypeAnnotation)}},
		},
	}
	ast.Link(node)
	got := Convert(cc, node)
	for _, want := range []string{
		`t.method("run", t.function(t.return(t.void())))`,
		`t.indexer("key", t.string(), t.number())`,
		`t.callProperty(t.function(t.return(t.string())))`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConvertSpreadPropertySkipsWithWarning(t *testing.T) {
	cc := newTestContext()
	node := &ast.Node{Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
		{Kind: ast.KindObjectTypeSpreadProperty, Argument: generic("Base")},
	}}
	assertConverts(t, cc, node, "t.object()")
	if cc.Diags.WarningCount() != 1 {
		t.Errorf("expected a warning, got %d", cc.Diags.WarningCount())
	}
}

// --- Typeof ---

func TestConvertTypeof(t *testing.T) {
	cc := newTestContext()
	node := &ast.Node{Kind: ast.KindTypeofTypeAnnotation, Argument: &ast.Node{
		Kind:          ast.KindQualifiedTypeIdentifier,
		Qualification: ident("Foo"),
		ID:            ident("Bar"),
	}}
	assertConverts(t, cc, node, "t.typeOf(Foo.Bar)")
}

// --- Declarations ---

func TestConvertSelfReferentialAlias(t *testing.T) {
	cc := newTestContext()
	alias := &ast.Node{
		Kind: ast.KindTypeAlias,
		ID:   ident("Tree"),
		Right: &ast.Node{Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
			{Kind: ast.KindObjectTypeProperty, Key: ident("kids"),
				TypeAnnotation: &ast.Node{Kind: ast.KindArrayTypeAnnotation, ElementType: generic("Tree")}},
		}},
	}
	program := &ast.Node{Kind: ast.KindProgram, Body: []*ast.Node{alias}}
	ast.Link(program)
	cc.Walk(program)

	got := ConvertDeclaration(cc, alias)
	for _, want := range []string{
		`const Tree = t.type("Tree", Tree => {`,
		`t.property("kids", t.array(Tree))`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConvertPlainAliasHasNoThunk(t *testing.T) {
	cc := newTestContext()
	alias := &ast.Node{Kind: ast.KindTypeAlias, ID: ident("Id"),
		Right: annotation(ast.KindNumberTypeAnnotation)}
	program := &ast.Node{Kind: ast.KindProgram, Body: []*ast.Node{alias}}
	ast.Link(program)
	cc.Walk(program)

	if got := ConvertDeclaration(cc, alias); got != `const Id = t.type("Id", t.number());` {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestConvertDeclareFunctionOmitsWrapper(t *testing.T) {
	cc := newTestContext()
	decl := &ast.Node{Kind: ast.KindDeclareFunction, ID: &ast.Node{
		Kind: ast.KindIdentifier, Name: "readFile",
		TypeAnnotation: &ast.Node{
			Kind: ast.KindFunctionTypeAnnotation,
			Params: []*ast.Node{
				{Kind: ast.KindFunctionTypeParam, Name: "path", TypeAnnotation: annotation(ast.KindStringTypeAnnotation)},
			},
			ReturnType: annotation(ast.KindStringTypeAnnotation),
		},
	}}
	ast.Link(decl)
	got := ConvertDeclaration(cc, decl)
	want := `t.declare("readFile", t.function(t.param("path", t.string()), t.return(t.string())));`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConvertDeclareModule(t *testing.T) {
	cc := newTestContext()
	decl := &ast.Node{
		Kind: ast.KindDeclareModule,
		ID:   &ast.Node{Kind: ast.KindStringLiteral, Value: "fs"},
		Body: []*ast.Node{
			{Kind: ast.KindDeclareModuleExports, TypeAnnotation: &ast.Node{
				Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
					{Kind: ast.KindObjectTypeProperty, Key: ident("readFile"),
						TypeAnnotation: &ast.Node{Kind: ast.KindFunctionTypeAnnotation}},
				},
			}},
		},
	}
	ast.Link(decl)
	got := ConvertDeclaration(cc, decl)
	for _, want := range []string{
		`t.declare(t.module("fs", t => {`,
		`t.moduleExports(t.object(t.property("readFile", t.function())));`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConvertDeclareClass(t *testing.T) {
	cc := newTestContext()
	decl := &ast.Node{
		Kind: ast.KindDeclareClass,
		ID:   ident("Point"),
		Right: &ast.Node{Kind: ast.KindObjectTypeAnnotation, Properties: []*ast.Node{
			{Kind: ast.KindObjectTypeProperty, Key: ident("x"), TypeAnnotation: annotation(ast.KindNumberTypeAnnotation)},
		}},
	}
	ast.Link(decl)
	got := ConvertDeclaration(cc, decl)
	want := `t.declare(t.class("Point", t.property("x", t.number())));`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
