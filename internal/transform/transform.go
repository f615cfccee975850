// Package transform drives a full pass over one module: it injects the
// runtime library import, seeds the nominal predicates, replaces type
// declarations with their descriptor construction, and rewrites annotated
// functions and classes to check parameters, returns and assignments.
//
// Value-level code the pass does not own travels through the AST as
// preserved source (Raw) and is spliced back verbatim.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/config"
	"github.com/runtype/runtype/internal/convert"
	"github.com/runtype/runtype/internal/diagnostic"
)

// Result is the outcome of transforming one module.
type Result struct {
	Source      string
	Diagnostics *diagnostic.Collector
}

// Transform runs the pass over a linked program node.
func Transform(cfg *config.Config, file string, program *ast.Node) (*Result, error) {
	if program == nil || program.Kind != ast.KindProgram {
		return nil, fmt.Errorf("transform: expected a Program node")
	}
	diags := diagnostic.NewCollector(cfg.Strict, cfg.Quiet)

	if !cfg.Annotate {
		// Pass-through: re-emit preserved source untouched.
		var sb strings.Builder
		for _, stmt := range program.Body {
			sb.WriteString(stmt.Raw)
			sb.WriteString("\n")
		}
		return &Result{Source: sb.String(), Diagnostics: diags}, nil
	}

	cc := convert.NewContext("t", diags)
	cc.File = file
	for _, name := range cfg.SuppressTypeNames {
		cc.Suppressed[name] = true
	}
	cc.Walk(program)

	e := convert.NewEmitter()
	e.Line("import t from %q;", cfg.LibraryID)
	if cfg.AssertionMode != "" && cfg.AssertionMode != "assert" {
		e.Line("t.setMode(%q);", cfg.AssertionMode)
	}
	emitPredicateRegistrations(e)
	e.Blank()

	for _, stmt := range program.Body {
		if decl := convert.ConvertDeclaration(cc, stmt); decl != "" {
			e.Raw(decl)
			e.Blank()
			continue
		}
		switch stmt.Kind {
		case ast.KindFunctionDeclaration:
			emitFunction(e, cc, stmt)
		case ast.KindClassDeclaration:
			emitClass(e, cc, stmt)
		case ast.KindVariableDeclaration:
			emitVariable(e, cc, stmt)
		default:
			if stmt.Raw != "" {
				e.Raw(stmt.Raw)
				e.Blank()
			}
		}
	}

	return &Result{Source: e.String(), Diagnostics: diags}, nil
}

// emitPredicateRegistrations seeds the environment's nominal predicates.
// The runtime ships the same seeds; re-registering is silent by design, and
// emitting them keeps transformed modules self-sufficient against a bare
// context.
func emitPredicateRegistrations(e *convert.Emitter) {
	e.Line("t.registerPredicate(\"Array\", v => Array.isArray(v));")
	e.Line("t.registerPredicate(\"$ReadOnlyArray\", v => Array.isArray(v) && Object.isFrozen(v));")
	e.Line("t.registerPredicate(\"Map\", v => v instanceof Map);")
	e.Line("t.registerPredicate(\"Set\", v => v instanceof Set);")
	e.Line("t.registerPredicate(\"Promise\", v => v != null && typeof v.then === \"function\");")
}

// paramNames lists a function's parameter names in order.
func paramNames(node *ast.Node) []string {
	names := make([]string, 0, len(node.Params))
	for i, p := range node.Params {
		name := p.Name
		if name == "" && p.ID != nil {
			name = p.ID.Name
		}
		if name == "" {
			name = fmt.Sprintf("_arg%d", i)
		}
		names = append(names, name)
	}
	return names
}

// signatureExpr renders the descriptor for a function-shaped declaration.
// The expression is constructed inside the function body, which is what
// makes each call's type parameters fresh.
func signatureExpr(cc *convert.ConversionContext, node *ast.Node) string {
	sig := &ast.Node{
		Kind:           ast.KindFunctionTypeAnnotation,
		Params:         node.Params,
		Rest:           node.Rest,
		ReturnType:     node.ReturnType,
		TypeParameters: node.TypeParameters,
	}
	// Grafting the synthetic signature under the declaration keeps
	// classification and flowable detection working for its children.
	sig.Parent = node.Parent
	return convert.Convert(cc, sig)
}

// hasAnnotations reports whether a function-shaped node declares anything
// worth checking.
func hasAnnotations(node *ast.Node) bool {
	for _, p := range node.Params {
		if p.TypeAnnotation != nil {
			return true
		}
	}
	if node.Rest != nil && node.Rest.TypeAnnotation != nil {
		return true
	}
	return node.ReturnType != nil || (node.TypeParameters != nil && len(node.TypeParameters.Params) > 0)
}

// returnPattern matches simple return statements in preserved source.
var returnPattern = regexp.MustCompile(`\breturn\s+([^;\n]+);`)

// bodyInterior strips the outer braces from a preserved block body.
func bodyInterior(node *ast.Node) string {
	raw := ""
	if len(node.Body) == 1 && node.Body[0].Kind == ast.KindBlockStatement {
		raw = node.Body[0].Raw
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	return strings.TrimSpace(raw)
}

// emitFunction rewrites an annotated function declaration: the signature
// descriptor is constructed on entry, parameters are asserted, and each
// single-line `return expr;` statement is wrapped with assertReturn.
func emitFunction(e *convert.Emitter, cc *convert.ConversionContext, node *ast.Node) {
	if !hasAnnotations(node) {
		e.Raw(node.Raw)
		e.Blank()
		return
	}
	name := "anonymous"
	if node.ID != nil {
		name = node.ID.Name
	}
	fnType := "_" + name + "Type"
	names := paramNames(node)

	e.Block("function %s(%s)", name, strings.Join(names, ", "))
	e.Line("const %s = %s;", fnType, signatureExpr(cc, node))
	if len(names) > 0 {
		e.Line("%s.assertParams(%s);", fnType, strings.Join(names, ", "))
	}
	body := bodyInterior(node)
	if node.ReturnType != nil {
		body = returnPattern.ReplaceAllString(body, fmt.Sprintf("return %s.assertReturn($1);", fnType))
	}
	for _, line := range strings.Split(body, "\n") {
		e.Line("%s", strings.TrimRight(line, " \t"))
	}
	e.EndBlock()
	e.Blank()
}

// emitVariable rewrites `const x: T = init` into a checked assignment.
func emitVariable(e *convert.Emitter, cc *convert.ConversionContext, node *ast.Node) {
	kind := node.DeclKind
	if kind == "" {
		kind = "const"
	}
	for _, decl := range node.Declarations {
		if decl.ID == nil || decl.ID.TypeAnnotation == nil {
			if decl.Raw != "" {
				e.Line("%s %s;", kind, decl.Raw)
			}
			continue
		}
		name := decl.ID.Name
		expr := convert.Convert(cc, decl.ID.TypeAnnotation)
		init := "undefined"
		if decl.Init != nil && decl.Init.Raw != "" {
			init = decl.Init.Raw
		}
		e.Line("%s %s = %s.assert(%s);", kind, name, expr, init)
	}
	e.Blank()
}
