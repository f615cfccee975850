package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/convert"
)

// superCallPattern finds the super(...) call a store initialization must
// follow.
var superCallPattern = regexp.MustCompile(`\bsuper\s*\([^)]*\)\s*;`)

// classBodyMembers returns a class declaration's member list, accepting
// either a direct list or a ClassBody wrapper.
func classBodyMembers(node *ast.Node) []*ast.Node {
	if len(node.Body) == 1 && node.Body[0].Kind == ast.KindClassBody {
		return node.Body[0].Body
	}
	return node.Body
}

// emitClass rewrites a class declaration: type-parameterized classes get a
// module-level static store and a per-instance symbol store, constructors
// initialize the instance store (after super(...) when chaining), and
// annotated methods check parameters and returns.
func emitClass(e *convert.Emitter, cc *convert.ConversionContext, node *ast.Node) {
	name := "Class"
	if node.ID != nil {
		name = node.ID.Name
	}
	parameterized := node.TypeParameters != nil && len(node.TypeParameters.Params) > 0

	var uids *convert.ClassUIDs
	if parameterized {
		uids = cc.UIDsFor(node)
		e.Line("const %s = Symbol(%q);", uids.TypeParametersSymbolUid, name+"TypeParameters")
		e.Line("const %s = { %s };", uids.TypeParametersUid, typeParameterStore(cc, node))
	}

	header := "class " + name
	if node.SuperClass != nil {
		super := node.SuperClass.Raw
		if super == "" {
			super = node.SuperClass.Name
		}
		header += " extends " + super
	}
	e.Block("%s", header)

	members := classBodyMembers(node)
	sawConstructor := false
	for _, member := range members {
		switch member.Kind {
		case ast.KindClassMethod:
			if member.DeclKind == "constructor" {
				sawConstructor = true
				emitConstructor(e, cc, node, member, uids)
			} else {
				emitMethod(e, cc, member)
			}
		case ast.KindClassProperty:
			if member.Raw != "" {
				e.Line("%s", member.Raw)
			}
		default:
			if member.Raw != "" {
				e.Line("%s", member.Raw)
			}
		}
	}
	if parameterized && !sawConstructor && node.SuperClass == nil {
		e.Block("constructor()")
		e.Line("this[%s] = { %s };", uids.TypeParametersSymbolUid, typeParameterStore(cc, node))
		e.EndBlock()
	}
	e.EndBlock()
	e.Blank()
}

// typeParameterStore renders "T: t.typeParameter(\"T\")" bindings for a
// class's parameters.
func typeParameterStore(cc *convert.ConversionContext, node *ast.Node) string {
	var parts []string
	for _, p := range node.TypeParameters.Params {
		if p.Bound != nil {
			parts = append(parts, fmt.Sprintf("%s: %s.typeParameter(%q, %s)",
				p.Name, cc.Lib, p.Name, convert.Convert(cc, p.Bound)))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s.typeParameter(%q)", p.Name, cc.Lib, p.Name))
		}
	}
	return strings.Join(parts, ", ")
}

// emitConstructor splices the instance store initialization into the
// constructor, after the super(...) call when the class chains, and asserts
// annotated parameters.
func emitConstructor(e *convert.Emitter, cc *convert.ConversionContext, class *ast.Node, member *ast.Node, uids *convert.ClassUIDs) {
	names := paramNames(member)
	e.Block("constructor(%s)", strings.Join(names, ", "))

	body := bodyInterior(member)
	storeInit := ""
	if uids != nil {
		storeInit = fmt.Sprintf("this[%s] = { %s };", uids.TypeParametersSymbolUid, typeParameterStore(cc, class))
	}
	checks := constructorChecks(cc, member)

	if class.SuperClass != nil && superCallPattern.MatchString(body) {
		// Parameter checks read the static store until this exists, so
		// they may run before super; the instance store follows it.
		for _, line := range checks {
			e.Line("%s", line)
		}
		inject := "$0"
		if storeInit != "" {
			inject = "$0 " + storeInit
		}
		body = superCallPattern.ReplaceAllString(body, inject)
	} else {
		if storeInit != "" {
			e.Line("%s", storeInit)
		}
		for _, line := range checks {
			e.Line("%s", line)
		}
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e.Line("%s", strings.TrimRight(line, " \t"))
	}
	e.EndBlock()
}

// constructorChecks renders the per-parameter assert lines for a
// constructor.
func constructorChecks(cc *convert.ConversionContext, member *ast.Node) []string {
	if !hasAnnotations(member) {
		return nil
	}
	var lines []string
	for i, p := range member.Params {
		if p.TypeAnnotation == nil {
			continue
		}
		name := p.Name
		if name == "" && p.ID != nil {
			name = p.ID.Name
		}
		if name == "" {
			name = fmt.Sprintf("_arg%d", i)
		}
		lines = append(lines, fmt.Sprintf("%s.assert(%s);", convert.Convert(cc, p.TypeAnnotation), name))
	}
	return lines
}

// emitMethod rewrites an annotated class method like a function declaration.
func emitMethod(e *convert.Emitter, cc *convert.ConversionContext, member *ast.Node) {
	name := "method"
	if member.Key != nil {
		name = member.Key.Name
	}
	names := paramNames(member)
	header := name
	if member.Static {
		header = "static " + name
	}
	if !hasAnnotations(member) {
		e.Block("%s(%s)", header, strings.Join(names, ", "))
		for _, line := range strings.Split(bodyInterior(member), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			e.Line("%s", strings.TrimRight(line, " \t"))
		}
		e.EndBlock()
		return
	}

	fnType := "_" + name + "Type"
	e.Block("%s(%s)", header, strings.Join(names, ", "))
	e.Line("const %s = %s;", fnType, signatureExpr(cc, member))
	if len(names) > 0 {
		e.Line("%s.assertParams(%s);", fnType, strings.Join(names, ", "))
	}
	body := bodyInterior(member)
	if member.ReturnType != nil {
		body = returnPattern.ReplaceAllString(body, fmt.Sprintf("return %s.assertReturn($1);", fnType))
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e.Line("%s", strings.TrimRight(line, " \t"))
	}
	e.EndBlock()
}
