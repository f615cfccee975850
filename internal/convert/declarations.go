package convert

import (
	"fmt"
	"strings"

	"github.com/runtype/runtype/internal/ast"
)

// Declaration-level conversion: each declared type becomes a statement that
// constructs and (for declare forms) registers its descriptor.

// ConvertDeclaration emits the statement form of a type declaration, or ""
// when the node is not a type declaration.
func ConvertDeclaration(cc *ConversionContext, node *ast.Node) string {
	switch node.Kind {
	case ast.KindTypeAlias, ast.KindOpaqueType:
		return convertTypeAliasDecl(cc, node, false)
	case ast.KindInterfaceDeclaration:
		return convertInterfaceDecl(cc, node, false)
	case ast.KindDeclareTypeAlias:
		return convertTypeAliasDecl(cc, node, true)
	case ast.KindDeclareInterface:
		return convertInterfaceDecl(cc, node, true)
	case ast.KindDeclareClass:
		return convertDeclareClass(cc, node)
	case ast.KindDeclareFunction:
		return convertDeclareFunction(cc, node)
	case ast.KindDeclareVariable:
		return convertDeclareVariable(cc, node)
	case ast.KindDeclareModule:
		return convertDeclareModule(cc, node)
	case ast.KindDeclareModuleExports:
		return fmt.Sprintf("%s.moduleExports(%s);", cc.Lib, Convert(cc, node.TypeAnnotation))
	}
	return ""
}

// convertTypeAliasDecl emits `const X = t.type("X", body)`. Parameterized or
// self-referential aliases wrap the body in a creator receiving the alias
// itself, so construction stays finite and parameters stay scoped.
func convertTypeAliasDecl(cc *ConversionContext, node *ast.Node, declare bool) string {
	name := node.ID.Name
	body := node.Right
	expr := typeExpression(cc, name, node.TypeParameters, referencesName(body, name), func() string {
		return Convert(cc, body)
	})
	if declare {
		return fmt.Sprintf("%s.declare(%s);", cc.Lib, expr)
	}
	return fmt.Sprintf("const %s = %s;", name, expr)
}

// convertInterfaceDecl emits an interface as a named alias; extends clauses
// intersect with the declared body.
func convertInterfaceDecl(cc *ConversionContext, node *ast.Node, declare bool) string {
	name := node.ID.Name
	selfRef := referencesName(node.Right, name)
	for _, ext := range node.Extends {
		selfRef = selfRef || referencesName(ext, name)
	}
	expr := typeExpression(cc, name, node.TypeParameters, selfRef, func() string {
		body := Convert(cc, node.Right)
		if len(node.Extends) == 0 {
			return body
		}
		parts := make([]string, 0, len(node.Extends)+1)
		for _, ext := range node.Extends {
			parts = append(parts, Convert(cc, ext))
		}
		parts = append(parts, body)
		return fmt.Sprintf("%s.intersect(%s)", cc.Lib, strings.Join(parts, ", "))
	})
	if declare {
		return fmt.Sprintf("%s.declare(%s);", cc.Lib, expr)
	}
	return fmt.Sprintf("const %s = %s;", name, expr)
}

// referencesName reports whether an annotation subtree refers to the given
// type name, which forces the declaration into its thunked form.
func referencesName(n *ast.Node, name string) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindGenericTypeAnnotation && n.ID != nil && n.ID.Kind == ast.KindIdentifier && n.ID.Name == name {
		return true
	}
	children := []*ast.Node{
		n.TypeAnnotation, n.ElementType, n.Rest, n.ReturnType,
		n.TypeParameters, n.TypeArguments, n.Key, n.Argument, n.Right,
		n.Bound, n.SuperClass,
	}
	for _, group := range [][]*ast.Node{n.Types, n.Params, n.Properties, n.Indexers, n.CallProperties, n.Extends, n.Body} {
		children = append(children, group...)
	}
	for _, child := range children {
		if referencesName(child, name) {
			return true
		}
	}
	return false
}

// typeExpression renders t.type("X", ...) with or without a creator thunk.
func typeExpression(cc *ConversionContext, name string, typeParams *ast.Node, selfRef bool, body func() string) string {
	parameterized := typeParams != nil && len(typeParams.Params) > 0
	rendered := body()
	if !parameterized && !selfRef {
		return fmt.Sprintf("%s.type(%q, %s)", cc.Lib, name, rendered)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s.type(%q, %s => {\n", cc.Lib, name, name)
	if parameterized {
		for _, p := range typeParams.Params {
			if p.Bound != nil {
				fmt.Fprintf(&sb, "  const %s = %s.typeParameter(%q, %s);\n", p.Name, name, p.Name, Convert(cc, p.Bound))
			} else {
				fmt.Fprintf(&sb, "  const %s = %s.typeParameter(%q);\n", p.Name, name, p.Name)
			}
		}
	}
	fmt.Fprintf(&sb, "  return %s;\n})", rendered)
	return sb.String()
}

// convertDeclareClass emits `t.declare(t.class("Name", ...members))`,
// boxing the members in a creator when the class is parameterized.
func convertDeclareClass(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.declare(%s);", cc.Lib, ClassExpression(cc, node))
}

// ClassExpression renders the descriptor expression for a class shape.
func ClassExpression(cc *ConversionContext, node *ast.Node) string {
	name := "Class"
	if node.ID != nil {
		name = node.ID.Name
	}
	members := classMembers(cc, node)
	parameterized := node.TypeParameters != nil && len(node.TypeParameters.Params) > 0
	selfRef := referencesName(node.Right, name) || referencesName(node.SuperClass, name)
	if !parameterized && !selfRef {
		return fmt.Sprintf("%s.class(%q%s)", cc.Lib, name, prefixEach(members))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s.class(%q, %s => {\n", cc.Lib, name, name)
	if parameterized {
		for _, p := range node.TypeParameters.Params {
			if p.Bound != nil {
				fmt.Fprintf(&sb, "  const %s = %s.typeParameter(%q, %s);\n", p.Name, name, p.Name, Convert(cc, p.Bound))
			} else {
				fmt.Fprintf(&sb, "  const %s = %s.typeParameter(%q);\n", p.Name, name, p.Name)
			}
		}
	}
	fmt.Fprintf(&sb, "  return [%s];\n})", strings.Join(members, ", "))
	return sb.String()
}

// classMembers renders a class shape's members: body properties and
// extends clauses.
func classMembers(cc *ConversionContext, node *ast.Node) []string {
	var members []string
	if node.SuperClass != nil {
		members = append(members, fmt.Sprintf("%s.extends(%s)", cc.Lib, Convert(cc, node.SuperClass)))
	}
	for _, ext := range node.Extends {
		members = append(members, fmt.Sprintf("%s.extends(%s)", cc.Lib, Convert(cc, ext)))
	}
	if node.Right != nil {
		for _, p := range node.Right.Properties {
			members = append(members, convertObjectProperty(cc, p))
		}
		for _, ix := range node.Right.Indexers {
			id := "key"
			if ix.ID != nil {
				id = ix.ID.Name
			}
			members = append(members, fmt.Sprintf("%s.indexer(%q, %s, %s)",
				cc.Lib, id, Convert(cc, ix.Key), Convert(cc, ix.TypeAnnotation)))
		}
	}
	return members
}

// prefixEach renders ", a, b" for trailing call arguments.
func prefixEach(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// convertDeclareFunction emits `t.declare("name", annotation)`. The
// intermediate function wrapper is intentionally absent, mirroring the
// declared-name registration surface.
func convertDeclareFunction(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.declare(%q, %s);", cc.Lib, node.ID.Name, Convert(cc, node.ID.TypeAnnotation))
}

func convertDeclareVariable(cc *ConversionContext, node *ast.Node) string {
	return fmt.Sprintf("%s.declare(%q, %s);", cc.Lib, node.ID.Name, Convert(cc, node.ID.TypeAnnotation))
}

// convertDeclareModule emits the module wrapper; the body declarations run
// against the module's own context under the same library identifier.
func convertDeclareModule(cc *ConversionContext, node *ast.Node) string {
	name := ""
	if node.ID != nil {
		if s, ok := node.ID.StringValue(); ok {
			name = s
		} else {
			name = node.ID.Name
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s.declare(%s.module(%q, %s => {\n", cc.Lib, cc.Lib, name, cc.Lib)
	for _, stmt := range node.Body {
		inner := ConvertDeclaration(cc, stmt)
		if inner == "" {
			continue
		}
		for _, line := range strings.Split(inner, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("}));")
	return sb.String()
}
