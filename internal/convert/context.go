package convert

import (
	"fmt"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/diagnostic"
)

// Classification says what an identifier in annotation position refers to.
type Classification int

const (
	// ClassifiedExternalName is an unresolved name, emitted as a
	// string-keyed ref for late binding.
	ClassifiedExternalName Classification = iota
	// ClassifiedTypeAlias is a module-level type alias or interface.
	ClassifiedTypeAlias
	// ClassifiedTypeParameter is a parameter of an enclosing parametric
	// scope (alias, function annotation, function, method).
	ClassifiedTypeParameter
	// ClassifiedClassTypeParameter is a parameter declared on the
	// enclosing class; instance access routes through a per-instance
	// store.
	ClassifiedClassTypeParameter
)

func (c Classification) String() string {
	switch c {
	case ClassifiedTypeAlias:
		return "type-alias"
	case ClassifiedTypeParameter:
		return "type-parameter"
	case ClassifiedClassTypeParameter:
		return "class-type-parameter"
	default:
		return "external"
	}
}

// ClassUIDs are the generated identifiers through which a class's type
// parameters are reachable at runtime: a module-level store for static
// contexts and a symbol key for per-instance storage.
type ClassUIDs struct {
	TypeParametersUid       string
	TypeParametersSymbolUid string
}

// ConversionContext carries the symbol table and emission settings for one
// module.
type ConversionContext struct {
	// Lib is the identifier the runtime library is imported under.
	Lib string

	// Suppressed names collapse to any when referenced.
	Suppressed map[string]bool

	// Diags receives conversion diagnostics.
	Diags *diagnostic.Collector

	// Handlers is the kind → emitter dispatch table. Hosts override
	// individual kinds by replacing entries.
	Handlers map[string]Emit

	// aliases holds module-level declared type names.
	aliases map[string]bool

	// classUids maps class declaration nodes to their generated uids.
	classUids map[*ast.Node]*ClassUIDs

	// uidSeq disambiguates generated identifiers.
	uidSeq int

	// File names the module being converted, for diagnostics.
	File string
}

// NewContext creates a conversion context with the default dispatch table.
func NewContext(lib string, diags *diagnostic.Collector) *ConversionContext {
	if lib == "" {
		lib = "t"
	}
	return &ConversionContext{
		Lib:        lib,
		Suppressed: make(map[string]bool),
		Diags:      diags,
		Handlers:   defaultHandlers(),
		aliases:    make(map[string]bool),
		classUids:  make(map[*ast.Node]*ClassUIDs),
	}
}

// Walk scans a program and records every module-level type declaration, so
// later references classify as aliases. It must run before conversion.
func (cc *ConversionContext) Walk(program *ast.Node) {
	for _, stmt := range program.Body {
		switch stmt.Kind {
		case ast.KindTypeAlias, ast.KindOpaqueType, ast.KindInterfaceDeclaration,
			ast.KindDeclareTypeAlias, ast.KindDeclareInterface, ast.KindDeclareClass:
			if stmt.ID != nil {
				cc.declareAlias(stmt.ID.Name, stmt)
			}
		case ast.KindClassDeclaration:
			// A class is usable as a type name within the module.
			if stmt.ID != nil {
				cc.declareAlias(stmt.ID.Name, stmt)
			}
		}
	}
}

func (cc *ConversionContext) declareAlias(name string, node *ast.Node) {
	if cc.aliases[name] {
		cc.Diags.Error(diagnostic.CategoryDuplicateName, cc.File, 0,
			fmt.Sprintf("type %q is declared more than once", name))
		return
	}
	cc.aliases[name] = true
}

// Classify resolves an identifier in annotation position. Resolution walks
// the parent path up to the root: a type parameter declared by any enclosing
// node (alias, signature, function, method or class) wins over module-level
// aliases. The walk does not stop at statement boundaries.
func (cc *ConversionContext) Classify(ref *ast.Node) Classification {
	name := ref.Name
	for n := ref; n != nil; n = n.Parent {
		if declaresTypeParameter(n, name) {
			if n.Kind == ast.KindClassDeclaration || n.Kind == ast.KindDeclareClass {
				return ClassifiedClassTypeParameter
			}
			return ClassifiedTypeParameter
		}
	}
	if cc.aliases[name] {
		return ClassifiedTypeAlias
	}
	return ClassifiedExternalName
}

// declaresTypeParameter reports whether node introduces a type parameter of
// the given name.
func declaresTypeParameter(n *ast.Node, name string) bool {
	if n.TypeParameters == nil {
		return false
	}
	switch n.Kind {
	case ast.KindTypeAlias, ast.KindOpaqueType, ast.KindInterfaceDeclaration,
		ast.KindDeclareTypeAlias, ast.KindDeclareInterface,
		ast.KindFunctionTypeAnnotation, ast.KindFunctionDeclaration,
		ast.KindClassDeclaration, ast.KindDeclareClass, ast.KindClassMethod:
	default:
		return false
	}
	for _, p := range n.TypeParameters.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// EnclosingClass returns the nearest class declaration above the node.
func EnclosingClass(n *ast.Node) *ast.Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == ast.KindClassDeclaration || cur.Kind == ast.KindDeclareClass {
			return cur
		}
	}
	return nil
}

// UIDsFor allocates (or returns) the runtime storage identifiers for a
// class's type parameters.
func (cc *ConversionContext) UIDsFor(class *ast.Node) *ClassUIDs {
	if uids, ok := cc.classUids[class]; ok {
		return uids
	}
	name := "Class"
	if class.ID != nil {
		name = class.ID.Name
	}
	cc.uidSeq++
	uids := &ClassUIDs{
		TypeParametersUid:       fmt.Sprintf("_%sTypeParameters%d", name, cc.uidSeq),
		TypeParametersSymbolUid: fmt.Sprintf("_%sTypeParametersSymbol%d", name, cc.uidSeq),
	}
	cc.classUids[class] = uids
	return uids
}

// inStaticContext reports whether the node sits in a static method, or in a
// constructor that chains to super — there this is not yet initialized when
// parameters are checked, so class parameters must be read from the static
// store.
func inStaticContext(n *ast.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Kind == ast.KindClassMethod {
			if cur.Static {
				return true
			}
			if cur.DeclKind == "constructor" {
				class := EnclosingClass(cur)
				return class != nil && class.SuperClass != nil
			}
			return false
		}
	}
	return false
}
