package runtime

import (
	"fmt"
	"strings"
)

// FunctionTypeParam is a named parameter of a function signature.
type FunctionTypeParam struct {
	Name     string
	Type     Type
	Optional bool
}

func (p *FunctionTypeParam) String() string {
	opt := ""
	if p.Optional {
		opt = "?"
	}
	return fmt.Sprintf("%s%s: %s", p.Name, opt, p.Type)
}

func (p *FunctionTypeParam) JSON() any {
	return map[string]any{"name": p.Name, "type": p.Type.JSON(), "optional": p.Optional}
}

// FunctionTypeRestParam collects trailing arguments.
type FunctionTypeRestParam struct {
	Name string
	Type Type
}

func (p *FunctionTypeRestParam) String() string {
	return fmt.Sprintf("...%s: %s", p.Name, p.Type)
}

func (p *FunctionTypeRestParam) JSON() any {
	return map[string]any{"name": p.Name, "type": p.Type.JSON()}
}

// FunctionTypeReturn is the declared return type of a signature.
type FunctionTypeReturn struct {
	Type Type
}

func (r *FunctionTypeReturn) String() string { return r.Type.String() }
func (r *FunctionTypeReturn) JSON() any      { return r.Type.JSON() }

// FunctionBodyCreator builds the members of a parameterized signature. It is
// invoked with the signature itself so type parameters declared through
// TypeParameter are scoped to it; the transformer constructs the descriptor
// inside the function body, which is what makes each call's parameters fresh.
type FunctionBodyCreator func(fn *FunctionType) []any

// FunctionType is a structural function signature. A bare Accepts only
// demands a callable value; the signature is enforced at call sites through
// AssertParams and AssertReturn.
type FunctionType struct {
	base
	TypeParameters []*TypeParameter
	Params         []*FunctionTypeParam
	RestParam      *FunctionTypeRestParam
	ReturnType     *FunctionTypeReturn
	creator        FunctionBodyCreator
}

func (t *FunctionType) TypeName() string            { return "FunctionType" }
func (t *FunctionType) AcceptsType(other Type) bool { return acceptsType(t, other) }
func (t *FunctionType) Unwrap() Type                { t.resolve(); return t }

func (t *FunctionType) Accepts(v any) bool {
	return isCallable(v)
}

func (t *FunctionType) CollectErrors(val *Validation, path Path, v any) bool {
	if isCallable(v) {
		return false
	}
	val.AddError(path, t, v)
	return true
}

// resolve invokes the body creator once, collecting the declared members.
func (t *FunctionType) resolve() {
	if t.creator == nil {
		return
	}
	creator := t.creator
	t.creator = nil
	t.addMembers(creator(t))
}

// addMembers sorts raw signature members into their slots.
func (t *FunctionType) addMembers(members []any) {
	for _, m := range members {
		switch member := m.(type) {
		case *FunctionTypeParam:
			t.Params = append(t.Params, member)
		case *FunctionTypeRestParam:
			t.RestParam = member
		case *FunctionTypeReturn:
			t.ReturnType = member
		case nil:
			// tolerated so creators can build member lists conditionally
		default:
			panic(fmt.Sprintf("runtype: invalid function member %T", m))
		}
	}
}

// TypeParameter declares a type parameter scoped to this signature.
func (t *FunctionType) TypeParameter(id string, bound ...Type) *TypeParameter {
	p := &TypeParameter{base: base{t.context}, ID: id}
	if len(bound) > 0 {
		p.Bound = bound[0]
	}
	t.TypeParameters = append(t.TypeParameters, p)
	return p
}

func (t *FunctionType) String() string {
	t.resolve()
	var sb strings.Builder
	if len(t.TypeParameters) > 0 {
		ids := make([]string, len(t.TypeParameters))
		for i, p := range t.TypeParameters {
			ids[i] = p.ID
			if p.Bound != nil {
				ids[i] += ": " + p.Bound.String()
			}
		}
		sb.WriteString("<" + strings.Join(ids, ", ") + ">")
	}
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.RestParam != nil {
		parts = append(parts, t.RestParam.String())
	}
	sb.WriteString("(" + strings.Join(parts, ", ") + ") => ")
	if t.ReturnType != nil {
		sb.WriteString(t.ReturnType.String())
	} else {
		sb.WriteString("any")
	}
	return sb.String()
}

func (t *FunctionType) JSON() any {
	t.resolve()
	params := make([]any, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.JSON()
	}
	out := map[string]any{"kind": "function", "params": params}
	if t.RestParam != nil {
		out["rest"] = t.RestParam.JSON()
	}
	if t.ReturnType != nil {
		out["returnType"] = t.ReturnType.JSON()
	}
	return out
}

// AssertParams checks call arguments against the signature in declared
// order, honouring the context's assertion mode, and returns them unchanged.
// Surplus arguments are matched against the rest parameter, if any.
func (t *FunctionType) AssertParams(args ...any) ([]any, error) {
	mode := t.context.Mode()
	if mode == ModeOff {
		return args, nil
	}
	t.resolve()
	val := NewValidation(t.context)
	for i, p := range t.Params {
		var arg any = Undefined
		if i < len(args) {
			arg = args[i]
		}
		if p.Optional && IsUndefined(arg) {
			continue
		}
		p.Type.CollectErrors(val, Path{p.Name}, arg)
	}
	if t.RestParam != nil {
		for i := len(t.Params); i < len(args); i++ {
			t.RestParam.Type.CollectErrors(val, Path{t.RestParam.Name, i - len(t.Params)}, args[i])
		}
	}
	return args, t.context.settle(val)
}

// AssertReturn checks a return value against the declared return type,
// honouring the context's assertion mode, and returns it unchanged.
func (t *FunctionType) AssertReturn(v any) (any, error) {
	if t.context.Mode() == ModeOff {
		return v, nil
	}
	t.resolve()
	if t.ReturnType == nil {
		return v, nil
	}
	val := NewValidation(t.context)
	t.ReturnType.Type.CollectErrors(val, Path{"return"}, v)
	return v, t.context.settle(val)
}
