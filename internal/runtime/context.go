package runtime

import (
	"fmt"
	"log"
)

// Mode selects what a value-site check does with collected errors.
type Mode int

const (
	// ModeAssert raises a Failure aggregating all records.
	ModeAssert Mode = iota
	// ModeWarn emits the records to the warning handler and lets the
	// value through.
	ModeWarn
	// ModeOff skips checking entirely.
	ModeOff
)

func (m Mode) String() string {
	switch m {
	case ModeAssert:
		return "assert"
	case ModeWarn:
		return "warn"
	case ModeOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseMode parses an assertion mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "assert", "":
		return ModeAssert, nil
	case "warn":
		return ModeWarn, nil
	case "off":
		return ModeOff, nil
	}
	return ModeAssert, fmt.Errorf("runtype: invalid assertion mode %q (want off, warn or assert)", s)
}

// Predicate answers whether a value belongs to a named nominal type,
// independent of structure.
type Predicate func(v any) bool

// WarningHandler receives the validation of a failed check in warn mode.
type WarningHandler func(val *Validation)

// TypeContext is the factory and registry root for descriptors. Contexts
// form a tree (module → class → method); a child inherits name resolution,
// predicates, mode and warning handling from its parent and may shadow them.
type TypeContext struct {
	parent            *TypeContext
	nameRegistry      map[string]Type
	predicateRegistry map[string]Predicate
	warnHandler       WarningHandler
	mode              Mode
	modeSet           bool
	module            *ModuleDeclaration
}

// New creates a root context with the builtin nominal predicates seeded.
func New() *TypeContext {
	c := &TypeContext{
		nameRegistry:      make(map[string]Type),
		predicateRegistry: make(map[string]Predicate),
	}
	seedPredicates(c)
	return c
}

// Child creates a nested context that resolves through the receiver.
func (c *TypeContext) Child() *TypeContext {
	return &TypeContext{parent: c}
}

// Mode returns the effective assertion mode, inherited from the nearest
// ancestor that set one. Descriptors read it at site entry, so switching is
// immediate for subsequent checks.
func (c *TypeContext) Mode() Mode {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.modeSet || ctx.parent == nil {
			return ctx.mode
		}
	}
	return ModeAssert
}

// SetMode switches the assertion mode for this context subtree.
func (c *TypeContext) SetMode(m Mode) {
	c.mode = m
	c.modeSet = true
}

// OnWarning installs the handler that receives warn-mode validations.
func (c *TypeContext) OnWarning(h WarningHandler) {
	c.warnHandler = h
}

// emitWarning routes a failed warn-mode validation to the nearest handler.
func (c *TypeContext) emitWarning(val *Validation) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.warnHandler != nil {
			ctx.warnHandler(val)
			return
		}
	}
	for _, e := range val.Errors() {
		log.Printf("runtype: warning: %s", e.Message())
	}
}

// settle turns a finished validation into the mode's outcome.
func (c *TypeContext) settle(val *Validation) error {
	if !val.HasErrors() {
		return nil
	}
	if c.Mode() == ModeWarn {
		c.emitWarning(val)
		return nil
	}
	return &Failure{Errors: val.Errors()}
}

// Assert checks v against t under the current mode and returns it.
// In assert mode a failing value yields a *Failure.
func (c *TypeContext) Assert(t Type, v any) (any, error) {
	if c.Mode() == ModeOff {
		return v, nil
	}
	val := NewValidation(c)
	t.CollectErrors(val, nil, v)
	return v, c.settle(val)
}

// Check is Assert under the name value sites are emitted with.
func (c *TypeContext) Check(t Type, v any) (any, error) {
	return c.Assert(t, v)
}

// Warn checks v against t and emits a warning on mismatch in both assert and
// warn mode; in off mode it does not check. The value always passes through.
func (c *TypeContext) Warn(t Type, v any) any {
	if c.Mode() == ModeOff {
		return v
	}
	val := NewValidation(c)
	if t.CollectErrors(val, nil, v) {
		c.emitWarning(val)
	}
	return v
}

// --- Registries ---

// Declare registers a named type. Accepted forms:
//
//	Declare(alias)           — *TypeAlias under its own name
//	Declare(class)           — *ClassType under its own name
//	Declare(module)          — *ModuleDeclaration under "module:<name>"
//	Declare("name", type)    — an explicit name (declared functions/variables)
//
// Registration is write-once per name per context; re-registration is a
// fatal configuration error.
func (c *TypeContext) Declare(subject any, rest ...any) Type {
	switch s := subject.(type) {
	case *TypeAlias:
		c.register(s.Name, s)
		return s
	case *ClassType:
		c.register(s.Name, s)
		return s
	case *ModuleDeclaration:
		c.register("module:"+s.Name, s)
		return s
	case string:
		if len(rest) != 1 {
			panic("runtype: Declare(name, type) takes exactly one type")
		}
		t, ok := rest[0].(Type)
		if !ok {
			panic(fmt.Sprintf("runtype: Declare(name, type) got %T", rest[0]))
		}
		c.register(s, t)
		return t
	default:
		panic(fmt.Sprintf("runtype: cannot declare %T", subject))
	}
}

func (c *TypeContext) register(name string, t Type) {
	if c.nameRegistry == nil {
		c.nameRegistry = make(map[string]Type)
	}
	if _, exists := c.nameRegistry[name]; exists {
		panic(fmt.Sprintf("runtype: type %q is already registered in this context", name))
	}
	c.nameRegistry[name] = t
}

// LookupType resolves a registered name, walking up the context tree.
func (c *TypeContext) LookupType(name string) Type {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if t, ok := ctx.nameRegistry[name]; ok {
			return t
		}
	}
	return nil
}

// RegisterPredicate installs a nominal predicate. Unlike Declare this
// overwrites silently, so hosts can replace environment predicates.
func (c *TypeContext) RegisterPredicate(name string, pred Predicate) {
	if c.predicateRegistry == nil {
		c.predicateRegistry = make(map[string]Predicate)
	}
	c.predicateRegistry[name] = pred
}

// LookupPredicate resolves a nominal predicate, walking up the tree.
func (c *TypeContext) LookupPredicate(name string) Predicate {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if p, ok := ctx.predicateRegistry[name]; ok {
			return p
		}
	}
	return nil
}

// seedPredicates registers the builtin nominal types.
func seedPredicates(c *TypeContext) {
	c.RegisterPredicate("Array", func(v any) bool {
		_, ok := sequenceOf(v)
		return ok
	})
	c.RegisterPredicate("$ReadOnlyArray", func(v any) bool {
		_, ok := v.(FrozenArray)
		return ok
	})
	c.RegisterPredicate("Map", func(v any) bool {
		_, ok := v.(map[any]any)
		return ok
	})
	c.RegisterPredicate("Set", func(v any) bool {
		_, ok := v.(map[any]struct{})
		return ok
	})
	c.RegisterPredicate("Promise", func(v any) bool {
		// Thenable check.
		if m, ok := objectOf(v); ok {
			return isCallable(m["then"])
		}
		return false
	})
}
