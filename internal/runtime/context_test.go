package runtime

import (
	"strings"
	"testing"
)

func TestAssertModeRaisesFailure(t *testing.T) {
	ctx := New()
	thing := ctx.Object(ctx.Property("id", ctx.Number()))
	if _, err := ctx.Assert(thing, obj("id", 1.0)); err != nil {
		t.Fatalf("conforming value: %v", err)
	}
	_, err := ctx.Assert(thing, obj("id", "x"))
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "input.id") {
		t.Errorf("failure message %q should name the path", err.Error())
	}
}

func TestWarnModeEmitsAndPasses(t *testing.T) {
	ctx := New()
	ctx.SetMode(ModeWarn)
	var warned []*Validation
	ctx.OnWarning(func(val *Validation) { warned = append(warned, val) })

	v, err := ctx.Assert(ctx.Number(), "not a number")
	if err != nil {
		t.Fatalf("warn mode must not raise: %v", err)
	}
	if v != "not a number" {
		t.Errorf("value must pass through, got %v", v)
	}
	if len(warned) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warned))
	}
	if !strings.Contains(warned[0].String(), "number") {
		t.Errorf("warning %q should mention the expected type", warned[0])
	}
}

func TestOffModeIsNoOp(t *testing.T) {
	ctx := New()
	ctx.SetMode(ModeOff)
	ctx.OnWarning(func(val *Validation) { t.Error("off mode must not warn") })
	if _, err := ctx.Assert(ctx.Number(), "nope"); err != nil {
		t.Fatalf("off mode must not raise: %v", err)
	}
	fn := ctx.Function(ctx.Param("x", ctx.Number()))
	if _, err := fn.AssertParams("nope"); err != nil {
		t.Fatalf("off mode must skip param checks: %v", err)
	}
}

func TestModeSwitchIsImmediate(t *testing.T) {
	ctx := New()
	num := ctx.Number()
	if _, err := ctx.Assert(num, "x"); err == nil {
		t.Fatal("assert mode should fail")
	}
	ctx.SetMode(ModeOff)
	if _, err := ctx.Assert(num, "x"); err != nil {
		t.Fatalf("mode switch must apply to the next site: %v", err)
	}
	ctx.SetMode(ModeAssert)
	if _, err := ctx.Assert(num, "x"); err == nil {
		t.Fatal("switching back must re-enable checks")
	}
}

func TestChildContextInheritsAndShadows(t *testing.T) {
	root := New()
	root.Declare(root.Type("Id", root.Number()))
	child := root.Child()

	if child.LookupType("Id") == nil {
		t.Fatal("child must resolve parent names")
	}
	child.Declare(child.Type("Id", child.String()))
	if !child.LookupType("Id").Accepts("x") {
		t.Error("child declaration must shadow the parent")
	}
	if !root.LookupType("Id").Accepts(1.0) {
		t.Error("parent must keep its own declaration")
	}

	child.SetMode(ModeOff)
	if root.Mode() != ModeAssert {
		t.Error("child mode must not leak to the parent")
	}
	if child.Mode() != ModeOff {
		t.Error("child mode must apply to the child")
	}
}

func TestDuplicateDeclarationIsFatal(t *testing.T) {
	ctx := New()
	ctx.Declare(ctx.Type("Once", ctx.Number()))
	defer func() {
		if recover() == nil {
			t.Fatal("re-registration must panic")
		}
	}()
	ctx.Declare(ctx.Type("Once", ctx.String()))
}

func TestPredicateOverwriteIsSilent(t *testing.T) {
	ctx := New()
	ctx.RegisterPredicate("Thing", func(v any) bool { return v == "a" })
	ctx.RegisterPredicate("Thing", func(v any) bool { return v == "b" })
	nom := ctx.Nominal("Thing")
	assertRejects(t, nom, "a")
	assertAccepts(t, nom, "b")
}

func TestRefLateBinding(t *testing.T) {
	ctx := New()
	ref := ctx.Ref("Later")
	ctx.Declare(ctx.Type("Later", ctx.Object(ctx.Property("ok", ctx.Boolean()))))
	assertAccepts(t, ref, obj("ok", true))
	assertRejects(t, ref, obj("ok", 1.0))
}

func TestRefResolvesNominalPredicates(t *testing.T) {
	ctx := New()
	assertAccepts(t, ctx.Ref("Map"), map[any]any{})
	assertRejects(t, ctx.Ref("Map"), []any{})
	assertAccepts(t, ctx.Ref("Set"), map[any]struct{}{})
	assertAccepts(t, ctx.Ref("Promise"), obj("then", func() {}))
	assertRejects(t, ctx.Ref("Promise"), obj("then", "soon"))
	assertAccepts(t, ctx.Ref("$ReadOnlyArray"), FrozenArray{1.0})
	assertRejects(t, ctx.Ref("$ReadOnlyArray"), []any{1.0})
}

func TestRefArrayChecksElements(t *testing.T) {
	ctx := New()
	arr := ctx.Ref("Array", ctx.Number())
	assertAccepts(t, arr, []any{1.0, 2.0})

	val := NewValidation(ctx)
	if !arr.CollectErrors(val, nil, []any{1.0, "x"}) {
		t.Fatal("expected failure")
	}
	if got := val.Errors()[0].Path.String(); got != "input[1]" {
		t.Errorf("path = %q, want input[1]", got)
	}
}

func TestUnresolvedRefPanics(t *testing.T) {
	ctx := New()
	defer func() {
		if recover() == nil {
			t.Fatal("checking an unresolved reference must panic")
		}
	}()
	ctx.Ref("NeverDeclared").Accepts(1.0)
}

func TestModuleDeclaration(t *testing.T) {
	ctx := New()
	mod := ctx.Module("fs", func(inner *TypeContext) {
		inner.Declare("readFile", inner.Function(
			inner.Param("path", inner.String()),
			inner.Return(inner.String()),
		))
		inner.ModuleExports(inner.Object(inner.Property("readFile", inner.Function())))
	})
	ctx.Declare(mod)

	if ctx.LookupType("module:fs") == nil {
		t.Fatal("module must register under its name")
	}
	if mod.Inner.LookupType("readFile") == nil {
		t.Fatal("module body declarations must land in the module context")
	}
	assertAccepts(t, mod, obj("readFile", func() {}))
	assertRejects(t, mod, obj("missing", 1.0))
}

func TestAcceptsTypeRelations(t *testing.T) {
	ctx := New()
	cases := []struct {
		receiver Type
		other    Type
		want     bool
	}{
		{ctx.Number(), ctx.Number(42), true},
		{ctx.Number(42), ctx.Number(), false},
		{ctx.Any(), ctx.Empty(), true},
		{ctx.Union(ctx.Number(), ctx.String()), ctx.String(), true},
		{ctx.Union(ctx.Number(), ctx.String()), ctx.Boolean(), false},
		{ctx.Nullable(ctx.Number()), ctx.Null(), true},
		{ctx.Nullable(ctx.Number()), ctx.Number(), true},
		{ctx.Array(ctx.Number()), ctx.Array(ctx.Number(1)), true},
		{ctx.Array(ctx.Number()), ctx.Array(ctx.String()), false},
		{ctx.Array(ctx.Number()), ctx.Tuple(ctx.Number(), ctx.Number()), true},
		{ctx.Tuple(ctx.Number()), ctx.Tuple(ctx.Number(), ctx.String()), true},
		{ctx.Tuple(ctx.Number(), ctx.String()), ctx.Tuple(ctx.Number()), false},
		{
			ctx.Object(ctx.Property("a", ctx.Number())),
			ctx.Object(ctx.Property("a", ctx.Number()), ctx.Property("b", ctx.String())),
			true,
		},
		{
			ctx.Object(ctx.Property("a", ctx.Number())),
			ctx.Object(ctx.Property("b", ctx.String())),
			false,
		},
		{
			ctx.ExactObject(ctx.Property("a", ctx.Number())),
			ctx.Object(ctx.Property("a", ctx.Number()), ctx.Property("b", ctx.String())),
			false,
		},
	}
	for _, c := range cases {
		if got := c.receiver.AcceptsType(c.other); got != c.want {
			t.Errorf("%s.AcceptsType(%s) = %v, want %v", c.receiver, c.other, got, c.want)
		}
	}
}
