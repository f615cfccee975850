package runtime

import "testing"

// identity builds the descriptor for <T>(x: T) => T the way emitted code
// does: once per call, so every call gets fresh parameters.
func identity(ctx *TypeContext) *FunctionType {
	return ctx.Function(func(fn *FunctionType) []any {
		T := fn.TypeParameter("T")
		return []any{ctx.Param("x", ctx.FlowInto(T)), ctx.Return(T)}
	})
}

func TestFreshParameterPerCall(t *testing.T) {
	ctx := New()

	call1 := identity(ctx)
	if _, err := call1.AssertParams(1.0); err != nil {
		t.Fatalf("id(1): %v", err)
	}
	if _, err := call1.AssertReturn(1.0); err != nil {
		t.Fatalf("id(1) return: %v", err)
	}

	call2 := identity(ctx)
	if _, err := call2.AssertParams("a"); err != nil {
		t.Fatalf("id(\"a\") must instantiate a fresh T: %v", err)
	}
	if _, err := call2.AssertReturn("a"); err != nil {
		t.Fatalf("id(\"a\") return: %v", err)
	}
}

func TestFirstObservationFixesParameter(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T")
	assertAccepts(t, p, 1.0)
	// Monomorphized: later values must have the first value's shape.
	assertAccepts(t, p, 2.0)
	assertRejects(t, p, "x")
}

func TestAnyBoundDoesNotRecord(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T", ctx.Any())
	assertAccepts(t, p, 1.0)
	assertAccepts(t, p, "x")
	if p.Recorded() != nil {
		t.Error("an any-bounded parameter must stay open")
	}
}

func TestBoundRejects(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T", ctx.Number())
	assertRejects(t, p, "x")
	assertAccepts(t, p, 3.0)
}

func TestFlowIntoWidensToUnion(t *testing.T) {
	ctx := New()
	pair := ctx.Function(func(fn *FunctionType) []any {
		T := fn.TypeParameter("T")
		return []any{
			ctx.Param("a", ctx.FlowInto(T)),
			ctx.Param("b", ctx.FlowInto(T)),
			ctx.Return(T),
		}
	})
	if _, err := pair.AssertParams(1.0, "x"); err != nil {
		t.Fatalf("pair(1, \"x\") must widen T: %v", err)
	}
	if _, err := pair.AssertReturn(1.0); err != nil {
		t.Fatalf("return of 1 must be accepted: %v", err)
	}
	T := pair.TypeParameters[0]
	if got := T.Recorded().String(); got != "number | string" {
		t.Errorf("recorded = %q, want number | string", got)
	}
	assertRejects(t, T, true)
}

func TestFlowIntoNormalizesDuplicates(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T")
	flow := ctx.FlowInto(p)
	assertAccepts(t, flow, 1.0)
	assertAccepts(t, flow, 2.0)
	assertAccepts(t, flow, "x")
	assertAccepts(t, flow, "y")
	if got := p.Recorded().String(); got != "number | string" {
		t.Errorf("recorded = %q, want number | string", got)
	}
}

func TestFlowIntoRespectsBound(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T", ctx.Union(ctx.Number(), ctx.String()))
	flow := ctx.FlowInto(p)
	assertAccepts(t, flow, 1.0)
	// Widening beyond the bound is refused rather than recorded.
	assertRejects(t, flow, true)
	assertAccepts(t, flow, "x")
}

func TestFlowDelegatesUpward(t *testing.T) {
	ctx := New()
	outer := ctx.TypeParameter("U")
	inner := ctx.TypeParameter("T", ctx.FlowInto(outer))
	assertAccepts(t, inner, 1.0)
	// The outer parameter records; the inner one stays untouched.
	if outer.Recorded() == nil {
		t.Fatal("outer parameter must record the observation")
	}
	if inner.Recorded() != nil {
		t.Error("inner parameter must delegate, not record")
	}
	assertRejects(t, outer, "x")
}

func TestApplyBindsFreshParameters(t *testing.T) {
	ctx := New()
	box := ctx.Type("Box", func(self TypeHandle) Type {
		T := self.TypeParameter("T")
		return ctx.Object(ctx.Property("v", T))
	})

	num := box.Apply(ctx.Number())
	assertAccepts(t, num, obj("v", 3.0))
	assertRejects(t, num, obj("v", "nope"))

	// Independent application: no state shared with the first.
	str := box.Apply(ctx.String())
	assertAccepts(t, str, obj("v", "yes"))
	assertRejects(t, str, obj("v", 3.0))
}

func TestApplyIntersectsExistingBound(t *testing.T) {
	ctx := New()
	bounded := ctx.Type("Bounded", func(self TypeHandle) Type {
		T := self.TypeParameter("T", ctx.Union(ctx.Number(), ctx.String()))
		return ctx.Object(ctx.Property("v", T))
	})
	applied := bounded.Apply(ctx.Number())
	assertAccepts(t, applied, obj("v", 1.0))
	// The application narrows the declared bound: strings were allowed by
	// the declaration but not by the instance.
	assertRejects(t, bounded.Apply(ctx.Number()), obj("v", "x"))
}

func TestApplyTreatsAnyBoundAsIdentity(t *testing.T) {
	ctx := New()
	open := ctx.Type("Open", func(self TypeHandle) Type {
		T := self.TypeParameter("T", ctx.Any())
		return ctx.Object(ctx.Property("v", T))
	})
	applied := open.Apply(ctx.Number())
	assertAccepts(t, applied, obj("v", 1.0))
	assertRejects(t, open.Apply(ctx.Number()), obj("v", "x"))
}

func TestClassParameterFixedByFirstInstance(t *testing.T) {
	ctx := New()
	box := ctx.Class("Box", func(self TypeHandle) []any {
		T := self.TypeParameter("T")
		return []any{ctx.Property("v", T)}
	})

	inst := box.Apply()
	assertAccepts(t, inst, obj("v", 3.0))
	// T is now number for this instance; a later assignment of a string
	// must fail rather than widen.
	assertRejects(t, inst, obj("v", "nope"))

	other := box.Apply()
	assertAccepts(t, other, obj("v", "fresh instance"))
}

func TestRecordingInDiscardedUnionBranchPersists(t *testing.T) {
	ctx := New()
	p := ctx.TypeParameter("T")
	u := ctx.Union(
		ctx.Object(ctx.Property("a", p), ctx.Property("b", ctx.String())),
		ctx.Any(),
	)
	// The first branch records T=number while probing, then fails on the
	// missing b; branches are tried in declared order and the recording is
	// not rolled back.
	assertAccepts(t, u, obj("a", 1.0))
	assertRejects(t, p, "x")
}
