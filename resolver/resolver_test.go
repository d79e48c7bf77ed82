package resolver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/lexer"
	"github.com/loxwalk/loxwalk/parser"
	"github.com/loxwalk/loxwalk/resolver"
)

func resolve(t *testing.T, src string) ([]ast.Stmt, *resolver.Resolver) {
	t.Helper()
	tokens, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)
	statements, parseErrs := parser.New(tokens).Parse()
	require.Empty(t, parseErrs)
	r := resolver.New()
	return statements, r
}

func TestResolve_GlobalsAreOmittedFromLocals(t *testing.T) {
	statements, r := resolve(t, "var x = 1; print(x);")
	errs := r.Resolve(statements)
	require.Empty(t, errs)
	assert.Empty(t, r.Locals)
}

func TestResolve_LocalDepthIsRecorded(t *testing.T) {
	statements, r := resolve(t, "{ var x = 1; { print(x); } }")
	errs := r.Resolve(statements)
	require.Empty(t, errs)
	require.Len(t, r.Locals, 1)
	for ref, depth := range r.Locals {
		assert.Equal(t, "x", ref.Identifier)
		assert.Equal(t, 1, depth)
	}
}

func TestResolve_SelfInitializerReadIsAnError(t *testing.T) {
	statements, r := resolve(t, "var x = 1; { var x = x; }")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.AccessInOwnInitializer, errs[0].Kind)
}

func TestResolve_RedeclarationInSameScopeIsAnError(t *testing.T) {
	statements, r := resolve(t, "{ var x = 1; var x = 2; }")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.RedeclareVariable, errs[0].Kind)
}

func TestResolve_GlobalRedeclarationIsAllowed(t *testing.T) {
	statements, r := resolve(t, "var x = 1; var x = 2;")
	errs := r.Resolve(statements)
	assert.Empty(t, errs)
}

func TestResolve_ReturnOutsideFunctionIsAnError(t *testing.T) {
	statements, r := resolve(t, "return 1;")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.UnexpectedReturn, errs[0].Kind)
}

func TestResolve_ValueReturnInInitializerIsAnError(t *testing.T) {
	statements, r := resolve(t, "class A { init(){ return 1; } }")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.CannotReturnFromInit, errs[0].Kind)
}

func TestResolve_BareReturnInInitializerIsAllowed(t *testing.T) {
	statements, r := resolve(t, "class A { init(){ return; } }")
	errs := r.Resolve(statements)
	assert.Empty(t, errs)
}

func TestResolve_BreakOutsideLoopIsAnError(t *testing.T) {
	statements, r := resolve(t, "break;")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.UnexpectedBreak, errs[0].Kind)
}

func TestResolve_LoopFlagDoesNotLeakIntoNestedFunction(t *testing.T) {
	statements, r := resolve(t, "while (true) { fun f() { break; } }")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.UnexpectedBreak, errs[0].Kind)
}

func TestResolve_ThisOutsideClassIsAnError(t *testing.T) {
	statements, r := resolve(t, "print(this);")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.UnexpectedThis, errs[0].Kind)
}

func TestResolve_SuperWithoutSuperclassIsAnError(t *testing.T) {
	statements, r := resolve(t, "class A { f(){ super.f(); } }")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.UnexpectedSuper, errs[0].Kind)
}

func TestResolve_SelfInheritanceIsAnError(t *testing.T) {
	statements, r := resolve(t, "class A < A {}")
	errs := r.Resolve(statements)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ClassInheritsFromItself, errs[0].Kind)
}

func TestResolve_SuperAndThisDepthsAreOneApart(t *testing.T) {
	statements, r := resolve(t, `class A { f(){} } class B < A { g(){ super.f(); print(this); } }`)
	errs := r.Resolve(statements)
	require.Empty(t, errs)

	var superDepth, thisDepth int
	var foundSuper, foundThis bool
	for ref, depth := range r.Locals {
		switch ref.Identifier {
		case "super":
			superDepth, foundSuper = depth, true
		case "this":
			thisDepth, foundThis = depth, true
		}
	}
	require.True(t, foundSuper)
	require.True(t, foundThis)
	assert.Equal(t, superDepth-1, thisDepth)
}

func TestResolve_LocalsKeyedByPositionNotJustName(t *testing.T) {
	statements, r := resolve(t, "{ var x = 1; print(x); print(x); }")
	errs := r.Resolve(statements)
	require.Empty(t, errs)
	assert.Len(t, r.Locals, 2)
	if diff := cmp.Diff(1, len(r.Locals)); diff == "" {
		t.Fatalf("expected two distinct reference keys, got only one")
	}
}
