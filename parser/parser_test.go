package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/lexer"
	"github.com/loxwalk/loxwalk/parser"
)

func parse(t *testing.T, src string) ([]ast.Stmt, []error) {
	t.Helper()
	tokens, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)
	stmts, errs := parser.New(tokens).Parse()
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return stmts, out
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	stmts, errs := parse(t, "1 + 2 * 3;")
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	exprStmt := stmts[0].(*ast.ExpressionStmt)
	bin := exprStmt.Expr.(*ast.Binary)
	assert.Equal(t, ast.Plus, bin.Op.Kind)
	_, rightIsMul := bin.Right.(*ast.Binary)
	assert.True(t, rightIsMul)
}

func TestParse_Ternary(t *testing.T) {
	stmts, errs := parse(t, "true ? 1 : 2;")
	require.Empty(t, errs)
	_, ok := stmts[0].(*ast.ExpressionStmt).Expr.(*ast.Ternary)
	assert.True(t, ok)
}

func TestParse_AssignmentTargetVariable(t *testing.T) {
	stmts, errs := parse(t, "x = 1;")
	require.Empty(t, errs)
	_, ok := stmts[0].(*ast.ExpressionStmt).Expr.(*ast.Assignment)
	assert.True(t, ok)
}

func TestParse_InvalidAssignmentTarget(t *testing.T) {
	_, errs := parse(t, "1 = 2;")
	require.Len(t, errs, 1)
}

func TestParse_ForDesugarsToBlockWhile(t *testing.T) {
	stmts, errs := parse(t, "for (var i = 0; i < 3; i = i + 1) print(i);")
	require.Empty(t, errs)
	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)
	_, isDecl := block.Statements[0].(*ast.Declaration)
	assert.True(t, isDecl)
	whileStmt, isWhile := block.Statements[1].(*ast.While)
	require.True(t, isWhile)
	require.NotNil(t, whileStmt.Post, "the increment clause must be carried on Post, not folded into Body, so continue still runs it")
	_, bodyIsExprStmt := whileStmt.Body.(*ast.ExpressionStmt)
	assert.True(t, bodyIsExprStmt, "a single-statement for-body should not be wrapped in an extra Block")
}

func TestParse_ClassWithSuperclassAndInit(t *testing.T) {
	stmts, errs := parse(t, `class A { init(x) { this.x = x; } } class B < A {}`)
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
	classA := stmts[0].(*ast.ClassStmt)
	assert.Equal(t, "A", classA.Name.Identifier)
	assert.Len(t, classA.Methods, 1)
	assert.Equal(t, "init", classA.Methods[0].Name)
	classB := stmts[1].(*ast.ClassStmt)
	require.NotNil(t, classB.Super)
	assert.Equal(t, "A", classB.Super.Ref.Identifier)
}

func TestParse_SelfInheritanceAllowedAtParseTime(t *testing.T) {
	// Self-inheritance is a resolver error, not a parse error.
	_, errs := parse(t, "class A < A {}")
	assert.Empty(t, errs)
}

func TestParse_MissingOperandIsReported(t *testing.T) {
	_, errs := parse(t, "var x = * 3;")
	require.Len(t, errs, 1)
}

func TestParse_SynchronizeRecoversAfterError(t *testing.T) {
	stmts, errs := parse(t, "var x = ; var y = 2;")
	require.Len(t, errs, 1)
	require.Empty(t, stmts, "a top-level error must discard the whole run, not just the failed declaration")
}

func TestParse_AnonymousFunction(t *testing.T) {
	stmts, errs := parse(t, "var f = fun (a, b) { return a + b; };")
	require.Empty(t, errs)
	decl := stmts[0].(*ast.Declaration)
	anon, ok := decl.Initializer.(*ast.AnonymousFunction)
	require.True(t, ok)
	assert.Equal(t, "", anon.Fn.Name)
	assert.Len(t, anon.Fn.Params, 2)
}

func TestParse_SuperMethodCall(t *testing.T) {
	stmts, errs := parse(t, `class B < A { greet() { super.greet(); } }`)
	require.Empty(t, errs)
	class := stmts[0].(*ast.ClassStmt)
	callExpr := class.Methods[0].Body[0].(*ast.ExpressionStmt).Expr.(*ast.Call)
	super, ok := callExpr.Callee.(*ast.Super)
	require.True(t, ok)
	assert.Equal(t, "greet", super.Method)
	assert.Equal(t, "super", super.Ref.Identifier)
}
