package eval_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxwalk/loxwalk/eval"
	"github.com/loxwalk/loxwalk/lexer"
	"github.com/loxwalk/loxwalk/parser"
	"github.com/loxwalk/loxwalk/resolver"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	tokens, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)

	statements, parseErrs := parser.New(tokens).Parse()
	require.Empty(t, parseErrs)

	r := resolver.New()
	resolveErrs := r.Resolve(statements)
	require.Empty(t, resolveErrs)

	var out bytes.Buffer
	evaluator := eval.New(&out, strings.NewReader(""), r.Locals)
	err := evaluator.Interpret(statements)
	return out.String(), err
}

func TestInterpret_SimpleArithmeticPrint(t *testing.T) {
	out, err := run(t, "print(1+2);")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInterpret_BlockShadowing(t *testing.T) {
	out, err := run(t, `var a=1; { var a=2; print(a); } print(a);`)
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestInterpret_ClosureAliasingCounter(t *testing.T) {
	out, err := run(t, `fun make(){ var i=0; fun inc(){ i=i+1; print(i); } return inc; } var c=make(); c(); c(); c();`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpret_SuperclassMethodDispatch(t *testing.T) {
	out, err := run(t, `class A { greet(){ print("A"); } } class B < A { greet(){ super.greet(); print("B"); } } B().greet();`)
	require.NoError(t, err)
	assert.Equal(t, "A\nB\n", out)
}

func TestInterpret_InitializerReturnsInstance(t *testing.T) {
	out, err := run(t, `class C { init(x){ this.x=x; } } print(C(7).x);`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_ForLoopWithContinue(t *testing.T) {
	out, err := run(t, `for (var i=0; i<3; i=i+1) { if (i==1) continue; print(i); }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n2\n", out)
}

func TestInterpret_ForLoopWithBreakSkipsIncrement(t *testing.T) {
	out, err := run(t, `var last=-1; var i=0; for (; i<10; i=i+1) { if (i==2) break; last=i; } print(last); print(i);`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, err := run(t, `print("ab" + 1); print(1 + "b");`)
	require.NoError(t, err)
	assert.Equal(t, "ab1\n1b\n", out)
}

func TestInterpret_AddingBooleanIsTypeError(t *testing.T) {
	_, err := run(t, `print(true + 1);`)
	require.Error(t, err)
}

func TestInterpret_NilComparisonQuirk(t *testing.T) {
	out, err := run(t, `print(nil < nil); print(nil > nil); print(nil <= nil); print(nil >= nil);`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\nfalse\nfalse\n", out)
}

func TestInterpret_DivisionByZeroYieldsInfinity(t *testing.T) {
	out, err := run(t, `print(1/0); print(-1/0); print(0/0);`)
	require.NoError(t, err)
	assert.Equal(t, "+Inf\n-Inf\nNaN\n", out)
}

func TestInterpret_BoundMethodPreservesInitializer(t *testing.T) {
	out, err := run(t, `class Foo { init(){ this.x = 5; } } print(Foo().init().x);`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestInterpret_IncorrectArity(t *testing.T) {
	_, err := run(t, `fun f(a,b){ return a+b; } f(1);`)
	require.Error(t, err)
}

func TestInterpret_TernaryShortCircuits(t *testing.T) {
	out, err := run(t, `print(true ? "yes" : missing);`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}
