package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/value"
)

func TestNumber_IntegerFormatsWithoutDecimal(t *testing.T) {
	assert.Equal(t, "3", value.Number(3).String())
	assert.Equal(t, "-7", value.Number(-7).String())
}

func TestNumber_FractionalKeepsDecimal(t *testing.T) {
	assert.Equal(t, "3.5", value.Number(3.5).String())
}

func TestNumber_NonFiniteValues(t *testing.T) {
	assert.Equal(t, "+Inf", value.Number(math.Inf(1)).String())
	assert.Equal(t, "-Inf", value.Number(math.Inf(-1)).String())
	assert.Equal(t, "NaN", value.Number(math.NaN()).String())
}

func TestTruthy(t *testing.T) {
	assert.False(t, value.Truthy(value.Nil))
	assert.False(t, value.Truthy(value.Boolean(false)))
	assert.True(t, value.Truthy(value.Boolean(true)))
	assert.True(t, value.Truthy(value.Number(0)))
	assert.True(t, value.Truthy(value.String("")))
}

func TestEqual_CrossTypeIsAlwaysUnequal(t *testing.T) {
	assert.False(t, value.Equal(value.Number(1), value.String("1")))
	assert.False(t, value.Equal(value.Nil, value.Boolean(false)))
}

func TestEqual_NilIsOnlyEqualToNil(t *testing.T) {
	assert.True(t, value.Equal(value.Nil, value.Nil))
}

func TestEqual_InstanceIdentityNotStructural(t *testing.T) {
	class := &value.Class{Name: "A", Methods: map[string]*value.Function{}}
	a := value.NewInstance(class)
	b := value.NewInstance(class)
	assert.True(t, value.Equal(a, a))
	assert.False(t, value.Equal(a, b))
}

func TestInstance_StringWrapsClassNameInAngleBrackets(t *testing.T) {
	class := &value.Class{Name: "Counter", Methods: map[string]*value.Function{}}
	instance := value.NewInstance(class)
	assert.Equal(t, "<Counter instance>", instance.String())
}

func TestClass_FindMethodWalksSuperclassChain(t *testing.T) {
	base := &value.Class{Name: "Base", Methods: map[string]*value.Function{
		"greet": {},
	}}
	derived := &value.Class{Name: "Derived", Superclass: base, Methods: map[string]*value.Function{}}

	m, ok := derived.FindMethod("greet")
	assert.True(t, ok)
	assert.NotNil(t, m)
}

func TestClass_ArityDelegatesToInit(t *testing.T) {
	noInit := &value.Class{Name: "A", Methods: map[string]*value.Function{}}
	assert.Equal(t, 0, noInit.Arity())

	withInit := &value.Class{Name: "B", Methods: map[string]*value.Function{
		"init": {Decl: &ast.FunctionBody{Name: "init", Params: []ast.Reference{{Identifier: "x"}, {Identifier: "y"}}}},
	}}
	assert.Equal(t, 2, withInit.Arity())
}
