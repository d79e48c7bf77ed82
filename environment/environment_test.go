package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxwalk/loxwalk/environment"
)

func TestEnvironment_DefineAndLookup(t *testing.T) {
	env := environment.New()
	env.Define("x", 1, true)
	val, assigned, declared := env.Lookup("x")
	require.True(t, declared)
	require.True(t, assigned)
	assert.Equal(t, 1, val)
}

func TestEnvironment_UndeclaredLookupFails(t *testing.T) {
	env := environment.New()
	_, _, declared := env.Lookup("missing")
	assert.False(t, declared)
}

func TestEnvironment_UnassignedVariableIsDeclaredButNotAssigned(t *testing.T) {
	env := environment.New()
	env.Define("x", nil, false)
	_, assigned, declared := env.Lookup("x")
	assert.True(t, declared)
	assert.False(t, assigned)
}

func TestEnvironment_ChildSharesParentPointer(t *testing.T) {
	parent := environment.New()
	parent.Define("i", 0, true)
	child := parent.Child()

	require.NoError(t, child.AssignAt(1, "i", 1))
	val, _, _ := parent.Lookup("i")
	assert.Equal(t, 1, val, "assigning through a child must mutate the shared parent binding, not shadow it")
}

func TestEnvironment_ChildDefineShadowsParent(t *testing.T) {
	parent := environment.New()
	parent.Define("i", 0, true)
	child := parent.Child()
	child.Define("i", 99, true)

	childVal, _, _ := child.Lookup("i")
	parentVal, _, _ := parent.Lookup("i")
	assert.Equal(t, 99, childVal)
	assert.Equal(t, 0, parentVal)
}

func TestEnvironment_AncestorWalksNLevels(t *testing.T) {
	root := environment.New()
	root.Define("x", "root", true)
	a := root.Child()
	b := a.Child()

	val, assigned := b.LookupAt(2, "x")
	require.True(t, assigned)
	assert.Equal(t, "root", val)
}

func TestEnvironment_AssignAtMutatesCorrectAncestor(t *testing.T) {
	root := environment.New()
	root.Define("x", "root", true)
	a := root.Child()
	b := a.Child()

	require.NoError(t, b.AssignAt(2, "x", "changed"))
	val, _, _ := root.Lookup("x")
	assert.Equal(t, "changed", val)
}

func TestEnvironment_AssignToUndeclaredNameFails(t *testing.T) {
	env := environment.New()
	err := env.Assign("missing", 1)
	assert.Error(t, err)
}

func TestEnvironment_Names(t *testing.T) {
	env := environment.New()
	env.Define("a", 1, true)
	env.Define("b", 2, true)
	assert.ElementsMatch(t, []string{"a", "b"}, env.Names())
}
