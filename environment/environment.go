// Package environment implements the chained scope graph the evaluator
// walks. Environments are linked by pointer, not copied: a closure
// keeps its defining Environment reachable directly, so writes made
// through one alias of a captured variable are visible through every
// other alias of the same scope.
package environment

import "fmt"

type state int

const (
	stateUndeclared state = iota
	stateUnassigned
	stateAssigned
)

type binding struct {
	state state
	value any
}

// Environment is one scope in the chain. The zero value is not usable;
// construct with New or Child.
type Environment struct {
	parent *Environment
	values map[string]*binding
}

func New() *Environment {
	return &Environment{values: make(map[string]*binding)}
}

// Child spawns a new scope whose parent is e. Blocks, function calls,
// and class bodies each open one of these on entry and discard it
// (restoring the caller's current environment) on every exit path.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, values: make(map[string]*binding)}
}

// Parent returns the enclosing scope, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Define inserts name in the current scope unconditionally, even if it
// already exists there (shadowing within one scope is only reachable
// via redeclaration, which the resolver rejects for locals but allows
// at the global scope). With hasValue false the slot is left
// Declared-unassigned and value is ignored.
func (e *Environment) Define(name string, value any, hasValue bool) {
	if !hasValue {
		e.values[name] = &binding{state: stateUnassigned}
		return
	}
	e.values[name] = &binding{state: stateAssigned, value: value}
}

// Assign overwrites name's value in the current scope only. Used by
// the evaluator for references the resolver left unresolved (only
// valid at the globals root) and for local depth-indexed writes, which
// first call Ancestor to reach the right scope, then Assign there.
func (e *Environment) Assign(name string, value any) error {
	b, ok := e.values[name]
	if !ok {
		return fmt.Errorf("undeclared variable %q", name)
	}
	b.state = stateAssigned
	b.value = value
	return nil
}

// Lookup reads name from the current scope only, distinguishing an
// unassigned slot from one that was never declared here. Used only for
// globals, whose references carry no resolver depth.
func (e *Environment) Lookup(name string) (value any, assigned bool, declared bool) {
	b, ok := e.values[name]
	if !ok {
		return nil, false, false
	}
	return b.value, b.state == stateAssigned, true
}

// Ancestor walks depth parent links up the chain.
func (e *Environment) Ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}

// LookupAt ascends depth parents then reads name there. The resolver
// guarantees the slot exists; an unassigned read is still reported
// since `var x; print(x);` is legal syntax that should surface as an
// UnassignedVariable error at evaluation time.
func (e *Environment) LookupAt(depth int, name string) (value any, assigned bool) {
	b := e.Ancestor(depth).values[name]
	if b == nil {
		return nil, false
	}
	return b.value, b.state == stateAssigned
}

// AssignAt ascends depth parents then writes name there.
func (e *Environment) AssignAt(depth int, name string, value any) error {
	return e.Ancestor(depth).Assign(name, value)
}

// Has reports whether name has a binding in this exact scope (not an
// ancestor).
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns every name bound directly in this scope, for
// diagnostics' did-you-mean suggestions.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
