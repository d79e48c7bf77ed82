package value

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/environment"
)

// Callable is a sealed marker interface implemented only by the
// callable kinds defined in this file (NativeFunction, Function,
// Class). The evaluator type-switches on the concrete type to decide
// how to invoke it; this interface exists only so callers can ask
// "is this thing callable at all" with one assertion.
type Callable interface {
	Value
	Arity() int
	identity() any
}

// NativeFunction wraps a built-in such as clock/print/readLine. Go
// has no native way to compare closures, so identity is the function
// pointer's slot address via a boxed struct pointer: two
// *NativeFunction built from the same registration compare equal
// because registration only happens once.
type NativeFunction struct {
	Name    string
	NArity  int
	Handler func(args []Value) (Value, error)
}

func (*NativeFunction) Type() string       { return "Callable" }
func (*NativeFunction) String() string     { return "<native fn>" }
func (n *NativeFunction) Arity() int       { return n.NArity }
func (n *NativeFunction) identity() any    { return n }

// Function is a user-defined function or method: a name (empty for
// anonymous functions), parameter list, body, the environment it
// closed over at definition time, and whether it is a class's `init`
// method (which changes what `return` does — see Bind).
type Function struct {
	Decl          *ast.FunctionBody
	Closure       *environment.Environment
	IsInitializer bool
}

func (*Function) Type() string   { return "Callable" }
func (f *Function) String() string {
	if f.Decl.Name == "" {
		return "<anonymous fn>"
	}
	return "<fn " + f.Decl.Name + ">"
}
func (f *Function) Arity() int    { return len(f.Decl.Params) }
func (f *Function) identity() any { return f.Decl }

// Bind produces a method bound to instance: a copy of f whose closure
// is a fresh child environment defining `this`. is_initializer carries
// through unchanged, so a bound `init` still makes the call return the
// instance rather than the initializer body's own return value.
func (f *Function) Bind(instance *Instance) *Function {
	env := f.Closure.Child()
	env.Define("this", instance, true)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a callable that, when invoked, constructs an Instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) Type() string     { return "Callable" }
func (c *Class) String() string { return "<class " + c.Name + ">" }

// Arity is the initializer's arity, or 0 if the class has none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}
func (c *Class) identity() any { return c }

// FindMethod looks up name on c, then walks the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Instance is a live object: its class plus a mutable field map.
// Compared by address identity (see Equal in value.go), never by
// field equality.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Type() string     { return "Instance" }
func (i *Instance) String() string { return "<" + i.Class.Name + " instance>" }
