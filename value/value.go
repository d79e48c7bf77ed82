// Package value defines the runtime value sum type the evaluator
// produces and consumes: strings, numbers, booleans, nil, callables
// (native functions, user functions, classes) and instances.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is implemented by every runtime value kind. Type returns a
// short type name used in TypeError messages; String returns the
// value's display form (§6 of the external interface: what `print`
// shows and what the REPL echoes).
type Value interface {
	Type() string
	String() string
}

type String string

func (String) Type() string     { return "String" }
func (s String) String() string { return string(s) }

type Number float64

func (Number) Type() string { return "Number" }
func (n Number) String() string {
	f := float64(n)
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	if f == float64(int64(f)) && !strings.ContainsAny(strconv.FormatFloat(f, 'g', -1, 64), "eE") {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type Boolean bool

func (Boolean) Type() string { return "Boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

type nilType struct{}

func (nilType) Type() string   { return "Nil" }
func (nilType) String() string { return "nil" }

// Nil is the single shared nil value; compare with ==.
var Nil Value = nilType{}

// IsNil reports whether v is the Nil value.
func IsNil(v Value) bool {
	_, ok := v.(nilType)
	return ok
}

// Truthy implements the language's truthiness rule: everything is
// truthy except Nil and Boolean(false).
func Truthy(v Value) bool {
	if IsNil(v) {
		return false
	}
	if b, ok := v.(Boolean); ok {
		return bool(b)
	}
	return true
}

// Equal implements value equality: primitives compare by value,
// Instance by address identity, Callable by the identity rules in
// callable.go. Cross-type comparisons are always unequal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case nilType:
		return IsNil(b)
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	case Callable:
		bv, ok := b.(Callable)
		return ok && av.identity() == bv.identity()
	default:
		return false
	}
}

// TypeErrorMessage is a small formatting helper shared by the evaluator so
// every "expected X, found Y" message is worded identically.
func TypeErrorMessage(expected string, found Value) string {
	return fmt.Sprintf("expected %s, found %s", expected, found.Type())
}
