package eval

import "github.com/loxwalk/loxwalk/value"

// breakSignal, continueSignal and returnSignal are control-flow
// signals disguised as errors: raising one unwinds the Go call stack
// exactly like a real error, but each is caught by its structural
// owner (while catches break/continue, call catches return) rather
// than ever being reported as a failure. None of the three should ever
// reach Evaluator.Interpret's own error handling — the resolver
// guarantees break/continue only appear inside loops and return only
// inside functions.
type breakSignal struct{}

func (*breakSignal) Error() string { return "break outside loop body (internal)" }

type continueSignal struct{}

func (*continueSignal) Error() string { return "continue outside loop body (internal)" }

type returnSignal struct {
	Value value.Value
}

func (*returnSignal) Error() string { return "return outside call (internal)" }
