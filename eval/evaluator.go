// Package eval walks a resolved AST, executing statements and
// producing values. It is the last of the four pipeline phases: by
// the time a program reaches here, the lexer, parser and resolver have
// already accepted it.
package eval

import (
	"bufio"
	"io"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/environment"
	"github.com/loxwalk/loxwalk/value"
)

// Evaluator executes statements against a chain of environments.
// Globals is the fixed root scope (clock/print/readLine plus every
// top-level var/fun/class); Environment is whichever scope is current,
// changing as blocks, calls and methods are entered and left.
type Evaluator struct {
	Globals     *environment.Environment
	Environment *environment.Environment
	Locals      map[ast.Reference]int

	Stdout io.Writer
	Stdin  *bufio.Reader
}

func New(stdout io.Writer, stdin io.Reader, locals map[ast.Reference]int) *Evaluator {
	globals := environment.New()
	e := &Evaluator{
		Globals:     globals,
		Environment: globals,
		Locals:      locals,
		Stdout:      stdout,
		Stdin:       bufio.NewReader(stdin),
	}
	registerBuiltins(e)
	return e
}

// RuntimeError wraps a diagnostics.Error so it can travel through the
// ordinary Go error channel the same way break/continue/return
// signals do, while remaining distinguishable from them. The field is
// named explicitly (rather than embedded) so its own Error() method is
// the one satisfying the error interface, not a promoted one shadowed
// by a same-named field.
type RuntimeError struct {
	Diagnostic *diagnostics.Error
}

func (re *RuntimeError) Error() string { return re.Diagnostic.Error() }

func newRuntimeError(line, column int, kind diagnostics.Kind, format string, args ...any) error {
	return &RuntimeError{diagnostics.New(line, column, kind, format, args...)}
}

// Interpret runs every statement in order. Execution stops at the
// first runtime error (control-flow signals never escape this far —
// a stray break/continue/return reaching here would be a resolver
// bug, and is reported as such rather than panicking).
func (e *Evaluator) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := e.execute(stmt); err != nil {
			switch err.(type) {
			case *breakSignal, *continueSignal, *returnSignal:
				return newRuntimeError(0, 0, diagnostics.TypeError, "internal error: unhandled control-flow signal escaped evaluation")
			default:
				return err
			}
		}
	}
	return nil
}

func (e *Evaluator) execute(stmt ast.Stmt) error {
	return stmt.AcceptStmt(e)
}

func (e *Evaluator) evaluate(expr ast.Expr) (value.Value, error) {
	v, err := expr.AcceptExpr(e)
	if err != nil {
		return nil, err
	}
	return v.(value.Value), nil
}

// executeBlock runs statements in a fresh child of environment env,
// restoring the previously current environment on every exit path —
// success, runtime error, or a break/continue/return signal alike.
func (e *Evaluator) executeBlock(statements []ast.Stmt, env *environment.Environment) error {
	previous := e.Environment
	e.Environment = env
	defer func() { e.Environment = previous }()

	for _, stmt := range statements {
		if err := e.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// lookupVariable routes a variable-like reference through the
// resolver's locals table: a recorded depth means a local slot
// reached via the current environment chain; no entry means a global,
// looked up only at the root.
func (e *Evaluator) lookupVariable(ref ast.Reference) (value.Value, error) {
	if depth, ok := e.Locals[ref]; ok {
		val, assigned := e.Environment.LookupAt(depth, ref.Identifier)
		if !assigned {
			return nil, newRuntimeError(ref.Line, ref.Column, diagnostics.UnassignedVariable,
				"variable %q used before assignment", ref.Identifier)
		}
		return val.(value.Value), nil
	}

	val, assigned, declared := e.Globals.Lookup(ref.Identifier)
	if !declared {
		msg := "undeclared variable %q"
		if hint := diagnostics.Suggest(ref.Identifier, e.Globals.Names()); hint != "" {
			msg = "undeclared variable %q (did you mean %q?)"
			return nil, newRuntimeError(ref.Line, ref.Column, diagnostics.UndeclaredVariable, msg, ref.Identifier, hint)
		}
		return nil, newRuntimeError(ref.Line, ref.Column, diagnostics.UndeclaredVariable, msg, ref.Identifier)
	}
	if !assigned {
		return nil, newRuntimeError(ref.Line, ref.Column, diagnostics.UnassignedVariable,
			"variable %q used before assignment", ref.Identifier)
	}
	return val.(value.Value), nil
}

// MergeLocals adds resolver output from a later resolve pass (one REPL
// line resolved after the evaluator already exists) into the table
// consulted by lookupVariable/assignVariable.
func (e *Evaluator) MergeLocals(locals map[ast.Reference]int) {
	for ref, depth := range locals {
		e.Locals[ref] = depth
	}
}

func (e *Evaluator) assignVariable(ref ast.Reference, val value.Value) error {
	if depth, ok := e.Locals[ref]; ok {
		return e.Environment.AssignAt(depth, ref.Identifier, val)
	}
	if err := e.Globals.Assign(ref.Identifier, val); err != nil {
		return newRuntimeError(ref.Line, ref.Column, diagnostics.UndeclaredVariable, "undeclared variable %q", ref.Identifier)
	}
	return nil
}
