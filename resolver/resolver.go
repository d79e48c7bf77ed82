// Package resolver performs static scope analysis between parsing and
// evaluation: it binds every variable-like reference to a lexical
// depth (or leaves it unbound, meaning "look it up as a global"), and
// enforces the contextual rules that are cheaper to check once here
// than on every evaluation (return/this/super/break/continue
// placement, self-inheritance, redeclaration).
package resolver

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
)

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// scope maps a name to whether its declaration has finished resolving
// its own initializer yet (false = declared but still resolving the
// right-hand side; true = ready to be read).
type scope map[string]bool

// Resolver walks a parsed program once, producing the Locals table the
// evaluator uses to route every variable access to the right
// environment depth.
type Resolver struct {
	scopes []scope
	Locals map[ast.Reference]int

	errors []*diagnostics.Error

	functionKind functionKind
	classKind    classKind
	inLoop       bool
}

func New() *Resolver {
	return &Resolver{Locals: make(map[ast.Reference]int)}
}

// Resolve walks every top-level statement, collecting errors but never
// stopping early — the caller sees every problem found in one pass.
func (r *Resolver) Resolve(statements []ast.Stmt) []*diagnostics.Error {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
	return r.errors
}

func (r *Resolver) report(line, column int, kind diagnostics.Kind, format string, args ...any) {
	r.errors = append(r.errors, diagnostics.New(line, column, kind, format, args...))
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) current() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare inserts name in the current scope as not-yet-ready. A
// redeclaration in the same local scope is an error; globals (no open
// scope) tolerate redeclaration.
func (r *Resolver) declare(ref ast.Reference) {
	s := r.current()
	if s == nil {
		return
	}
	if _, exists := s[ref.Identifier]; exists {
		r.report(ref.Line, ref.Column, diagnostics.RedeclareVariable,
			"variable %q is already declared in this scope", ref.Identifier)
	}
	s[ref.Identifier] = false
}

func (r *Resolver) define(ref ast.Reference) {
	if s := r.current(); s != nil {
		s[ref.Identifier] = true
	}
}

// resolveLocal searches the scope stack from innermost outward; the
// first match records its depth in Locals. No match means the name is
// a global and is left out of the table entirely.
func (r *Resolver) resolveLocal(ref ast.Reference) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][ref.Identifier]; ok {
			r.Locals[ref] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	_ = stmt.AcceptStmt(r)
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	if expr == nil {
		return
	}
	_, _ = expr.AcceptExpr(r)
}

// --- StmtVisitor ---

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	r.resolveExpr(s.Expr)
	return nil
}

func (r *Resolver) VisitDeclaration(s *ast.Declaration) error {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
	return nil
}

func (r *Resolver) VisitBlock(s *ast.Block) error {
	r.beginScope()
	for _, stmt := range s.Statements {
		r.resolveStmt(stmt)
	}
	r.endScope()
	return nil
}

func (r *Resolver) VisitIf(s *ast.If) error {
	r.resolveExpr(s.Cond)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
	return nil
}

func (r *Resolver) VisitWhile(s *ast.While) error {
	r.resolveExpr(s.Cond)
	wasInLoop := r.inLoop
	r.inLoop = true
	r.resolveStmt(s.Body)
	r.resolveExpr(s.Post)
	r.inLoop = wasInLoop
	return nil
}

func (r *Resolver) VisitBreak(s *ast.BreakStmt) error {
	if !r.inLoop {
		r.report(s.Site.Line, s.Site.Column, diagnostics.UnexpectedBreak, "break outside a loop")
	}
	return nil
}

func (r *Resolver) VisitContinue(s *ast.ContinueStmt) error {
	if !r.inLoop {
		r.report(s.Site.Line, s.Site.Column, diagnostics.UnexpectedContinue, "continue outside a loop")
	}
	return nil
}

func (r *Resolver) VisitFunction(s *ast.FunctionStmt) error {
	ref := ast.Reference{Line: s.Fn.Site.Line, Column: s.Fn.Site.Column, Identifier: s.Fn.Name}
	r.declare(ref)
	r.define(ref)
	r.resolveFunction(s.Fn, fnFunction)
	return nil
}

func (r *Resolver) resolveFunction(fn *ast.FunctionBody, kind functionKind) {
	enclosingFn := r.functionKind
	wasInLoop := r.inLoop
	r.functionKind = kind
	r.inLoop = false

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.functionKind = enclosingFn
	r.inLoop = wasInLoop
}

func (r *Resolver) VisitReturn(s *ast.ReturnStmt) error {
	if r.functionKind == fnNone {
		r.report(s.Site.Line, s.Site.Column, diagnostics.UnexpectedReturn, "return outside a function")
	}
	if s.Value != nil {
		if r.functionKind == fnInitializer {
			r.report(s.Site.Line, s.Site.Column, diagnostics.CannotReturnFromInit,
				"cannot return a value from an initializer")
		}
		r.resolveExpr(s.Value)
	}
	return nil
}

func (r *Resolver) VisitClass(s *ast.ClassStmt) error {
	enclosingClass := r.classKind
	r.classKind = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Super != nil {
		if s.Super.Ref.Identifier == s.Name.Identifier {
			r.report(s.Super.Ref.Line, s.Super.Ref.Column, diagnostics.ClassInheritsFromItself,
				"class %q cannot inherit from itself", s.Name.Identifier)
		} else {
			r.classKind = classSubclass
			r.resolveExpr(s.Super)
		}
		r.beginScope()
		r.current()["super"] = true
	}

	r.beginScope()
	r.current()["this"] = true

	for _, m := range s.Methods {
		kind := fnMethod
		if m.Name == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(m, kind)
	}

	r.endScope()
	if s.Super != nil {
		r.endScope()
	}

	r.classKind = enclosingClass
	return nil
}

// --- ExprVisitor ---

func (r *Resolver) VisitTernary(e *ast.Ternary) (any, error) {
	r.resolveExpr(e.Cond)
	r.resolveExpr(e.Then)
	r.resolveExpr(e.Else)
	return nil, nil
}

func (r *Resolver) VisitBinary(e *ast.Binary) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogical(e *ast.Logical) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitUnary(e *ast.Unary) (any, error) {
	r.resolveExpr(e.Expr)
	return nil, nil
}

func (r *Resolver) VisitGrouping(e *ast.Grouping) (any, error) {
	r.resolveExpr(e.Expr)
	return nil, nil
}

func (r *Resolver) VisitLiteral(e *ast.LiteralExpr) (any, error) { return nil, nil }

func (r *Resolver) VisitVariable(e *ast.Variable) (any, error) {
	if s := r.current(); s != nil {
		if ready, ok := s[e.Ref.Identifier]; ok && !ready {
			r.report(e.Ref.Line, e.Ref.Column, diagnostics.AccessInOwnInitializer,
				"cannot read local variable %q in its own initializer", e.Ref.Identifier)
		}
	}
	r.resolveLocal(e.Ref)
	return nil, nil
}

func (r *Resolver) VisitAssignment(e *ast.Assignment) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e.Ref)
	return nil, nil
}

func (r *Resolver) VisitAnonymousFunction(e *ast.AnonymousFunction) (any, error) {
	r.resolveFunction(e.Fn, fnFunction)
	return nil, nil
}

func (r *Resolver) VisitCall(e *ast.Call) (any, error) {
	r.resolveExpr(e.Callee)
	for _, a := range e.Args {
		r.resolveExpr(a)
	}
	return nil, nil
}

func (r *Resolver) VisitGet(e *ast.Get) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSet(e *ast.Set) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitThis(e *ast.This) (any, error) {
	if r.classKind == classNone {
		r.report(e.Ref.Line, e.Ref.Column, diagnostics.UnexpectedThis, "'this' outside a class")
		return nil, nil
	}
	r.resolveLocal(e.Ref)
	return nil, nil
}

func (r *Resolver) VisitSuper(e *ast.Super) (any, error) {
	switch r.classKind {
	case classNone:
		r.report(e.Ref.Line, e.Ref.Column, diagnostics.UnexpectedSuper, "'super' outside a class")
	case classClass:
		r.report(e.Ref.Line, e.Ref.Column, diagnostics.UnexpectedSuper, "'super' in a class with no superclass")
	default:
		r.resolveLocal(e.Ref)
	}
	return nil, nil
}
