package eval

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/value"
)

func (e *Evaluator) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	_, err := e.evaluate(s.Expr)
	return err
}

func (e *Evaluator) VisitDeclaration(s *ast.Declaration) error {
	if s.Initializer == nil {
		e.Environment.Define(s.Name.Identifier, nil, false)
		return nil
	}
	val, err := e.evaluate(s.Initializer)
	if err != nil {
		return err
	}
	e.Environment.Define(s.Name.Identifier, val, true)
	return nil
}

func (e *Evaluator) VisitBlock(s *ast.Block) error {
	return e.executeBlock(s.Statements, e.Environment.Child())
}

func (e *Evaluator) VisitIf(s *ast.If) error {
	cond, err := e.evaluate(s.Cond)
	if err != nil {
		return err
	}
	if value.Truthy(cond) {
		return e.execute(s.Then)
	}
	if s.Else != nil {
		return e.execute(s.Else)
	}
	return nil
}

func (e *Evaluator) VisitWhile(s *ast.While) error {
	for {
		cond, err := e.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !value.Truthy(cond) {
			return nil
		}

		err = e.execute(s.Body)
		switch err.(type) {
		case nil, *continueSignal:
			if s.Post != nil {
				if _, perr := e.evaluate(s.Post); perr != nil {
					return perr
				}
			}
		case *breakSignal:
			return nil
		default:
			return err
		}
	}
}

func (e *Evaluator) VisitBreak(*ast.BreakStmt) error       { return &breakSignal{} }
func (e *Evaluator) VisitContinue(*ast.ContinueStmt) error { return &continueSignal{} }

func (e *Evaluator) VisitFunction(s *ast.FunctionStmt) error {
	fn := &value.Function{Decl: s.Fn, Closure: e.Environment, IsInitializer: false}
	e.Environment.Define(s.Fn.Name, fn, true)
	return nil
}

func (e *Evaluator) VisitReturn(s *ast.ReturnStmt) error {
	var val value.Value = value.Nil
	if s.Value != nil {
		v, err := e.evaluate(s.Value)
		if err != nil {
			return err
		}
		val = v
	}
	return &returnSignal{Value: val}
}

func (e *Evaluator) VisitClass(s *ast.ClassStmt) error {
	var superclass *value.Class
	if s.Super != nil {
		superVal, err := e.evaluate(s.Super)
		if err != nil {
			return err
		}
		class, ok := superVal.(*value.Class)
		if !ok {
			return newRuntimeError(s.Super.Ref.Line, s.Super.Ref.Column, diagnostics.SuperclassMustBeAClass,
				"superclass %q must be a class", s.Super.Ref.Identifier)
		}
		superclass = class
	}

	e.Environment.Define(s.Name.Identifier, nil, false)

	env := e.Environment
	if superclass != nil {
		env = env.Child()
		env.Define("super", superclass, true)
	}

	methods := make(map[string]*value.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name] = &value.Function{Decl: m, Closure: env, IsInitializer: m.Name == "init"}
	}

	class := &value.Class{Name: s.Name.Identifier, Superclass: superclass, Methods: methods}
	return e.Environment.Assign(s.Name.Identifier, class)
}
