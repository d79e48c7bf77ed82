package eval

import (
	"fmt"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/value"
)

func (e *Evaluator) VisitLiteral(expr *ast.LiteralExpr) (any, error) {
	switch expr.Value.Kind {
	case ast.LiteralString:
		return value.String(expr.Value.StringValue), nil
	case ast.LiteralNumber:
		return value.Number(expr.Value.NumberValue), nil
	case ast.LiteralBool:
		return value.Boolean(expr.Value.BoolValue), nil
	default:
		return value.Nil, nil
	}
}

func (e *Evaluator) VisitGrouping(expr *ast.Grouping) (any, error) {
	return e.evaluate(expr.Expr)
}

func (e *Evaluator) VisitVariable(expr *ast.Variable) (any, error) {
	return e.lookupVariable(expr.Ref)
}

func (e *Evaluator) VisitAssignment(expr *ast.Assignment) (any, error) {
	val, err := e.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}
	if err := e.assignVariable(expr.Ref, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (e *Evaluator) VisitUnary(expr *ast.Unary) (any, error) {
	operand, err := e.evaluate(expr.Expr)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Kind {
	case ast.Bang:
		return value.Boolean(!value.Truthy(operand)), nil
	case ast.Minus:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, newRuntimeError(expr.Op.Line, expr.Op.Column, diagnostics.TypeError,
				"unary '-' %s", value.TypeErrorMessage("Number", operand))
		}
		return -n, nil
	}
	panic("unreachable unary operator")
}

func (e *Evaluator) VisitLogical(expr *ast.Logical) (any, error) {
	left, err := e.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	if expr.Op.Kind == ast.Or {
		if value.Truthy(left) {
			return left, nil
		}
	} else {
		if !value.Truthy(left) {
			return left, nil
		}
	}
	return e.evaluate(expr.Right)
}

func (e *Evaluator) VisitTernary(expr *ast.Ternary) (any, error) {
	cond, err := e.evaluate(expr.Cond)
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return e.evaluate(expr.Then)
	}
	return e.evaluate(expr.Else)
}

func (e *Evaluator) VisitBinary(expr *ast.Binary) (any, error) {
	if expr.Op.Kind == ast.Comma {
		if _, err := e.evaluate(expr.Left); err != nil {
			return nil, err
		}
		return e.evaluate(expr.Right)
	}

	left, err := e.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case ast.EqualEqual:
		return value.Boolean(value.Equal(left, right)), nil
	case ast.BangEqual:
		return value.Boolean(!value.Equal(left, right)), nil
	case ast.Plus:
		return e.evaluatePlus(expr.Op, left, right)
	case ast.Minus, ast.Star, ast.Slash:
		return e.evaluateArithmetic(expr.Op, left, right)
	case ast.Less, ast.LessEqual, ast.Greater, ast.GreaterEqual:
		return e.evaluateComparison(expr.Op, left, right)
	}
	panic("unreachable binary operator")
}

// evaluatePlus implements the one overloaded operator: number+number
// adds; if either side is a string, both sides are stringified and
// concatenated. Any other combination is a type error.
func (e *Evaluator) evaluatePlus(op ast.Token, left, right value.Value) (value.Value, error) {
	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if lok && rok {
		return ln + rn, nil
	}
	_, lstr := left.(value.String)
	_, rstr := right.(value.String)
	if lstr || rstr {
		return value.String(stringify(left) + stringify(right)), nil
	}
	return nil, newRuntimeError(op.Line, op.Column, diagnostics.TypeError,
		"'+' requires two numbers or a string operand, found %s and %s", left.Type(), right.Type())
}

func stringify(v value.Value) string { return v.String() }

func (e *Evaluator) evaluateArithmetic(op ast.Token, left, right value.Value) (value.Value, error) {
	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if !lok || !rok {
		return nil, newRuntimeError(op.Line, op.Column, diagnostics.TypeError,
			"%q requires two numbers, found %s and %s", op.Lexeme, left.Type(), right.Type())
	}
	switch op.Kind {
	case ast.Minus:
		return ln - rn, nil
	case ast.Star:
		return ln * rn, nil
	case ast.Slash:
		// Division by zero yields IEEE 754 Inf/NaN rather than erroring;
		// DivideByZero stays reserved in the taxonomy but unused here.
		return value.Number(float64(ln) / float64(rn)), nil
	}
	panic("unreachable arithmetic operator")
}

// evaluateComparison implements ordering across String/String,
// Number/Number, Boolean/Boolean (false < true) and the deliberately
// preserved Nil/Nil quirk: '<' and '>' both report true, '<=' and '>='
// both report false.
func (e *Evaluator) evaluateComparison(op ast.Token, left, right value.Value) (value.Value, error) {
	if value.IsNil(left) && value.IsNil(right) {
		switch op.Kind {
		case ast.Less, ast.Greater:
			return value.Boolean(true), nil
		default:
			return value.Boolean(false), nil
		}
	}

	switch lv := left.(type) {
	case value.Number:
		rv, ok := right.(value.Number)
		if !ok {
			break
		}
		return compareOrdered(op, float64(lv), float64(rv)), nil
	case value.String:
		rv, ok := right.(value.String)
		if !ok {
			break
		}
		return compareOrdered(op, string(lv), string(rv)), nil
	case value.Boolean:
		rv, ok := right.(value.Boolean)
		if !ok {
			break
		}
		return compareOrdered(op, boolRank(bool(lv)), boolRank(bool(rv))), nil
	}

	return nil, newRuntimeError(op.Line, op.Column, diagnostics.TypeError,
		"%q is not defined between %s and %s", op.Lexeme, left.Type(), right.Type())
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func compareOrdered[T int | float64 | string](op ast.Token, l, r T) value.Value {
	switch op.Kind {
	case ast.Less:
		return value.Boolean(l < r)
	case ast.LessEqual:
		return value.Boolean(l <= r)
	case ast.Greater:
		return value.Boolean(l > r)
	case ast.GreaterEqual:
		return value.Boolean(l >= r)
	}
	panic("unreachable comparison operator")
}

func (e *Evaluator) VisitAnonymousFunction(expr *ast.AnonymousFunction) (any, error) {
	return &value.Function{Decl: expr.Fn, Closure: e.Environment}, nil
}

func (e *Evaluator) VisitCall(expr *ast.Call) (any, error) {
	callee, err := e.evaluate(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return e.call(expr.Site, callee, args)
}

func (e *Evaluator) call(site ast.Site, callee value.Value, args []value.Value) (value.Value, error) {
	callable, ok := callee.(value.Callable)
	if !ok {
		return nil, newRuntimeError(site.Line, site.Column, diagnostics.TypeIsNotCallable,
			"value of type %s is not callable", callee.Type())
	}

	if callable.Arity() != len(args) {
		return nil, newRuntimeError(site.Line, site.Column, diagnostics.IncorrectNumberOfArgs,
			"expected %d arguments, got %d", callable.Arity(), len(args))
	}

	switch fn := callable.(type) {
	case *value.NativeFunction:
		return fn.Handler(args)
	case *value.Function:
		return e.callFunction(fn, args)
	case *value.Class:
		return e.instantiate(site, fn, args)
	}
	panic(fmt.Sprintf("unreachable callable kind %T", callable))
}

func (e *Evaluator) callFunction(fn *value.Function, args []value.Value) (value.Value, error) {
	env := fn.Closure.Child()
	for i, p := range fn.Decl.Params {
		env.Define(p.Identifier, args[i], true)
	}

	err := e.executeBlock(fn.Decl.Body, env)
	if err == nil {
		if fn.IsInitializer {
			this, _ := fn.Closure.LookupAt(0, "this")
			return this.(value.Value), nil
		}
		return value.Nil, nil
	}

	ret, ok := err.(*returnSignal)
	if !ok {
		return nil, err
	}
	if fn.IsInitializer {
		this, _ := fn.Closure.LookupAt(0, "this")
		return this.(value.Value), nil
	}
	return ret.Value, nil
}

func (e *Evaluator) instantiate(site ast.Site, class *value.Class, args []value.Value) (value.Value, error) {
	instance := value.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		bound := init.Bind(instance)
		if _, err := e.callFunction(bound, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (e *Evaluator) VisitGet(expr *ast.Get) (any, error) {
	obj, err := e.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*value.Instance)
	if !ok {
		return nil, newRuntimeError(expr.Site.Line, expr.Site.Column, diagnostics.TypeIsNotInstance,
			"cannot access property %q of non-instance value of type %s", expr.Name, obj.Type())
	}
	if field, ok := instance.Fields[expr.Name]; ok {
		return field, nil
	}
	if method, ok := instance.Class.FindMethod(expr.Name); ok {
		return method.Bind(instance), nil
	}

	msg := "undefined property %q"
	if hint := diagnostics.Suggest(expr.Name, propertyNames(instance)); hint != "" {
		return nil, newRuntimeError(expr.Site.Line, expr.Site.Column, diagnostics.UndefinedProperty,
			"undefined property %q (did you mean %q?)", expr.Name, hint)
	}
	return nil, newRuntimeError(expr.Site.Line, expr.Site.Column, diagnostics.UndefinedProperty, msg, expr.Name)
}

func propertyNames(instance *value.Instance) []string {
	var names []string
	for name := range instance.Fields {
		names = append(names, name)
	}
	for class := instance.Class; class != nil; class = class.Superclass {
		for name := range class.Methods {
			names = append(names, name)
		}
	}
	return names
}

func (e *Evaluator) VisitSet(expr *ast.Set) (any, error) {
	obj, err := e.evaluate(expr.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*value.Instance)
	if !ok {
		return nil, newRuntimeError(expr.Site.Line, expr.Site.Column, diagnostics.TypeIsNotInstance,
			"cannot set property %q of non-instance value of type %s", expr.Name, obj.Type())
	}
	val, err := e.evaluate(expr.Value)
	if err != nil {
		return nil, err
	}
	instance.Fields[expr.Name] = val
	return val, nil
}

func (e *Evaluator) VisitThis(expr *ast.This) (any, error) {
	return e.lookupVariable(expr.Ref)
}

// VisitSuper resolves `super.method`: the superclass lives at the
// recorded depth (the synthetic scope the resolver opened around
// "super"), and the bound instance lives one scope further in (the
// nested "this" scope), so the bound method is built against the
// instance but looked up starting from the superclass, ignoring
// whatever override the instance's own class provides.
func (e *Evaluator) VisitSuper(expr *ast.Super) (any, error) {
	depth, ok := e.Locals[expr.Ref]
	if !ok {
		return nil, newRuntimeError(expr.Ref.Line, expr.Ref.Column, diagnostics.UnexpectedSuper, "'super' used outside a subclass")
	}
	superVal, _ := e.Environment.LookupAt(depth, "super")
	superclass := superVal.(value.Value).(*value.Class)

	thisVal, _ := e.Environment.LookupAt(depth-1, "this")
	instance := thisVal.(value.Value).(*value.Instance)

	method, ok := superclass.FindMethod(expr.Method)
	if !ok {
		return nil, newRuntimeError(expr.Ref.Line, expr.Ref.Column, diagnostics.UndefinedProperty,
			"undefined property %q", expr.Method)
	}
	return method.Bind(instance), nil
}
