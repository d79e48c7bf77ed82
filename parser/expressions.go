package parser

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
)

// expression is the grammar's top: `expr → comma`.
func (p *Parser) expression() (ast.Expr, error) {
	return p.comma()
}

// comma handles the comma operator: both operands are evaluated, the
// right one is the result. Lowest precedence, so it sits above
// assignment in the *call stack* but binds loosest in the grammar.
func (p *Parser) comma() (ast.Expr, error) {
	if p.check(ast.Comma) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before ','")
	}
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(ast.Comma) {
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: ast.Token{Kind: ast.Comma}, Right: right}
	}
	return expr, nil
}

// assignment parses a full ternary, then rewrites the left-hand side
// into an Assignment or Set if '=' follows. This sidesteps unbounded
// look-ahead: by the time '=' is seen, the left side is already a
// complete expression tree that is either a valid target or isn't.
func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.match(ast.Equal) {
		eq := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assignment{Ref: target.Ref, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Site: target.Site, Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			return nil, p.report(eq.Line, eq.Column, diagnostics.InvalidAssignmentTarget, "invalid assignment target")
		}
	}

	return expr, nil
}

func (p *Parser) ternary() (ast.Expr, error) {
	if p.check(ast.Question) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before '?'")
	}

	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(ast.Question) {
		return cond, nil
	}

	then, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(ast.Colon, diagnostics.UnterminatedTernary, "expected ':' in ternary expression"); err != nil {
		return nil, err
	}
	elseExpr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Cond: cond, Then: then, Else: elseExpr}, nil
}

func (p *Parser) or() (ast.Expr, error) {
	if p.check(ast.Or) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before 'or'")
	}
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(ast.Or) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	if p.check(ast.And) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before 'and'")
	}
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(ast.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	if p.check(ast.EqualEqual) || p.check(ast.BangEqual) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before %q", tok.Lexeme)
	}
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(ast.EqualEqual, ast.BangEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	if p.check(ast.Less) || p.check(ast.LessEqual) || p.check(ast.Greater) || p.check(ast.GreaterEqual) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before %q", tok.Lexeme)
	}
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(ast.Less, ast.LessEqual, ast.Greater, ast.GreaterEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expr, error) {
	if p.check(ast.Plus) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before '+'")
	}
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(ast.Plus, ast.Minus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	if p.check(ast.Star) || p.check(ast.Slash) {
		tok := p.peek()
		return nil, p.report(tok.Line, tok.Column-1, diagnostics.ExpectedExpression, "expected expression before %q", tok.Lexeme)
	}
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(ast.Star, ast.Slash) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(ast.Bang, ast.Minus) {
		op := p.previous()
		expr, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Expr: expr}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(ast.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(ast.Dot):
			site := ast.SiteOf(p.previous())
			name, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Site: site, Object: expr, Name: name.Lexeme}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	site := ast.SiteOf(p.previous())
	var args []ast.Expr
	if !p.check(ast.RightParen) {
		for {
			if len(args) >= maxArgs {
				tok := p.peek()
				p.errors = append(p.errors, p.report(tok.Line, tok.Column, diagnostics.ArgumentLimitExceeded,
					"cannot have more than %d arguments", maxArgs))
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(ast.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return &ast.Call{Site: site, Callee: callee, Args: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(ast.False):
		return &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralBool, BoolValue: false}}, nil
	case p.match(ast.True):
		return &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralBool, BoolValue: true}}, nil
	case p.match(ast.Nil):
		return &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralNil}}, nil
	case p.match(ast.Number):
		tok := p.previous()
		return &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralNumber, NumberValue: tok.NumberValue}}, nil
	case p.match(ast.String):
		tok := p.previous()
		return &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralString, StringValue: tok.StringValue}}, nil
	case p.match(ast.This):
		return &ast.This{Ref: ast.NewReference(p.previous())}, nil
	case p.match(ast.Super):
		superTok := p.previous()
		if _, err := p.consume(ast.Dot, diagnostics.ExpectedDotAfterSuper, "expected '.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected superclass method name")
		if err != nil {
			return nil, err
		}
		ref := ast.NewReference(superTok)
		ref.Identifier = "super"
		return &ast.Super{Ref: ref, Method: method.Lexeme}, nil
	case p.match(ast.Identifier):
		return &ast.Variable{Ref: ast.NewReference(p.previous())}, nil
	case p.match(ast.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Expr: expr}, nil
	case p.match(ast.Fun):
		fn, err := p.functionBody("anonymous")
		if err != nil {
			return nil, err
		}
		return &ast.AnonymousFunction{Fn: fn}, nil
	}

	tok := p.peek()
	return nil, p.report(tok.Line, tok.Column, diagnostics.ExpectedExpression, "expected expression")
}
