package parser

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
)

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(ast.Var):
		return p.varDeclaration()
	case p.match(ast.Fun):
		return p.functionDeclaration("function")
	case p.match(ast.Class):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	site := ast.SiteOf(p.previous())
	name, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.match(ast.Equal) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return &ast.Declaration{Site: site, Name: ast.NewReference(name), Initializer: init}, nil
}

func (p *Parser) functionDeclaration(kind string) (ast.Stmt, error) {
	fn, err := p.functionBody(kind)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Fn: fn}, nil
}

// functionBody parses the shared tail of named and anonymous
// functions: a parameter list followed by a block body. name is empty
// for anonymous functions. It is also reused for class methods, which
// are parsed without a leading "fun" keyword.
func (p *Parser) functionBody(kind string) (*ast.FunctionBody, error) {
	var name string
	var site ast.Site
	if kind != "anonymous" {
		tok, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected "+kind+" name")
		if err != nil {
			return nil, err
		}
		name = tok.Lexeme
		site = ast.SiteOf(tok)
	} else {
		site = ast.SiteOf(p.peek())
	}

	if _, err := p.consume(ast.LeftParen, diagnostics.ExpectedLeftParen, "expected '(' after "+kind+" name"); err != nil {
		return nil, err
	}

	var params []ast.Reference
	if !p.check(ast.RightParen) {
		for {
			if len(params) >= maxArgs {
				tok := p.peek()
				p.errors = append(p.errors, p.report(tok.Line, tok.Column, diagnostics.ParameterLimitExceeded,
					"cannot have more than %d parameters", maxArgs))
			}
			tok, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewReference(tok))
			if !p.match(ast.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(ast.LeftBrace, diagnostics.ExpectedLeftCurly, "expected '{' before "+kind+" body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionBody{Site: site, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	site := ast.SiteOf(p.previous())
	name, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected class name")
	if err != nil {
		return nil, err
	}

	var super *ast.Variable
	if p.match(ast.Less) {
		superTok, err := p.consume(ast.Identifier, diagnostics.ExpectedIdentifier, "expected superclass name")
		if err != nil {
			return nil, err
		}
		super = &ast.Variable{Ref: ast.NewReference(superTok)}
	}

	if _, err := p.consume(ast.LeftBrace, diagnostics.ExpectedLeftCurly, "expected '{' before class body"); err != nil {
		return nil, err
	}

	var methods []*ast.FunctionBody
	for !p.check(ast.RightBrace) && !p.isAtEnd() {
		m, err := p.functionBody("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	if _, err := p.consume(ast.RightBrace, diagnostics.ExpectedRightCurly, "expected '}' after class body"); err != nil {
		return nil, err
	}

	return &ast.ClassStmt{Site: site, Name: ast.NewReference(name), Super: super, Methods: methods}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(ast.LeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil
	case p.match(ast.If):
		return p.ifStatement()
	case p.match(ast.While):
		return p.whileStatement()
	case p.match(ast.For):
		return p.forStatement()
	case p.match(ast.Break):
		site := ast.SiteOf(p.previous())
		if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after 'break'"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Site: site}, nil
	case p.match(ast.Continue):
		site := ast.SiteOf(p.previous())
		if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after 'continue'"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Site: site}, nil
	case p.match(ast.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.check(ast.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.consume(ast.RightBrace, diagnostics.ExpectedRightCurly, "expected '}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(ast.LeftParen, diagnostics.ExpectedLeftParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(ast.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(ast.LeftParen, diagnostics.ExpectedLeftParen, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// forStatement desugars `for (init; cond; incr) body` into
// `Block[init, While(cond, body, Post: incr)]` during parsing, so
// neither the resolver nor the evaluator needs a dedicated For node.
// incr is carried on While.Post rather than appended to body in a
// Block: a Block would run incr only when body finishes normally,
// skipping it whenever `continue` unwinds out of body early. A missing
// condition defaults to literal true.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(ast.LeftParen, diagnostics.ExpectedLeftParen, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	switch {
	case p.match(ast.Semicolon):
		init = nil
	case p.match(ast.Var):
		init, err = p.varDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(ast.Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(ast.RightParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(ast.RightParen, diagnostics.ExpectedRightParen, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if cond == nil {
		cond = &ast.LiteralExpr{Value: ast.Literal{Kind: ast.LiteralBool, BoolValue: true}}
	}
	loop := ast.Stmt(&ast.While{Cond: cond, Body: body, Post: incr})
	if init != nil {
		loop = &ast.Block{Statements: []ast.Stmt{init, loop}}
	}
	return loop, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	site := ast.SiteOf(p.previous())
	var value ast.Expr
	var err error
	if !p.check(ast.Semicolon) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(ast.Semicolon, diagnostics.ExpectedSemicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Site: site, Value: value}, nil
}
