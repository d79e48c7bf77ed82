// Package parser implements the recursive-descent grammar that turns a
// token stream into an ordered list of top-level statements. Errors
// are collected rather than returned early: on the first top-level
// error, the parser discards every statement accumulated so far (and
// every one parsed afterward), reports the error, and synchronises to
// the next plausible statement boundary so later errors in the same
// source are still found. A program with any top-level error therefore
// never yields a statement list to execute, only diagnostics.
package parser

import (
	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
)

const maxArgs = 255

// Parser walks a fixed token slice by index; it never re-scans.
type Parser struct {
	tokens  []ast.Token
	current int
	errors  []*diagnostics.Error
}

func New(tokens []ast.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the grammar's program rule. If every top-level
// declaration parses cleanly, it returns the full statement list. If
// any fails, the first error discards all statements collected so far
// and parsing continues only to surface further diagnostics; the
// return value is then always an empty statement list, since a
// partially parsed program must never be executed.
func (p *Parser) Parse() ([]ast.Stmt, []*diagnostics.Error) {
	var statements []ast.Stmt
	hadError := false
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			hadError = true
			statements = nil
			p.errors = append(p.errors, err)
			p.synchronize()
			continue
		}
		if !hadError {
			statements = append(statements, stmt)
		}
	}
	return statements, p.errors
}

func (p *Parser) report(line, column int, kind diagnostics.Kind, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(line, column, kind, format, args...)
}

// --- token stream primitives ---

func (p *Parser) peek() ast.Token     { return p.tokens[p.current] }
func (p *Parser) previous() ast.Token { return p.tokens[p.current-1] }
func (p *Parser) isAtEnd() bool       { return p.peek().Kind == ast.EOF }

func (p *Parser) advance() ast.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind ast.TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...ast.TokenKind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind ast.TokenKind, diagKind diagnostics.Kind, message string) (ast.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	tok := p.peek()
	return ast.Token{}, p.report(tok.Line, tok.Column, diagKind, "%s", message)
}

// synchronize discards tokens until it finds a declaration boundary:
// right after a semicolon, or right before one of the keywords that
// can only start a statement. This bounds the damage of a single
// syntax error to roughly one statement.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == ast.Semicolon {
			return
		}
		switch p.peek().Kind {
		case ast.Class, ast.Fun, ast.Var, ast.For, ast.If, ast.While, ast.Return:
			return
		}
		p.advance()
	}
}
