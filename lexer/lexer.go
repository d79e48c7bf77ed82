// Package lexer turns source text into a token stream. It is a
// byte-oriented single pass: no token is ever re-scanned, and every
// emitted token carries enough position data for a caret diagnostic.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/diagnostics"
)

// Lexer holds the scan position over a single source string. Line and
// Column are 0-indexed; Column resets to 0 on every newline.
type Lexer struct {
	src       string
	position  int
	line      int
	column    int
	lineStart int // position of the first byte of the current line

	errors []*diagnostics.Error
}

func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the entire source, returning the token sequence
// (terminated by an explicit EOF token) and any lexical errors
// encountered along the way. Scanning never stops early: an
// unexpected character or unterminated string is reported and
// scanning resumes at the next byte.
func (l *Lexer) Scan() ([]ast.Token, []*diagnostics.Error) {
	var tokens []ast.Token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.Kind == ast.EOF {
			break
		}
	}
	return tokens, l.errors
}

func (l *Lexer) isDone() bool { return l.position >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isDone() {
		return 0
	}
	return l.src[l.position]
}

func (l *Lexer) peekNext() byte {
	if l.position+1 >= len(l.src) {
		return 0
	}
	return l.src[l.position+1]
}

func (l *Lexer) advance() byte {
	c := l.src[l.position]
	l.position++
	if c == '\n' {
		l.line++
		l.column = 0
		l.lineStart = l.position
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) matchNext(c byte) bool {
	if l.peek() != c {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) report(line, column int, kind diagnostics.Kind, format string, args ...any) {
	l.errors = append(l.errors, diagnostics.New(line, column, kind, format, args...))
}

func (l *Lexer) token(kind ast.TokenKind, lexeme string, line, column int) ast.Token {
	return ast.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column, LexemeLength: len(lexeme)}
}

func (l *Lexer) next() ast.Token {
	l.skipWhitespaceAndComments()

	if l.isDone() {
		return l.token(ast.EOF, "", l.line, l.column)
	}

	line, column := l.line, l.column
	c := l.advance()

	switch c {
	case '(':
		return l.token(ast.LeftParen, "(", line, column)
	case ')':
		return l.token(ast.RightParen, ")", line, column)
	case '{':
		return l.token(ast.LeftBrace, "{", line, column)
	case '}':
		return l.token(ast.RightBrace, "}", line, column)
	case ',':
		return l.token(ast.Comma, ",", line, column)
	case '.':
		return l.token(ast.Dot, ".", line, column)
	case '-':
		return l.token(ast.Minus, "-", line, column)
	case '+':
		return l.token(ast.Plus, "+", line, column)
	case ';':
		return l.token(ast.Semicolon, ";", line, column)
	case '*':
		return l.token(ast.Star, "*", line, column)
	case '?':
		return l.token(ast.Question, "?", line, column)
	case ':':
		return l.token(ast.Colon, ":", line, column)
	case '/':
		return l.token(ast.Slash, "/", line, column)
	case '!':
		if l.matchNext('=') {
			return l.token(ast.BangEqual, "!=", line, column)
		}
		return l.token(ast.Bang, "!", line, column)
	case '=':
		if l.matchNext('=') {
			return l.token(ast.EqualEqual, "==", line, column)
		}
		return l.token(ast.Equal, "=", line, column)
	case '<':
		if l.matchNext('=') {
			return l.token(ast.LessEqual, "<=", line, column)
		}
		return l.token(ast.Less, "<", line, column)
	case '>':
		if l.matchNext('=') {
			return l.token(ast.GreaterEqual, ">=", line, column)
		}
		return l.token(ast.Greater, ">", line, column)
	case '"':
		return l.readString(line, column)
	}

	if isDigit(c) {
		return l.readNumber(line, column)
	}
	if isAlpha(c) {
		return l.readIdentifier(line, column)
	}

	l.report(line, column, diagnostics.UnexpectedCharacter, "unexpected character %q", c)
	return l.next()
}

// skipWhitespaceAndComments consumes whitespace, line comments, and
// block comments. Block comments nest: a depth counter is kept so
// `/* /* */ */` is a single comment rather than closing at the first
// `*/`.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isDone() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peekNext() == '/' {
				for !l.isDone() && l.peek() != '\n' {
					l.advance()
				}
			} else if l.peekNext() == '*' {
				l.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	startLine, startColumn := l.line, l.column
	l.advance() // '/'
	l.advance() // '*'
	depth := 1
	for depth > 0 {
		if l.isDone() {
			l.report(startLine, startColumn, diagnostics.UnterminatedString, "unterminated block comment")
			return
		}
		if l.peek() == '/' && l.peekNext() == '*' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
}

func (l *Lexer) readString(line, column int) ast.Token {
	start := l.position - 1 // include opening quote in the lexeme span
	var b strings.Builder
	for !l.isDone() && l.peek() != '"' {
		b.WriteByte(l.advance())
	}
	if l.isDone() {
		l.report(line, column, diagnostics.UnterminatedString, "unterminated string")
		return l.token(ast.EOF, "", l.line, l.column)
	}
	l.advance() // closing quote
	lexeme := l.src[start:l.position]
	tok := l.token(ast.String, lexeme, line, column)
	tok.StringValue = b.String()
	return tok
}

func (l *Lexer) readNumber(line, column int) ast.Token {
	start := l.position - 1
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	lexeme := l.src[start:l.position]
	clean := strings.ReplaceAll(lexeme, "_", "")
	value, _ := strconv.ParseFloat(clean, 64)
	tok := l.token(ast.Number, lexeme, line, column)
	tok.NumberValue = value
	tok.LexemeLength = len(lexeme)
	return tok
}

func (l *Lexer) readIdentifier(line, column int) ast.Token {
	start := l.position - 1
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lexeme := l.src[start:l.position]
	if kind, ok := ast.Keywords[lexeme]; ok {
		return l.token(kind, lexeme, line, column)
	}
	return l.token(ast.Identifier, lexeme, line, column)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
