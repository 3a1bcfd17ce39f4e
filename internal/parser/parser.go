// Package parser implements the recursive descent parser for the C++
// subset cxxlint analyzes: file-scope declarations, function bodies,
// and the full expression grammar including all five cast syntaxes.
//
// The parser performs no semantic analysis; it resolves only the type
// names it needs to disambiguate declarations from expressions and
// C-style casts from parenthesized expressions (the classic lexer
// hack). Statements that fail to parse are skipped to the next
// statement boundary and reported, never fatal.
package parser

import (
	"fmt"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/ctypes"
	"github.com/cxxlint/cxxlint/internal/lexer"
	"github.com/cxxlint/cxxlint/internal/position"
)

// ParseError represents a parsing error with context
type ParseError struct {
	Position position.Position
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Position.String(), e.Message)
}

// Parser represents the recursive descent parser
type Parser struct {
	toks     []lexer.Token
	pos      int
	current  lexer.Token
	peek     lexer.Token
	filename string
	errors   []error

	// Type names registered while parsing, used for declaration and
	// cast disambiguation
	typedefs map[string]*ctypes.Type
	records  map[string]*ctypes.Type
	enums    map[string]*ctypes.Type
	funcs    map[string]*ast.FuncDecl

	// Extra declarations produced while parsing the current one, e.g.
	// namespace contents or trailing declarators of a comma group
	pending []ast.Decl
}

// New creates a parser over the given source
func New(filename, src string) *Parser {
	p := &Parser{
		toks:     lexer.Tokenize(src),
		filename: filename,
		typedefs: make(map[string]*ctypes.Type),
		records:  make(map[string]*ctypes.Type),
		enums:    make(map[string]*ctypes.Type),
		funcs:    make(map[string]*ast.FuncDecl),
	}
	p.sync()
	return p
}

// Parse parses the input and returns the translation unit
func (p *Parser) Parse() (*ast.TranslationUnit, []error) {
	unit := &ast.TranslationUnit{}
	start := p.spanStart()

	for p.current.Type != lexer.TokenEOF {
		before := p.pos
		decl := p.parseTopLevelDecl()
		if decl != nil {
			unit.Decls = append(unit.Decls, decl)
		}
		if len(p.pending) > 0 {
			unit.Decls = append(unit.Decls, p.pending...)
			p.pending = nil
		}
		if p.pos == before {
			// No progress; skip the offending token
			p.nextToken()
		}
	}

	unit.Span = position.Span{Start: start, End: p.posOf(p.current.Span.End)}
	return unit, p.errors
}

// Errors returns the errors collected so far
func (p *Parser) Errors() []error {
	return p.errors
}

// ===== token plumbing =====

func (p *Parser) sync() {
	p.current = p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.peek = p.toks[p.pos+1]
	} else {
		p.peek = p.toks[p.pos]
	}
}

func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.sync()
}

// mark returns the current token index for backtracking
func (p *Parser) mark() int { return p.pos }

// reset rewinds to a previously marked token index
func (p *Parser) reset(mark int) {
	p.pos = mark
	p.sync()
}

func (p *Parser) currentIs(t lexer.TokenType) bool { return p.current.Type == t }

func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

// expect consumes the current token if it has the given type, or
// records an error and leaves the position unchanged
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.current.Type != t {
		p.errorf("expected %s, got %q", t, p.current.Literal)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{
		Position: p.posOf(p.current.Span.Start),
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) posOf(lp lexer.Position) position.Position {
	return position.Position{
		Filename: p.filename,
		Line:     lp.Line,
		Column:   lp.Column,
		Offset:   lp.Offset,
	}
}

func (p *Parser) spanOf(tok lexer.Token) position.Span {
	return position.Span{Start: p.posOf(tok.Span.Start), End: p.posOf(tok.Span.End)}
}

func (p *Parser) spanStart() position.Position {
	return p.posOf(p.current.Span.Start)
}

// spanFrom builds a span from start to the end of the last consumed token
func (p *Parser) spanFrom(start position.Position) position.Span {
	end := start
	if p.pos > 0 {
		end = p.posOf(p.toks[p.pos-1].Span.End)
	}
	if end.Offset < start.Offset {
		end = start
	}
	return position.Span{Start: start, End: end}
}

// skipToStmtBoundary advances past the next ';' or to a '}' for error
// recovery, tracking brace nesting
func (p *Parser) skipToStmtBoundary() {
	depth := 0
	for p.current.Type != lexer.TokenEOF {
		switch p.current.Type {
		case lexer.TokenSemicolon:
			if depth == 0 {
				p.nextToken()
				return
			}
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.nextToken()
	}
}

// ===== type name registry =====

func (p *Parser) isTypeName(name string) bool {
	if _, ok := p.typedefs[name]; ok {
		return true
	}
	if _, ok := p.records[name]; ok {
		return true
	}
	_, ok := p.enums[name]
	return ok
}

// startsType reports whether the current token can begin a type
func (p *Parser) startsType() bool {
	if lexer.IsTypeKeyword(p.current.Type) {
		return true
	}
	return p.current.Type == lexer.TokenIdentifier && p.isTypeName(p.current.Literal)
}
