package parser

import (
	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/lexer"
)

// parseBlock parses a braced statement list
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.spanStart()
	block := &ast.BlockStmt{}
	p.expect(lexer.TokenLBrace)

	for !p.currentIs(lexer.TokenRBrace) && !p.currentIs(lexer.TokenEOF) {
		before := p.pos
		if s := p.parseStmt(); s != nil {
			block.Stmts = append(block.Stmts, s)
		}
		if p.pos == before {
			p.nextToken()
		}
	}
	p.expect(lexer.TokenRBrace)

	block.Span = p.spanFrom(start)
	return block
}

// parseStmt parses a single statement
func (p *Parser) parseStmt() ast.Stmt {
	switch p.current.Type {
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenSemicolon:
		p.nextToken()
		return nil
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenTypedef:
		start := p.spanStart()
		d := p.parseTypedef()
		if d == nil {
			return nil
		}
		return &ast.DeclStmt{Span: p.spanFrom(start), Decls: []ast.Decl{d}}
	case lexer.TokenUsing:
		start := p.spanStart()
		d := p.parseUsingAlias()
		if d == nil {
			return nil
		}
		return &ast.DeclStmt{Span: p.spanFrom(start), Decls: []ast.Decl{d}}
	}

	if p.startsType() && !p.looksLikeExprStart() {
		return p.parseLocalDecl()
	}
	return p.parseExprStmt()
}

// looksLikeExprStart distinguishes "T(x);" spelled as an expression
// from a declaration "T x;". A type name followed by '(' in statement
// position is treated as an expression (functional cast or call).
func (p *Parser) looksLikeExprStart() bool {
	return p.currentIs(lexer.TokenIdentifier) && p.peekIs(lexer.TokenLParen)
}

// parseLocalDecl parses a block-scope variable declaration, possibly
// with several declarators
func (p *Parser) parseLocalDecl() ast.Stmt {
	start := p.spanStart()
	base, ok := p.parseDeclSpec()
	if !ok {
		p.skipToStmtBoundary()
		return nil
	}

	ds := &ast.DeclStmt{}
	for {
		dstart := p.spanStart()
		ty, name, nameSpan := p.parseDeclarator(base)
		if name == "" {
			p.errorf("expected declarator name")
			p.skipToStmtBoundary()
			break
		}
		v := &ast.VarDecl{Name: name, Ty: ty, NameSpan: nameSpan}
		if p.currentIs(lexer.TokenAssign) {
			p.nextToken()
			v.Init = p.parseAssignExpr()
		} else if p.currentIs(lexer.TokenLParen) {
			// T v(init): direct initialization
			p.nextToken()
			if !p.currentIs(lexer.TokenRParen) {
				v.Init = p.parseAssignExpr()
			}
			p.expect(lexer.TokenRParen)
		}
		v.Span = p.spanFrom(dstart)
		ds.Decls = append(ds.Decls, v)

		if !p.currentIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.expect(lexer.TokenSemicolon)

	ds.Span = p.spanFrom(start)
	return ds
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.spanStart()
	e := p.parseExpr()
	p.expect(lexer.TokenSemicolon)
	return &ast.ExprStmt{Span: p.spanFrom(start), E: e}
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.spanStart()
	p.nextToken() // return
	r := &ast.ReturnStmt{}
	if !p.currentIs(lexer.TokenSemicolon) {
		r.Value = p.parseExpr()
	}
	p.expect(lexer.TokenSemicolon)
	r.Span = p.spanFrom(start)
	return r
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.spanStart()
	p.nextToken() // if
	p.expect(lexer.TokenLParen)
	cond := p.parseExpr()
	p.expect(lexer.TokenRParen)
	then := p.parseStmt()

	stmt := &ast.IfStmt{Cond: cond, Then: then}
	if p.currentIs(lexer.TokenElse) {
		p.nextToken()
		stmt.Else = p.parseStmt()
	}
	stmt.Span = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.spanStart()
	p.nextToken() // while
	p.expect(lexer.TokenLParen)
	cond := p.parseExpr()
	p.expect(lexer.TokenRParen)
	body := p.parseStmt()
	return &ast.WhileStmt{Span: p.spanFrom(start), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.spanStart()
	p.nextToken() // for
	p.expect(lexer.TokenLParen)

	stmt := &ast.ForStmt{}
	if p.currentIs(lexer.TokenSemicolon) {
		p.nextToken()
	} else if p.startsType() && !p.looksLikeExprStart() {
		stmt.Init = p.parseLocalDecl()
	} else {
		istart := p.spanStart()
		e := p.parseExpr()
		p.expect(lexer.TokenSemicolon)
		stmt.Init = &ast.ExprStmt{Span: p.spanFrom(istart), E: e}
	}

	if !p.currentIs(lexer.TokenSemicolon) {
		stmt.Cond = p.parseExpr()
	}
	p.expect(lexer.TokenSemicolon)

	if !p.currentIs(lexer.TokenRParen) {
		stmt.Post = p.parseExpr()
	}
	p.expect(lexer.TokenRParen)

	stmt.Body = p.parseStmt()
	stmt.Span = p.spanFrom(start)
	return stmt
}
