package parser

import (
	"strconv"
	"strings"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/lexer"
	"github.com/cxxlint/cxxlint/internal/position"
)

// parseExpr parses a full expression including the comma operator
func (p *Parser) parseExpr() ast.Expr {
	start := p.spanStart()
	left := p.parseAssignExpr()
	for p.currentIs(lexer.TokenComma) {
		p.nextToken()
		right := p.parseAssignExpr()
		left = &ast.BinaryExpr{
			ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
			Op:       ast.OpComma,
			LHS:      left,
			RHS:      right,
		}
	}
	return left
}

// parseAssignExpr parses an assignment-expression (no top-level comma)
func (p *Parser) parseAssignExpr() ast.Expr {
	start := p.spanStart()
	left := p.parseConditional()

	op := assignOp(p.current.Type)
	if op == ast.OpInvalid {
		return left
	}
	p.nextToken()
	right := p.parseAssignExpr()
	return &ast.BinaryExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Op:       op,
		LHS:      left,
		RHS:      right,
	}
}

func assignOp(t lexer.TokenType) ast.BinaryOp {
	switch t {
	case lexer.TokenAssign:
		return ast.OpAssign
	case lexer.TokenStarAssign:
		return ast.OpMulAssign
	case lexer.TokenSlashAssign:
		return ast.OpDivAssign
	case lexer.TokenPercentAssign:
		return ast.OpRemAssign
	case lexer.TokenPlusAssign:
		return ast.OpAddAssign
	case lexer.TokenMinusAssign:
		return ast.OpSubAssign
	case lexer.TokenShlAssign:
		return ast.OpShlAssign
	case lexer.TokenShrAssign:
		return ast.OpShrAssign
	case lexer.TokenAmpAssign:
		return ast.OpAndAssign
	case lexer.TokenCaretAssign:
		return ast.OpXorAssign
	case lexer.TokenPipeAssign:
		return ast.OpOrAssign
	}
	return ast.OpInvalid
}

// parseConditional parses a conditional-expression
func (p *Parser) parseConditional() ast.Expr {
	start := p.spanStart()
	cond := p.parseBinaryExpr(1)
	if !p.currentIs(lexer.TokenQuestion) {
		return cond
	}
	p.nextToken()
	then := p.parseExpr()
	p.expect(lexer.TokenColon)
	els := p.parseAssignExpr()
	return &ast.CondExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

// binOpFor returns the binary operator for t and its precedence, or
// OpInvalid for tokens that do not continue a binary expression
func binOpFor(t lexer.TokenType) (ast.BinaryOp, int) {
	switch t {
	case lexer.TokenOrOr:
		return ast.OpLOr, 1
	case lexer.TokenAndAnd:
		return ast.OpLAnd, 2
	case lexer.TokenPipe:
		return ast.OpBitOr, 3
	case lexer.TokenCaret:
		return ast.OpBitXor, 4
	case lexer.TokenAmp:
		return ast.OpBitAnd, 5
	case lexer.TokenEq:
		return ast.OpEQ, 6
	case lexer.TokenNe:
		return ast.OpNE, 6
	case lexer.TokenLt:
		return ast.OpLT, 7
	case lexer.TokenGt:
		return ast.OpGT, 7
	case lexer.TokenLe:
		return ast.OpLE, 7
	case lexer.TokenGe:
		return ast.OpGE, 7
	case lexer.TokenShl:
		return ast.OpShl, 8
	case lexer.TokenShr:
		return ast.OpShr, 8
	case lexer.TokenPlus:
		return ast.OpAdd, 9
	case lexer.TokenMinus:
		return ast.OpSub, 9
	case lexer.TokenStar:
		return ast.OpMul, 10
	case lexer.TokenSlash:
		return ast.OpDiv, 10
	case lexer.TokenPercent:
		return ast.OpRem, 10
	}
	return ast.OpInvalid, 0
}

// parseBinaryExpr parses binary operators at or above minPrec using
// precedence climbing
func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	start := p.spanStart()
	left := p.parseUnary()
	for {
		op, prec := binOpFor(p.current.Type)
		if op == ast.OpInvalid || prec < minPrec {
			return left
		}
		p.nextToken()
		right := p.parseBinaryExpr(prec + 1)
		left = &ast.BinaryExpr{
			ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
			Op:       op,
			LHS:      left,
			RHS:      right,
		}
	}
}

// parseUnary parses a unary-expression or cast-expression
func (p *Parser) parseUnary() ast.Expr {
	start := p.spanStart()

	switch p.current.Type {
	case lexer.TokenPlus:
		return p.parsePrefix(start, ast.OpPlus)
	case lexer.TokenMinus:
		return p.parsePrefix(start, ast.OpNeg)
	case lexer.TokenNot:
		return p.parsePrefix(start, ast.OpNot)
	case lexer.TokenTilde:
		return p.parsePrefix(start, ast.OpCompl)
	case lexer.TokenStar:
		return p.parsePrefix(start, ast.OpDeref)
	case lexer.TokenAmp:
		return p.parsePrefix(start, ast.OpAddrOf)
	case lexer.TokenInc:
		return p.parsePrefix(start, ast.OpPreInc)
	case lexer.TokenDec:
		return p.parsePrefix(start, ast.OpPreDec)

	case lexer.TokenSizeof:
		return p.parseSizeof(start)
	case lexer.TokenNew:
		return p.parseNew(start)
	case lexer.TokenDelete:
		return p.parseDelete(start)

	case lexer.TokenStaticCast, lexer.TokenConstCast,
		lexer.TokenReinterpretCast, lexer.TokenDynamicCast:
		return p.parseNamedCast(start)

	case lexer.TokenLParen:
		if e := p.tryCStyleCast(start); e != nil {
			return e
		}
	}

	// T(e): functional cast when the tokens spell a type followed by a
	// parenthesized argument list
	if p.startsType() {
		if e := p.tryFunctionalCast(start); e != nil {
			return e
		}
	}

	return p.parsePostfix()
}

func (p *Parser) parsePrefix(start position.Position, op ast.UnaryOp) ast.Expr {
	p.nextToken()
	operand := p.parseUnary()
	return &ast.UnaryExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Op:       op,
		Operand:  operand,
	}
}

func (p *Parser) parseSizeof(start position.Position) ast.Expr {
	p.nextToken() // sizeof
	if p.currentIs(lexer.TokenLParen) {
		m := p.mark()
		p.nextToken()
		if p.startsType() {
			if ty, ok := p.parseTypeID(); ok && p.currentIs(lexer.TokenRParen) {
				p.nextToken()
				return &ast.SizeofExpr{
					ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
					ArgType:  ty,
				}
			}
		}
		p.reset(m)
	}
	operand := p.parseUnary()
	return &ast.SizeofExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Operand:  operand,
	}
}

func (p *Parser) parseNew(start position.Position) ast.Expr {
	p.nextToken() // new

	base, ok := p.parseDeclSpec()
	if !ok {
		p.skipToStmtBoundary()
		return p.errorExpr(start)
	}
	ty, _, _ := p.parseDeclarator(base)

	n := &ast.NewExpr{Written: ty}
	if p.currentIs(lexer.TokenLBracket) {
		p.nextToken()
		n.IsArray = true
		if !p.currentIs(lexer.TokenRBracket) {
			n.Args = append(n.Args, p.parseAssignExpr())
		}
		p.expect(lexer.TokenRBracket)
	} else if p.currentIs(lexer.TokenLParen) {
		p.nextToken()
		for !p.currentIs(lexer.TokenRParen) && !p.currentIs(lexer.TokenEOF) {
			n.Args = append(n.Args, p.parseAssignExpr())
			if p.currentIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
		p.expect(lexer.TokenRParen)
	}
	n.Span = p.spanFrom(start)
	return n
}

func (p *Parser) parseDelete(start position.Position) ast.Expr {
	p.nextToken() // delete
	isArray := false
	if p.currentIs(lexer.TokenLBracket) {
		p.nextToken()
		p.expect(lexer.TokenRBracket)
		isArray = true
	}
	operand := p.parseUnary()
	return &ast.DeleteExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Operand:  operand,
		IsArray:  isArray,
	}
}

// parseNamedCast parses static_cast<T>(e) and its three siblings
func (p *Parser) parseNamedCast(start position.Position) ast.Expr {
	kw := p.current.Type
	kwSpan := p.spanOf(p.current)
	p.nextToken() // cast keyword

	if !p.expect(lexer.TokenLt) {
		return p.errorExpr(start)
	}
	ty, ok := p.parseTypeID()
	if !ok {
		p.skipToStmtBoundary()
		return p.errorExpr(start)
	}
	if !p.expect(lexer.TokenGt) {
		return p.errorExpr(start)
	}
	if !p.expect(lexer.TokenLParen) {
		return p.errorExpr(start)
	}
	sub := p.parseExpr()
	p.expect(lexer.TokenRParen)

	cb := ast.CastBase{
		ExprBase:    ast.ExprBase{Span: p.spanFrom(start)},
		Written:     ty,
		Sub:         sub,
		KeywordSpan: kwSpan,
	}
	switch kw {
	case lexer.TokenStaticCast:
		return &ast.StaticCastExpr{CastBase: cb}
	case lexer.TokenConstCast:
		return &ast.ConstCastExpr{CastBase: cb}
	case lexer.TokenReinterpretCast:
		return &ast.ReinterpretCastExpr{CastBase: cb}
	default:
		return &ast.DynamicCastExpr{CastBase: cb}
	}
}

// tryCStyleCast attempts to parse "(T)e" at the current '('. It
// returns nil and restores the position when the parenthesis opens an
// ordinary parenthesized expression instead.
func (p *Parser) tryCStyleCast(start position.Position) ast.Expr {
	m := p.mark()
	p.nextToken() // (

	if !p.startsType() {
		p.reset(m)
		return nil
	}
	errCount := len(p.errors)
	ty, ok := p.parseTypeID()
	if !ok || !p.currentIs(lexer.TokenRParen) {
		p.errors = p.errors[:errCount]
		p.reset(m)
		return nil
	}
	p.nextToken() // )

	if !startsUnaryExpr(p.current.Type) {
		// "(x)+1" where x was registered as a type name elsewhere
		p.reset(m)
		return nil
	}
	sub := p.parseUnary()
	return &ast.CStyleCastExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Written:  ty,
		Sub:      sub,
	}
}

// startsUnaryExpr reports whether t can begin a cast operand
func startsUnaryExpr(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat,
		lexer.TokenString, lexer.TokenChar, lexer.TokenTrue, lexer.TokenFalse,
		lexer.TokenNullptr, lexer.TokenLParen, lexer.TokenPlus, lexer.TokenMinus,
		lexer.TokenNot, lexer.TokenTilde, lexer.TokenStar, lexer.TokenAmp,
		lexer.TokenInc, lexer.TokenDec, lexer.TokenSizeof, lexer.TokenNew,
		lexer.TokenDelete, lexer.TokenStaticCast, lexer.TokenConstCast,
		lexer.TokenReinterpretCast, lexer.TokenDynamicCast, lexer.TokenDoubleColon:
		return true
	}
	return false
}

// tryFunctionalCast attempts to parse "T(e)" at a type name. It
// returns nil and restores the position otherwise.
func (p *Parser) tryFunctionalCast(start position.Position) ast.Expr {
	m := p.mark()
	errCount := len(p.errors)

	base, ok := p.parseDeclSpec()
	if !ok {
		p.errors = p.errors[:errCount]
		p.reset(m)
		return nil
	}
	if !p.currentIs(lexer.TokenLParen) {
		p.reset(m)
		return nil
	}
	p.nextToken() // (
	if p.currentIs(lexer.TokenRParen) {
		// T(): value initialization, not interesting but still an expression
		p.nextToken()
		return &ast.FunctionalCastExpr{
			ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
			Written:  base,
		}
	}
	sub := p.parseAssignExpr()
	if !p.currentIs(lexer.TokenRParen) {
		p.errors = p.errors[:errCount]
		p.reset(m)
		return nil
	}
	p.nextToken() // )
	return &ast.FunctionalCastExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Written:  base,
		Sub:      sub,
	}
}

// parsePostfix parses a primary expression and its postfix operators
func (p *Parser) parsePostfix() ast.Expr {
	start := p.spanStart()
	e := p.parsePrimary()

	for {
		switch p.current.Type {
		case lexer.TokenLParen:
			p.nextToken()
			call := &ast.CallExpr{Fn: e}
			for !p.currentIs(lexer.TokenRParen) && !p.currentIs(lexer.TokenEOF) {
				call.Args = append(call.Args, p.parseAssignExpr())
				if p.currentIs(lexer.TokenComma) {
					p.nextToken()
				} else {
					break
				}
			}
			p.expect(lexer.TokenRParen)
			call.Span = p.spanFrom(start)
			e = call
		case lexer.TokenLBracket:
			p.nextToken()
			idx := p.parseExpr()
			p.expect(lexer.TokenRBracket)
			e = &ast.IndexExpr{
				ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
				Base:     e,
				Index:    idx,
			}
		case lexer.TokenDot, lexer.TokenArrow:
			arrow := p.currentIs(lexer.TokenArrow)
			p.nextToken()
			if !p.currentIs(lexer.TokenIdentifier) {
				p.errorf("expected member name, got %q", p.current.Literal)
				return e
			}
			member := p.current.Literal
			p.nextToken()
			e = &ast.MemberExpr{
				ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
				Base:     e,
				Member:   member,
				Arrow:    arrow,
			}
		case lexer.TokenInc:
			p.nextToken()
			e = &ast.UnaryExpr{
				ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
				Op:       ast.OpPostInc,
				Operand:  e,
			}
		case lexer.TokenDec:
			p.nextToken()
			e = &ast.UnaryExpr{
				ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
				Op:       ast.OpPostDec,
				Operand:  e,
			}
		default:
			return e
		}
	}
}

// parsePrimary parses a primary expression
func (p *Parser) parsePrimary() ast.Expr {
	start := p.spanStart()

	switch p.current.Type {
	case lexer.TokenIdentifier, lexer.TokenDoubleColon:
		return p.parseDeclRef(start)
	case lexer.TokenInteger:
		return p.parseIntLit(start)
	case lexer.TokenFloat:
		text := p.current.Literal
		p.nextToken()
		return &ast.FloatLit{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}, Text: text}
	case lexer.TokenString:
		val := p.current.Literal
		p.nextToken()
		return &ast.StringLit{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}, Value: val}
	case lexer.TokenChar:
		text := p.current.Literal
		p.nextToken()
		return &ast.CharLit{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}, Text: text}
	case lexer.TokenTrue, lexer.TokenFalse:
		val := p.currentIs(lexer.TokenTrue)
		p.nextToken()
		return &ast.BoolLit{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}, Value: val}
	case lexer.TokenNullptr:
		p.nextToken()
		return &ast.NullptrLit{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}}
	case lexer.TokenLParen:
		p.nextToken()
		sub := p.parseExpr()
		p.expect(lexer.TokenRParen)
		return &ast.ParenExpr{ExprBase: ast.ExprBase{Span: p.spanFrom(start)}, Sub: sub}
	default:
		p.errorf("unexpected token %q in expression", p.current.Literal)
		p.nextToken()
		return p.errorExpr(start)
	}
}

// parseDeclRef parses a possibly qualified name; "std::move" becomes a
// single DeclRefExpr named "std::move"
func (p *Parser) parseDeclRef(start position.Position) ast.Expr {
	var parts []string
	if p.currentIs(lexer.TokenDoubleColon) {
		p.nextToken()
	}
	for {
		if !p.currentIs(lexer.TokenIdentifier) {
			p.errorf("expected identifier after '::', got %q", p.current.Literal)
			break
		}
		parts = append(parts, p.current.Literal)
		p.nextToken()
		if !p.currentIs(lexer.TokenDoubleColon) || !p.peekIs(lexer.TokenIdentifier) {
			break
		}
		p.nextToken() // ::
	}
	return &ast.DeclRefExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Name:     strings.Join(parts, "::"),
	}
}

// parseIntLit parses an integer literal keeping its suffix spelling
func (p *Parser) parseIntLit(start position.Position) ast.Expr {
	text := p.current.Literal
	p.nextToken()

	digits := strings.TrimRight(text, "uUlL")
	val, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		val = 0
	}
	return &ast.IntLit{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Text:     text,
		Value:    val,
	}
}

// errorExpr returns a placeholder expression after a parse failure
func (p *Parser) errorExpr(start position.Position) ast.Expr {
	return &ast.DeclRefExpr{
		ExprBase: ast.ExprBase{Span: p.spanFrom(start)},
		Name:     "",
	}
}
