package parser

import (
	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/ctypes"
	"github.com/cxxlint/cxxlint/internal/lexer"
	"github.com/cxxlint/cxxlint/internal/position"
)

// parseTopLevelDecl parses one top-level declaration. Namespace blocks
// are flattened, so a single construct may yield several declarations.
func (p *Parser) parseTopLevelDecl() ast.Decl {
	switch p.current.Type {
	case lexer.TokenTypedef:
		return p.parseTypedef()
	case lexer.TokenUsing:
		return p.parseUsingAlias()
	case lexer.TokenStruct, lexer.TokenClass:
		if p.peekIs(lexer.TokenIdentifier) {
			after := p.toks[min(p.pos+2, len(p.toks)-1)].Type
			if after == lexer.TokenLBrace || after == lexer.TokenColon {
				return p.parseRecord()
			}
			if after == lexer.TokenSemicolon {
				return p.parseForwardRecord()
			}
		}
		return p.parseDeclOrFunc()
	case lexer.TokenEnum:
		if p.peekIs(lexer.TokenIdentifier) || p.peekIs(lexer.TokenClass) {
			return p.parseEnum()
		}
		return p.parseDeclOrFunc()
	case lexer.TokenNamespace:
		p.parseNamespace()
		return nil
	case lexer.TokenSemicolon:
		p.nextToken()
		return nil
	default:
		if p.startsType() {
			return p.parseDeclOrFunc()
		}
		p.errorf("unexpected token %q at file scope", p.current.Literal)
		p.skipToStmtBoundary()
		return nil
	}
}

// parseNamespace parses "namespace N { ... }" and queues the inner
// declarations without qualifying their names
func (p *Parser) parseNamespace() {
	p.nextToken() // namespace
	if p.currentIs(lexer.TokenIdentifier) {
		p.nextToken()
	}
	if !p.expect(lexer.TokenLBrace) {
		p.skipToStmtBoundary()
		return
	}
	for !p.currentIs(lexer.TokenRBrace) && !p.currentIs(lexer.TokenEOF) {
		before := p.pos
		if d := p.parseTopLevelDecl(); d != nil {
			p.pending = append(p.pending, d)
		}
		if p.pos == before {
			p.nextToken()
		}
	}
	p.expect(lexer.TokenRBrace)
}

// parseTypedef parses "typedef <type> <declarator>;"
func (p *Parser) parseTypedef() ast.Decl {
	start := p.spanStart()
	p.nextToken() // typedef

	base, ok := p.parseDeclSpec()
	if !ok {
		p.skipToStmtBoundary()
		return nil
	}
	ty, name, _ := p.parseDeclarator(base)
	if name == "" {
		p.errorf("typedef requires a name")
		p.skipToStmtBoundary()
		return nil
	}
	p.expect(lexer.TokenSemicolon)

	p.typedefs[name] = ty
	return &ast.TypedefDecl{Span: p.spanFrom(start), Name: name, Ty: ty}
}

// parseUsingAlias parses "using name = <type>;". Other using forms
// (using namespace, using declarations) are consumed without effect.
func (p *Parser) parseUsingAlias() ast.Decl {
	start := p.spanStart()
	p.nextToken() // using

	if !p.currentIs(lexer.TokenIdentifier) || !p.peekIs(lexer.TokenAssign) {
		p.skipToStmtBoundary()
		return nil
	}
	name := p.current.Literal
	p.nextToken() // name
	p.nextToken() // =

	ty, ok := p.parseTypeID()
	if !ok {
		p.skipToStmtBoundary()
		return nil
	}
	p.expect(lexer.TokenSemicolon)

	p.typedefs[name] = ty
	return &ast.TypedefDecl{Span: p.spanFrom(start), Name: name, Ty: ty}
}

// parseForwardRecord parses "struct X;"
func (p *Parser) parseForwardRecord() ast.Decl {
	start := p.spanStart()
	isClass := p.currentIs(lexer.TokenClass)
	p.nextToken() // struct/class
	name := p.current.Literal
	p.nextToken() // name
	p.expect(lexer.TokenSemicolon)

	if _, ok := p.records[name]; !ok {
		p.records[name] = ctypes.NamedRecord(name, 0)
	}
	return &ast.RecordDecl{Span: p.spanFrom(start), Name: name, IsClass: isClass}
}

// parseRecord parses a struct/class definition with an optional single
// base. Member functions are skipped; data members become fields and
// drive the record's size estimate.
func (p *Parser) parseRecord() ast.Decl {
	start := p.spanStart()
	isClass := p.currentIs(lexer.TokenClass)
	p.nextToken() // struct/class
	name := p.current.Literal
	p.nextToken() // name

	rec := &ast.RecordDecl{Name: name, IsClass: isClass}

	if p.currentIs(lexer.TokenColon) {
		p.nextToken()
		switch p.current.Type {
		case lexer.TokenPublic, lexer.TokenPrivate, lexer.TokenProtected:
			p.nextToken()
		}
		if p.currentIs(lexer.TokenIdentifier) {
			rec.Base = p.current.Literal
			p.nextToken()
		}
	}

	// Forward references to the record inside its own body see size 0
	p.records[name] = ctypes.NamedRecord(name, 0)

	if !p.expect(lexer.TokenLBrace) {
		p.skipToStmtBoundary()
		return rec
	}

	for !p.currentIs(lexer.TokenRBrace) && !p.currentIs(lexer.TokenEOF) {
		p.parseRecordMember(rec)
	}
	p.expect(lexer.TokenRBrace)
	p.expect(lexer.TokenSemicolon)

	size := 0
	for _, f := range rec.Fields {
		size += ctypes.SizeOf(f.Ty)
	}
	if base, ok := p.records[rec.Base]; ok {
		size += base.Size
	}
	if size == 0 {
		size = 1
	}
	p.records[name] = ctypes.NamedRecord(name, size)

	rec.Span = p.spanFrom(start)
	return rec
}

// parseRecordMember parses one member; only data members are kept
func (p *Parser) parseRecordMember(rec *ast.RecordDecl) {
	switch p.current.Type {
	case lexer.TokenPublic, lexer.TokenPrivate, lexer.TokenProtected:
		p.nextToken()
		p.expect(lexer.TokenColon)
		return
	case lexer.TokenSemicolon:
		p.nextToken()
		return
	}

	start := p.spanStart()
	if !p.startsType() {
		// Constructors, destructors, operators: skip the member
		p.skipMember()
		return
	}
	base, ok := p.parseDeclSpec()
	if !ok {
		p.skipMember()
		return
	}
	ty, name, _ := p.parseDeclarator(base)
	if name == "" || p.currentIs(lexer.TokenLParen) {
		// Member function (or unparsable member): skip declaration or body
		p.skipMember()
		return
	}
	rec.Fields = append(rec.Fields, &ast.FieldDecl{Span: p.spanFrom(start), Name: name, Ty: ty})

	for p.currentIs(lexer.TokenComma) {
		p.nextToken()
		ty2, name2, _ := p.parseDeclarator(base)
		if name2 == "" {
			break
		}
		rec.Fields = append(rec.Fields, &ast.FieldDecl{Span: p.spanFrom(start), Name: name2, Ty: ty2})
	}
	p.expect(lexer.TokenSemicolon)
}

// skipMember consumes tokens up to and including the end of the
// current member: a top-level ';' or a balanced inline body.
func (p *Parser) skipMember() {
	depth := 0
	for !p.currentIs(lexer.TokenEOF) {
		switch p.current.Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			if depth == 0 {
				return // record's closing brace; leave it
			}
			depth--
			if depth == 0 {
				p.nextToken()
				// Optional ';' after an inline body
				if p.currentIs(lexer.TokenSemicolon) {
					p.nextToken()
				}
				return
			}
		case lexer.TokenSemicolon:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// parseEnum parses "enum [class] Name { A, B = 2, ... };"
func (p *Parser) parseEnum() ast.Decl {
	start := p.spanStart()
	p.nextToken() // enum
	if p.currentIs(lexer.TokenClass) || p.currentIs(lexer.TokenStruct) {
		p.nextToken()
	}
	name := p.current.Literal
	p.nextToken() // name

	decl := &ast.EnumDecl{Name: name}
	p.enums[name] = ctypes.NamedEnum(name)

	if p.currentIs(lexer.TokenLBrace) {
		p.nextToken()
		for !p.currentIs(lexer.TokenRBrace) && !p.currentIs(lexer.TokenEOF) {
			if p.currentIs(lexer.TokenIdentifier) {
				decl.Enumerators = append(decl.Enumerators, p.current.Literal)
				p.nextToken()
				if p.currentIs(lexer.TokenAssign) {
					p.nextToken()
					p.parseAssignExpr() // discard constant expression
				}
			}
			if p.currentIs(lexer.TokenComma) {
				p.nextToken()
			}
		}
		p.expect(lexer.TokenRBrace)
	}
	p.expect(lexer.TokenSemicolon)

	decl.Span = p.spanFrom(start)
	return decl
}

// parseDeclOrFunc parses a variable declaration or a function
// declaration/definition starting at a decl-specifier sequence.
func (p *Parser) parseDeclOrFunc() ast.Decl {
	start := p.spanStart()
	base, ok := p.parseDeclSpec()
	if !ok {
		p.skipToStmtBoundary()
		return nil
	}

	ty, name, nameSpan := p.parseDeclarator(base)

	if p.currentIs(lexer.TokenLParen) && name != "" {
		return p.parseFunctionRest(start, nameSpan, name, ty)
	}

	return p.parseVarDeclRest(start, base, ty, name, nameSpan)
}

// parseVarDeclRest finishes a (possibly multi-declarator) variable
// declaration; the first declarator has already been parsed.
func (p *Parser) parseVarDeclRest(start position.Position, base *ctypes.Type, ty *ctypes.Type, name string, nameSpan position.Span) ast.Decl {
	if name == "" {
		p.errorf("expected declarator name")
		p.skipToStmtBoundary()
		return nil
	}

	first := &ast.VarDecl{Name: name, Ty: ty, NameSpan: nameSpan}
	if p.currentIs(lexer.TokenAssign) {
		p.nextToken()
		first.Init = p.parseAssignExpr()
	}
	first.Span = p.spanFrom(start)

	if !p.currentIs(lexer.TokenComma) {
		p.expect(lexer.TokenSemicolon)
		return first
	}

	// int a = 1, *b = &a; additional declarators restart from the base type
	group := []ast.Decl{first}
	for p.currentIs(lexer.TokenComma) {
		p.nextToken()
		dstart := p.spanStart()
		ty2, name2, nameSpan2 := p.parseDeclarator(base)
		if name2 == "" {
			p.errorf("expected declarator name")
			break
		}
		v := &ast.VarDecl{Name: name2, Ty: ty2, NameSpan: nameSpan2}
		if p.currentIs(lexer.TokenAssign) {
			p.nextToken()
			v.Init = p.parseAssignExpr()
		}
		v.Span = p.spanFrom(dstart)
		group = append(group, v)
	}
	p.expect(lexer.TokenSemicolon)

	for _, d := range group[1:] {
		p.pending = append(p.pending, d)
	}
	return first
}

// parseFunctionRest parses a parameter list and optional body; the
// return type and name have already been consumed.
func (p *Parser) parseFunctionRest(start position.Position, nameSpan position.Span, name string, ret *ctypes.Type) ast.Decl {
	fn := &ast.FuncDecl{Name: name, NameSpan: nameSpan, Return: ret}

	p.expect(lexer.TokenLParen)
	if p.currentIs(lexer.TokenVoid) && p.peekIs(lexer.TokenRParen) {
		p.nextToken() // (void)
	}
	for !p.currentIs(lexer.TokenRParen) && !p.currentIs(lexer.TokenEOF) {
		if p.currentIs(lexer.TokenEllipsis) {
			fn.Variadic = true
			p.nextToken()
			break
		}
		pstart := p.spanStart()
		base, ok := p.parseDeclSpec()
		if !ok {
			p.skipToStmtBoundary()
			return fn
		}
		pty, pname, _ := p.parseDeclarator(base)
		fn.Params = append(fn.Params, &ast.ParamDecl{Span: p.spanFrom(pstart), Name: pname, Ty: pty})
		if p.currentIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	p.expect(lexer.TokenRParen)

	if prev, ok := p.funcs[name]; ok {
		fn.Prev = prev
	} else {
		p.funcs[name] = fn
	}

	switch p.current.Type {
	case lexer.TokenSemicolon:
		p.nextToken()
	case lexer.TokenLBrace:
		fn.Body = p.parseBlock()
	default:
		p.errorf("expected ';' or function body, got %q", p.current.Literal)
		p.skipToStmtBoundary()
	}

	fn.Span = p.spanFrom(start)
	return fn
}

// parseDeclSpec parses a decl-specifier sequence into a base type
func (p *Parser) parseDeclSpec() (*ctypes.Type, bool) {
	var quals ctypes.Qual
	var named *ctypes.Type
	sawUnsigned, sawSigned, sawShort := false, false, false
	longCount := 0
	baseKind := ctypes.Invalid

loop:
	for {
		switch p.current.Type {
		case lexer.TokenConst:
			quals |= ctypes.QualConst
			p.nextToken()
		case lexer.TokenVolatile:
			quals |= ctypes.QualVolatile
			p.nextToken()
		case lexer.TokenUnsigned:
			sawUnsigned = true
			p.nextToken()
		case lexer.TokenSigned:
			sawSigned = true
			p.nextToken()
		case lexer.TokenShort:
			sawShort = true
			p.nextToken()
		case lexer.TokenLong:
			longCount++
			p.nextToken()
		case lexer.TokenVoid:
			baseKind = ctypes.Void
			p.nextToken()
		case lexer.TokenBool:
			baseKind = ctypes.Bool
			p.nextToken()
		case lexer.TokenCharKw:
			baseKind = ctypes.Char
			p.nextToken()
		case lexer.TokenInt:
			if baseKind == ctypes.Invalid {
				baseKind = ctypes.Int
			}
			p.nextToken()
		case lexer.TokenFloatKw:
			baseKind = ctypes.Float
			p.nextToken()
		case lexer.TokenDouble:
			baseKind = ctypes.Double
			p.nextToken()
		case lexer.TokenStruct, lexer.TokenClass:
			p.nextToken()
			if !p.currentIs(lexer.TokenIdentifier) {
				p.errorf("expected record name after struct/class")
				return nil, false
			}
			named = p.recordRef(p.current.Literal)
			p.nextToken()
		case lexer.TokenEnum:
			p.nextToken()
			if !p.currentIs(lexer.TokenIdentifier) {
				p.errorf("expected enum name")
				return nil, false
			}
			named = p.enumRef(p.current.Literal)
			p.nextToken()
		case lexer.TokenIdentifier:
			if named == nil && baseKind == ctypes.Invalid &&
				!sawUnsigned && !sawSigned && !sawShort && longCount == 0 &&
				p.isTypeName(p.current.Literal) {
				named = p.typeRef(p.current.Literal)
				p.nextToken()
				continue
			}
			break loop
		default:
			break loop
		}
	}

	if named != nil {
		return ctypes.Qualified(named, quals), true
	}

	kind, ok := builtinKind(baseKind, sawUnsigned, sawSigned, sawShort, longCount)
	if !ok {
		p.errorf("expected type, got %q", p.current.Literal)
		return nil, false
	}
	return ctypes.Qualified(ctypes.Builtin(kind), quals), true
}

// builtinKind combines the collected specifier words into a type kind
func builtinKind(base ctypes.Kind, unsigned, signed_, short_ bool, longCount int) (ctypes.Kind, bool) {
	switch base {
	case ctypes.Void, ctypes.Bool, ctypes.Float:
		return base, true
	case ctypes.Double:
		if longCount > 0 {
			return ctypes.LongDouble, true
		}
		return ctypes.Double, true
	case ctypes.Char:
		if unsigned {
			return ctypes.UChar, true
		}
		if signed_ {
			return ctypes.SChar, true
		}
		return ctypes.Char, true
	}

	// Plain integer combinations, possibly with no base word at all
	switch {
	case short_:
		if unsigned {
			return ctypes.UShort, true
		}
		return ctypes.Short, true
	case longCount >= 2:
		if unsigned {
			return ctypes.ULongLong, true
		}
		return ctypes.LongLong, true
	case longCount == 1:
		if unsigned {
			return ctypes.ULong, true
		}
		return ctypes.Long, true
	case base == ctypes.Int || unsigned || signed_:
		if unsigned {
			return ctypes.UInt, true
		}
		return ctypes.Int, true
	}
	return ctypes.Invalid, false
}

// parseDeclarator parses pointer/reference operators and an optional
// name on top of the base type
func (p *Parser) parseDeclarator(base *ctypes.Type) (*ctypes.Type, string, position.Span) {
	ty := base
	for p.currentIs(lexer.TokenStar) {
		p.nextToken()
		ty = ctypes.PointerTo(ty)
		for p.currentIs(lexer.TokenConst) || p.currentIs(lexer.TokenVolatile) {
			if p.currentIs(lexer.TokenConst) {
				ty = ctypes.Qualified(ty, ctypes.QualConst)
			} else {
				ty = ctypes.Qualified(ty, ctypes.QualVolatile)
			}
			p.nextToken()
		}
	}
	switch p.current.Type {
	case lexer.TokenAmp:
		p.nextToken()
		ty = ctypes.LValueRefTo(ty)
	case lexer.TokenAndAnd:
		p.nextToken()
		ty = ctypes.RValueRefTo(ty)
	}

	name := ""
	var nameSpan position.Span
	if p.currentIs(lexer.TokenIdentifier) {
		name = p.current.Literal
		nameSpan = p.spanOf(p.current)
		p.nextToken()
	}
	return ty, name, nameSpan
}

// parseTypeID parses a type-id: decl-specifiers plus an abstract
// declarator (no name)
func (p *Parser) parseTypeID() (*ctypes.Type, bool) {
	base, ok := p.parseDeclSpec()
	if !ok {
		return nil, false
	}
	ty, name, _ := p.parseDeclarator(base)
	if name != "" {
		p.errorf("unexpected name %q in type", name)
		return nil, false
	}
	return ty, true
}

// typeRef builds a reference to a registered type name
func (p *Parser) typeRef(name string) *ctypes.Type {
	if u, ok := p.typedefs[name]; ok {
		return ctypes.NamedTypedef(name, u)
	}
	if r, ok := p.records[name]; ok {
		return r
	}
	if e, ok := p.enums[name]; ok {
		return e
	}
	return ctypes.NamedRecord(name, 0)
}

func (p *Parser) recordRef(name string) *ctypes.Type {
	if r, ok := p.records[name]; ok {
		return r
	}
	r := ctypes.NamedRecord(name, 0)
	p.records[name] = r
	return r
}

func (p *Parser) enumRef(name string) *ctypes.Type {
	if e, ok := p.enums[name]; ok {
		return e
	}
	e := ctypes.NamedEnum(name)
	p.enums[name] = e
	return e
}
