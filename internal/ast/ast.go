// Package ast defines the syntax tree for the C++ subset cxxlint
// analyzes. Expressions carry the static type and value category
// computed by the sema pass; the parser leaves both unset.
//
// Explicit casts are distinct node types so checks can branch on the
// cast syntax the programmer wrote. Implicit conversions materialize
// as ImplicitCastExpr nodes inserted by sema, never by the parser.
package ast

import (
	"github.com/cxxlint/cxxlint/internal/ctypes"
	"github.com/cxxlint/cxxlint/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
}

// Expr represents all expression nodes in the AST
type Expr interface {
	Node
	exprNode()
	// Type returns the static type computed by sema (nil before sema)
	Type() *ctypes.Type
	// Category returns the value category computed by sema
	Category() ValueCategory
}

// Stmt represents all statement nodes in the AST
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents all declaration nodes in the AST
type Decl interface {
	Node
	declNode()
}

// ValueCategory classifies an expression per C++: prvalue, lvalue or
// xvalue (expiring value)
type ValueCategory int

const (
	PRValue ValueCategory = iota
	LValue
	XValue
)

func (v ValueCategory) String() string {
	switch v {
	case PRValue:
		return "prvalue"
	case LValue:
		return "lvalue"
	case XValue:
		return "xvalue"
	default:
		return "unknown"
	}
}

// IsGLValue reports whether v is an lvalue or xvalue
func (v ValueCategory) IsGLValue() bool {
	return v == LValue || v == XValue
}

// ExprBase carries the fields shared by every expression node.
// Sema fills Ty and Cat in place.
type ExprBase struct {
	Span position.Span
	Ty   *ctypes.Type
	Cat  ValueCategory
}

func (e *ExprBase) GetSpan() position.Span { return e.Span }

func (e *ExprBase) Type() *ctypes.Type { return e.Ty }

func (e *ExprBase) Category() ValueCategory { return e.Cat }

func (e *ExprBase) exprNode() {}

// ===== Operators =====

// BinaryOp identifies a binary operator
type BinaryOp int

const (
	OpInvalid BinaryOp = iota
	OpMul
	OpDiv
	OpRem
	OpAdd
	OpSub
	OpShl
	OpShr
	OpLT
	OpGT
	OpLE
	OpGE
	OpEQ
	OpNE
	OpBitAnd
	OpBitXor
	OpBitOr
	OpLAnd
	OpLOr
	OpAssign
	OpMulAssign
	OpDivAssign
	OpRemAssign
	OpAddAssign
	OpSubAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign
	OpComma
)

// IsAssignment reports whether op stores into its left operand
func (op BinaryOp) IsAssignment() bool {
	return op >= OpAssign && op <= OpOrAssign
}

// IsComparison reports whether op is a relational or equality operator
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpLT, OpGT, OpLE, OpGE, OpEQ, OpNE:
		return true
	}
	return false
}

// UnaryOp identifies a unary operator
type UnaryOp int

const (
	OpUnaryInvalid UnaryOp = iota
	OpPlus
	OpNeg
	OpNot
	OpCompl
	OpDeref
	OpAddrOf
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

// CastKind identifies the conversion an ImplicitCastExpr performs
type CastKind int

const (
	CastNoOp CastKind = iota // qualification adjustment, no representation change
	CastLValueToRValue
	CastBitCast // object pointer to void pointer (and similar reinterpretations)
	CastDerivedToBase
	CastArithmetic // integral/floating conversions and promotions
	CastOther
)

// ===== Expressions =====

// DeclRefExpr is a use of a declared name
type DeclRefExpr struct {
	ExprBase
	Name string
	Decl Node // *VarDecl, *ParamDecl or *FuncDecl; nil if unresolved
}

// IntLit is an integer literal including its suffix spelling
type IntLit struct {
	ExprBase
	Text  string
	Value uint64
}

// FloatLit is a floating-point literal
type FloatLit struct {
	ExprBase
	Text string
}

// BoolLit is true or false
type BoolLit struct {
	ExprBase
	Value bool
}

// CharLit is a character literal
type CharLit struct {
	ExprBase
	Text string
}

// StringLit is a string literal
type StringLit struct {
	ExprBase
	Value string
}

// NullptrLit is the nullptr literal
type NullptrLit struct {
	ExprBase
}

// ParenExpr is a parenthesized expression
type ParenExpr struct {
	ExprBase
	Sub Expr
}

// UnaryExpr applies a unary operator
type UnaryExpr struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// BinaryExpr applies a binary operator, including assignments and comma
type BinaryExpr struct {
	ExprBase
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// CondExpr is the ternary conditional operator
type CondExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

// CallExpr is a function call
type CallExpr struct {
	ExprBase
	Fn     Expr
	Args   []Expr
	Callee *FuncDecl // resolved direct callee, nil otherwise
}

// MemberExpr accesses a member with . or ->
type MemberExpr struct {
	ExprBase
	Base   Expr
	Member string
	Arrow  bool
}

// IndexExpr is a subscript expression
type IndexExpr struct {
	ExprBase
	Base  Expr
	Index Expr
}

// SizeofExpr is sizeof(expr) or sizeof(type)
type SizeofExpr struct {
	ExprBase
	Operand Expr         // nil when ArgType is set
	ArgType *ctypes.Type // nil when Operand is set
}

// CastBase carries the fields shared by the named cast expressions
// (static_cast, const_cast, reinterpret_cast, dynamic_cast)
type CastBase struct {
	ExprBase
	Written     *ctypes.Type // the type as spelled between the angle brackets
	Sub         Expr
	KeywordSpan position.Span // span of the cast keyword token
}

// StaticCastExpr is a static_cast<T>(e)
type StaticCastExpr struct {
	CastBase
}

// ConstCastExpr is a const_cast<T>(e)
type ConstCastExpr struct {
	CastBase
}

// ReinterpretCastExpr is a reinterpret_cast<T>(e)
type ReinterpretCastExpr struct {
	CastBase
}

// DynamicCastExpr is a dynamic_cast<T>(e); parsed but never flagged
type DynamicCastExpr struct {
	CastBase
}

// FunctionalCastExpr is a functional-style cast T(e)
type FunctionalCastExpr struct {
	ExprBase
	Written *ctypes.Type
	Sub     Expr
}

// CStyleCastExpr is a C-style cast (T)e
type CStyleCastExpr struct {
	ExprBase
	Written *ctypes.Type
	Sub     Expr
}

// ImplicitCastExpr is a conversion materialized by sema
type ImplicitCastExpr struct {
	ExprBase
	CK  CastKind
	Sub Expr
}

// NewExpr is a new or new[] expression
type NewExpr struct {
	ExprBase
	Written *ctypes.Type // the allocated type
	Args    []Expr
	IsArray bool
}

// DeleteExpr is a delete or delete[] expression
type DeleteExpr struct {
	ExprBase
	Operand Expr
	IsArray bool
}

// ===== Declarations =====

// TranslationUnit is the root of a parsed source file
type TranslationUnit struct {
	Span  position.Span
	Decls []Decl
}

func (t *TranslationUnit) GetSpan() position.Span { return t.Span }

// FuncDecl is a function declaration or definition
type FuncDecl struct {
	Span     position.Span
	NameSpan position.Span
	Name     string
	Params   []*ParamDecl
	Return   *ctypes.Type
	Body     *BlockStmt // nil for bare declarations
	Variadic bool
	Prev     *FuncDecl // earlier declaration of the same function, if any
}

func (f *FuncDecl) GetSpan() position.Span { return f.Span }
func (f *FuncDecl) declNode()              {}

// IsDefinition reports whether this declaration carries the body
func (f *FuncDecl) IsDefinition() bool { return f.Body != nil }

// ParamDecl is a function parameter
type ParamDecl struct {
	Span position.Span
	Name string // may be empty in declarations
	Ty   *ctypes.Type
}

func (p *ParamDecl) GetSpan() position.Span { return p.Span }
func (p *ParamDecl) declNode()              {}

// VarDecl is a variable declaration, possibly with an initializer
type VarDecl struct {
	Span     position.Span
	NameSpan position.Span
	Name     string
	Ty       *ctypes.Type
	Init     Expr
}

func (v *VarDecl) GetSpan() position.Span { return v.Span }
func (v *VarDecl) declNode()              {}

// TypedefDecl is a typedef or alias-using declaration
type TypedefDecl struct {
	Span position.Span
	Name string
	Ty   *ctypes.Type
}

func (t *TypedefDecl) GetSpan() position.Span { return t.Span }
func (t *TypedefDecl) declNode()              {}

// RecordDecl is a struct or class declaration
type RecordDecl struct {
	Span    position.Span
	Name    string
	Base    string // single public base, "" if none
	Fields  []*FieldDecl
	IsClass bool
}

func (r *RecordDecl) GetSpan() position.Span { return r.Span }
func (r *RecordDecl) declNode()              {}

// FieldDecl is a data member of a record
type FieldDecl struct {
	Span position.Span
	Name string
	Ty   *ctypes.Type
}

func (f *FieldDecl) GetSpan() position.Span { return f.Span }
func (f *FieldDecl) declNode()              {}

// EnumDecl is an enumeration declaration
type EnumDecl struct {
	Span        position.Span
	Name        string
	Enumerators []string
}

func (e *EnumDecl) GetSpan() position.Span { return e.Span }
func (e *EnumDecl) declNode()              {}

// ===== Statements =====

// BlockStmt is a braced statement sequence
type BlockStmt struct {
	Span  position.Span
	Stmts []Stmt
}

func (b *BlockStmt) GetSpan() position.Span { return b.Span }
func (b *BlockStmt) stmtNode()              {}

// DeclStmt wraps local declarations appearing in statement position
type DeclStmt struct {
	Span  position.Span
	Decls []Decl
}

func (d *DeclStmt) GetSpan() position.Span { return d.Span }
func (d *DeclStmt) stmtNode()              {}

// ExprStmt is an expression evaluated for its effects
type ExprStmt struct {
	Span position.Span
	E    Expr
}

func (e *ExprStmt) GetSpan() position.Span { return e.Span }
func (e *ExprStmt) stmtNode()              {}

// ReturnStmt returns from the enclosing function
type ReturnStmt struct {
	Span  position.Span
	Value Expr // nil for bare return
}

func (r *ReturnStmt) GetSpan() position.Span { return r.Span }
func (r *ReturnStmt) stmtNode()              {}

// IfStmt is an if/else statement
type IfStmt struct {
	Span position.Span
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

func (i *IfStmt) GetSpan() position.Span { return i.Span }
func (i *IfStmt) stmtNode()              {}

// WhileStmt is a while loop
type WhileStmt struct {
	Span position.Span
	Cond Expr
	Body Stmt
}

func (w *WhileStmt) GetSpan() position.Span { return w.Span }
func (w *WhileStmt) stmtNode()              {}

// ForStmt is a classic for loop
type ForStmt struct {
	Span position.Span
	Init Stmt // nil or DeclStmt/ExprStmt
	Cond Expr // nil if absent
	Post Expr // nil if absent
	Body Stmt
}

func (f *ForStmt) GetSpan() position.Span { return f.Span }
func (f *ForStmt) stmtNode()              {}

// ===== Helpers =====

// IgnoreParens peels parenthesized expressions
func IgnoreParens(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.Sub
	}
}

// IgnoreParenImpCasts peels parentheses and implicit casts
func IgnoreParenImpCasts(e Expr) Expr {
	for {
		switch n := e.(type) {
		case *ParenExpr:
			e = n.Sub
		case *ImplicitCastExpr:
			e = n.Sub
		default:
			return e
		}
	}
}

// SubExprAsWritten returns a cast's operand as the programmer wrote it,
// peeling any implicit conversions sema layered on top of it
func SubExprAsWritten(sub Expr) Expr {
	for {
		ic, ok := sub.(*ImplicitCastExpr)
		if !ok {
			return sub
		}
		sub = ic.Sub
	}
}
