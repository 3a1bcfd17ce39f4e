package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types for the C++ subset cxxlint understands
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenChar

	// Keywords
	TokenConst
	TokenVolatile
	TokenUnsigned
	TokenSigned
	TokenVoid
	TokenBool
	TokenCharKw
	TokenShort
	TokenInt
	TokenLong
	TokenFloatKw
	TokenDouble
	TokenTrue
	TokenFalse
	TokenNullptr
	TokenStruct
	TokenClass
	TokenEnum
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenTypedef
	TokenUsing
	TokenNamespace
	TokenStaticCast
	TokenConstCast
	TokenReinterpretCast
	TokenDynamicCast
	TokenNew
	TokenDelete
	TokenReturn
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenSizeof

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenCaret
	TokenAmp
	TokenPipe
	TokenTilde
	TokenNot
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenCaretAssign
	TokenAmpAssign
	TokenPipeAssign
	TokenShl
	TokenShr
	TokenShlAssign
	TokenShrAssign
	TokenEq
	TokenNe
	TokenLt
	TokenGt
	TokenLe
	TokenGe
	TokenAndAnd
	TokenOrOr
	TokenInc
	TokenDec

	// Punctuation
	TokenComma
	TokenArrow
	TokenDot
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenSemicolon
	TokenColon
	TokenDoubleColon
	TokenQuestion
	TokenEllipsis
)

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset in source
}

// Span represents a range in the source code
type Span struct {
	Start Position
	End   Position
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string
	Span    Span
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Span.Start.Line, t.Span.Start.Column)
}

// tokenNames provides string representations for token types
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "IDENTIFIER",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenChar:       "CHAR",

	TokenConst:           "CONST",
	TokenVolatile:        "VOLATILE",
	TokenUnsigned:        "UNSIGNED",
	TokenSigned:          "SIGNED",
	TokenVoid:            "VOID",
	TokenBool:            "BOOL",
	TokenCharKw:          "CHAR_KW",
	TokenShort:           "SHORT",
	TokenInt:             "INT",
	TokenLong:            "LONG",
	TokenFloatKw:         "FLOAT_KW",
	TokenDouble:          "DOUBLE",
	TokenTrue:            "TRUE",
	TokenFalse:           "FALSE",
	TokenNullptr:         "NULLPTR",
	TokenStruct:          "STRUCT",
	TokenClass:           "CLASS",
	TokenEnum:            "ENUM",
	TokenPublic:          "PUBLIC",
	TokenPrivate:         "PRIVATE",
	TokenProtected:       "PROTECTED",
	TokenTypedef:         "TYPEDEF",
	TokenUsing:           "USING",
	TokenNamespace:       "NAMESPACE",
	TokenStaticCast:      "STATIC_CAST",
	TokenConstCast:       "CONST_CAST",
	TokenReinterpretCast: "REINTERPRET_CAST",
	TokenDynamicCast:     "DYNAMIC_CAST",
	TokenNew:             "NEW",
	TokenDelete:          "DELETE",
	TokenReturn:          "RETURN",
	TokenIf:              "IF",
	TokenElse:            "ELSE",
	TokenFor:             "FOR",
	TokenWhile:           "WHILE",
	TokenSizeof:          "SIZEOF",

	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenCaret:         "^",
	TokenAmp:           "&",
	TokenPipe:          "|",
	TokenTilde:         "~",
	TokenNot:           "!",
	TokenAssign:        "=",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenCaretAssign:   "^=",
	TokenAmpAssign:     "&=",
	TokenPipeAssign:    "|=",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenGt:            ">",
	TokenLe:            "<=",
	TokenGe:            ">=",
	TokenAndAnd:        "&&",
	TokenOrOr:          "||",
	TokenInc:           "++",
	TokenDec:           "--",

	TokenComma:       ",",
	TokenArrow:       "->",
	TokenDot:         ".",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenSemicolon:   ";",
	TokenColon:       ":",
	TokenDoubleColon: "::",
	TokenQuestion:    "?",
	TokenEllipsis:    "...",
}

// keywords maps identifier spellings to keyword token types
var keywords = map[string]TokenType{
	"const":            TokenConst,
	"volatile":         TokenVolatile,
	"unsigned":         TokenUnsigned,
	"signed":           TokenSigned,
	"void":             TokenVoid,
	"bool":             TokenBool,
	"char":             TokenCharKw,
	"short":            TokenShort,
	"int":              TokenInt,
	"long":             TokenLong,
	"float":            TokenFloatKw,
	"double":           TokenDouble,
	"true":             TokenTrue,
	"false":            TokenFalse,
	"nullptr":          TokenNullptr,
	"struct":           TokenStruct,
	"class":            TokenClass,
	"enum":             TokenEnum,
	"public":           TokenPublic,
	"private":          TokenPrivate,
	"protected":        TokenProtected,
	"typedef":          TokenTypedef,
	"using":            TokenUsing,
	"namespace":        TokenNamespace,
	"static_cast":      TokenStaticCast,
	"const_cast":       TokenConstCast,
	"reinterpret_cast": TokenReinterpretCast,
	"dynamic_cast":     TokenDynamicCast,
	"new":              TokenNew,
	"delete":           TokenDelete,
	"return":           TokenReturn,
	"if":               TokenIf,
	"else":             TokenElse,
	"for":              TokenFor,
	"while":            TokenWhile,
	"sizeof":           TokenSizeof,
}

// LookupIdent returns the keyword token type for ident, or TokenIdentifier
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdentifier
}

// IsTypeKeyword reports whether tt can begin a decl-specifier sequence
func IsTypeKeyword(tt TokenType) bool {
	switch tt {
	case TokenConst, TokenVolatile, TokenUnsigned, TokenSigned,
		TokenVoid, TokenBool, TokenCharKw, TokenShort, TokenInt,
		TokenLong, TokenFloatKw, TokenDouble, TokenStruct, TokenClass, TokenEnum:
		return true
	}
	return false
}
