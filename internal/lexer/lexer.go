// Package lexer implements the lexical analyzer for the C++ subset
// cxxlint parses. Comments and whitespace are consumed between tokens;
// every emitted token carries its exact source span.
package lexer

import (
	"strings"
)

// Lexer tokenizes C++ source text
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position (after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line
	column       int  // current 1-based column
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar advances to the next character in the input
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.readPosition+n-1 >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n-1]
}

// currentPos captures the position of the character under examination
func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.position}
}

// endPos captures the position one past the last consumed character
func (l *Lexer) endPos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // '*'
				l.readChar() // '/'
			}
		case l.ch == '#':
			// Preprocessor directives are not interpreted; skip the line
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	start := l.currentPos()

	if l.ch == 0 {
		return Token{Type: TokenEOF, Literal: "", Span: Span{Start: start, End: start}}
	}

	if isLetter(l.ch) {
		lit := l.readIdentifier()
		return l.token(LookupIdent(lit), lit, start)
	}
	if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		typ, lit := l.readNumber()
		return l.token(typ, lit, start)
	}

	switch l.ch {
	case '"':
		lit, ok := l.readString()
		if !ok {
			return l.token(TokenError, lit, start)
		}
		return l.token(TokenString, lit, start)
	case '\'':
		lit, ok := l.readCharLiteral()
		if !ok {
			return l.token(TokenError, lit, start)
		}
		return l.token(TokenChar, lit, start)
	case '+':
		switch l.peekChar() {
		case '+':
			return l.tokenN(TokenInc, 2, start)
		case '=':
			return l.tokenN(TokenPlusAssign, 2, start)
		}
		return l.tokenN(TokenPlus, 1, start)
	case '-':
		switch l.peekChar() {
		case '-':
			return l.tokenN(TokenDec, 2, start)
		case '=':
			return l.tokenN(TokenMinusAssign, 2, start)
		case '>':
			return l.tokenN(TokenArrow, 2, start)
		}
		return l.tokenN(TokenMinus, 1, start)
	case '*':
		if l.peekChar() == '=' {
			return l.tokenN(TokenStarAssign, 2, start)
		}
		return l.tokenN(TokenStar, 1, start)
	case '/':
		if l.peekChar() == '=' {
			return l.tokenN(TokenSlashAssign, 2, start)
		}
		return l.tokenN(TokenSlash, 1, start)
	case '%':
		if l.peekChar() == '=' {
			return l.tokenN(TokenPercentAssign, 2, start)
		}
		return l.tokenN(TokenPercent, 1, start)
	case '^':
		if l.peekChar() == '=' {
			return l.tokenN(TokenCaretAssign, 2, start)
		}
		return l.tokenN(TokenCaret, 1, start)
	case '&':
		switch l.peekChar() {
		case '&':
			return l.tokenN(TokenAndAnd, 2, start)
		case '=':
			return l.tokenN(TokenAmpAssign, 2, start)
		}
		return l.tokenN(TokenAmp, 1, start)
	case '|':
		switch l.peekChar() {
		case '|':
			return l.tokenN(TokenOrOr, 2, start)
		case '=':
			return l.tokenN(TokenPipeAssign, 2, start)
		}
		return l.tokenN(TokenPipe, 1, start)
	case '~':
		return l.tokenN(TokenTilde, 1, start)
	case '!':
		if l.peekChar() == '=' {
			return l.tokenN(TokenNe, 2, start)
		}
		return l.tokenN(TokenNot, 1, start)
	case '=':
		if l.peekChar() == '=' {
			return l.tokenN(TokenEq, 2, start)
		}
		return l.tokenN(TokenAssign, 1, start)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.tokenN(TokenLe, 2, start)
		case '<':
			if l.peekCharAt(2) == '=' {
				return l.tokenN(TokenShlAssign, 3, start)
			}
			return l.tokenN(TokenShl, 2, start)
		}
		return l.tokenN(TokenLt, 1, start)
	case '>':
		switch l.peekChar() {
		case '=':
			return l.tokenN(TokenGe, 2, start)
		case '>':
			if l.peekCharAt(2) == '=' {
				return l.tokenN(TokenShrAssign, 3, start)
			}
			return l.tokenN(TokenShr, 2, start)
		}
		return l.tokenN(TokenGt, 1, start)
	case ',':
		return l.tokenN(TokenComma, 1, start)
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(2) == '.' {
			return l.tokenN(TokenEllipsis, 3, start)
		}
		return l.tokenN(TokenDot, 1, start)
	case '(':
		return l.tokenN(TokenLParen, 1, start)
	case ')':
		return l.tokenN(TokenRParen, 1, start)
	case '[':
		return l.tokenN(TokenLBracket, 1, start)
	case ']':
		return l.tokenN(TokenRBracket, 1, start)
	case '{':
		return l.tokenN(TokenLBrace, 1, start)
	case '}':
		return l.tokenN(TokenRBrace, 1, start)
	case ';':
		return l.tokenN(TokenSemicolon, 1, start)
	case ':':
		if l.peekChar() == ':' {
			return l.tokenN(TokenDoubleColon, 2, start)
		}
		return l.tokenN(TokenColon, 1, start)
	case '?':
		return l.tokenN(TokenQuestion, 1, start)
	}

	return l.tokenN(TokenError, 1, start)
}

// token builds a token whose literal has already been consumed
func (l *Lexer) token(typ TokenType, lit string, start Position) Token {
	return Token{Type: typ, Literal: lit, Span: Span{Start: start, End: l.endPos()}}
}

// tokenN consumes n characters starting at the current one and builds a token
func (l *Lexer) tokenN(typ TokenType, n int, start Position) Token {
	lit := l.input[l.position : l.position+n]
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return Token{Type: typ, Literal: lit, Span: Span{Start: start, End: l.endPos()}}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer or floating literal including its suffix
func (l *Lexer) readNumber() (TokenType, string) {
	start := l.position
	typ := TokenInteger

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			typ = TokenFloat
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			next := l.peekChar()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(2))) {
				typ = TokenFloat
				l.readChar()
				if l.ch == '+' || l.ch == '-' {
					l.readChar()
				}
				for isDigit(l.ch) {
					l.readChar()
				}
			}
		}
	}

	// Suffixes: integer u/U l/L ll/LL in any valid order, float f/F l/L
	for strings.ContainsRune("uUlLfF", rune(l.ch)) {
		if l.ch == 'f' || l.ch == 'F' {
			typ = TokenFloat
		}
		l.readChar()
	}

	return typ, l.input[start:l.position]
}

// readString reads a string literal; the returned literal excludes quotes
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return sb.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteByte(unescape(l.ch))
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return sb.String(), true
}

// readCharLiteral reads a character literal; the literal excludes quotes
func (l *Lexer) readCharLiteral() (string, bool) {
	var sb strings.Builder
	l.readChar() // opening quote
	for l.ch != '\'' {
		if l.ch == 0 || l.ch == '\n' {
			return sb.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteByte(unescape(l.ch))
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return sb.String(), true
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

// Tokenize lexes the whole input into a slice ending with a TokenEOF.
// The parser indexes into this slice for its current/peek pair and for
// the bounded backtracking that C-style cast disambiguation needs.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
