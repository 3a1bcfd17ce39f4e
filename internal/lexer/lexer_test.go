package lexer

import "testing"

func TestBasicTokens(t *testing.T) {
	input := `int main() {
	return 0;
}`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenInt, "int"},
		{TokenIdentifier, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenReturn, "return"},
		{TokenInteger, "0"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestCastKeywords(t *testing.T) {
	input := `static_cast const_cast reinterpret_cast dynamic_cast`

	tests := []TokenType{
		TokenStaticCast,
		TokenConstCast,
		TokenReinterpretCast,
		TokenDynamicCast,
		TokenEOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, expected, tok.Type)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `:: -> . << >> <<= >>= <= >= == != && || ++ -- ... & && = +=`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenDoubleColon, "::"},
		{TokenArrow, "->"},
		{TokenDot, "."},
		{TokenShl, "<<"},
		{TokenShr, ">>"},
		{TokenShlAssign, "<<="},
		{TokenShrAssign, ">>="},
		{TokenLe, "<="},
		{TokenGe, ">="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenAndAnd, "&&"},
		{TokenOrOr, "||"},
		{TokenInc, "++"},
		{TokenDec, "--"},
		{TokenEllipsis, "..."},
		{TokenAmp, "&"},
		{TokenAndAnd, "&&"},
		{TokenAssign, "="},
		{TokenPlusAssign, "+="},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	input := `5 42u 0x1F 100L 7ull 3.14 2.5f 1e10 6.02e23 5L`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenInteger, "5"},
		{TokenInteger, "42u"},
		{TokenInteger, "0x1F"},
		{TokenInteger, "100L"},
		{TokenInteger, "7ull"},
		{TokenFloat, "3.14"},
		{TokenFloat, "2.5f"},
		{TokenFloat, "1e10"},
		{TokenFloat, "6.02e23"},
		{TokenInteger, "5L"},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong for %q. expected=%q, got=%q",
				i, tt.expectedValue, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	input := `"hello" 'a' "esc\n" '\t'`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenString, "hello"},
		{TokenChar, "a"},
		{TokenString, "esc\n"},
		{TokenChar, "\t"},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestCommentsAndDirectivesSkipped(t *testing.T) {
	input := `#include <cstdio>
// line comment
int /* block
comment */ x;`

	tests := []TokenType{TokenInt, TokenIdentifier, TokenSemicolon, TokenEOF}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, expected, tok.Type)
		}
	}
}

func TestTokenSpans(t *testing.T) {
	input := "int x;\nx = 5;"
	toks := Tokenize(input)

	tests := []struct {
		literal     string
		startLine   int
		startColumn int
		startOffset int
	}{
		{"int", 1, 1, 0},
		{"x", 1, 5, 4},
		{";", 1, 6, 5},
		{"x", 2, 1, 7},
		{"=", 2, 3, 9},
		{"5", 2, 5, 11},
		{";", 2, 6, 12},
	}

	for i, tt := range tests {
		tok := toks[i]
		if tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
		s := tok.Span.Start
		if s.Line != tt.startLine || s.Column != tt.startColumn || s.Offset != tt.startOffset {
			t.Errorf("tests[%d] - span start wrong for %q. expected=%d:%d@%d, got=%d:%d@%d",
				i, tt.literal, tt.startLine, tt.startColumn, tt.startOffset, s.Line, s.Column, s.Offset)
		}
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	toks := Tokenize("")
	if len(toks) != 1 || toks[0].Type != TokenEOF {
		t.Fatalf("empty input should produce a single EOF token, got %v", toks)
	}
}
