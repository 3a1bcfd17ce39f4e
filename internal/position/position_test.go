package position

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos      Position
		expected string
	}{
		{Position{Filename: "dir/test.cpp", Line: 3, Column: 7, Offset: 42}, "test.cpp:3:7"},
		{Position{Line: 1, Column: 1, Offset: 0}, "1:1"},
	}

	for i, tt := range tests {
		if got := tt.pos.String(); got != tt.expected {
			t.Errorf("tests[%d] - String wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestSpanValidity(t *testing.T) {
	a := Position{Filename: "a.cpp", Line: 1, Column: 1, Offset: 0}
	b := Position{Filename: "a.cpp", Line: 1, Column: 5, Offset: 4}
	c := Position{Filename: "b.cpp", Line: 1, Column: 5, Offset: 4}

	if !(Span{Start: a, End: b}).IsValid() {
		t.Error("span within one file should be valid")
	}
	if (Span{Start: b, End: a}).IsValid() {
		t.Error("reversed span should be invalid")
	}
	if (Span{Start: a, End: c}).IsValid() {
		t.Error("span across files should be invalid")
	}
}

func TestSpanContains(t *testing.T) {
	start := Position{Filename: "a.cpp", Line: 1, Column: 3, Offset: 2}
	end := Position{Filename: "a.cpp", Line: 1, Column: 8, Offset: 7}
	span := Span{Start: start, End: end}

	tests := []struct {
		offset   int
		expected bool
	}{
		{2, true},
		{6, true},
		{7, false}, // End offset is exclusive
		{1, false},
	}

	for i, tt := range tests {
		pos := Position{Filename: "a.cpp", Line: 1, Column: tt.offset + 1, Offset: tt.offset}
		if got := span.Contains(pos); got != tt.expected {
			t.Errorf("tests[%d] - Contains(%d) expected=%v, got=%v", i, tt.offset, tt.expected, got)
		}
	}
}

func TestSourceFilePositionAt(t *testing.T) {
	sf := NewSourceFile("t.cpp", "int a;\nint b;\n")

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{7, 2, 1},
		{11, 2, 5},
		{100, 3, 1}, // clamped to end
	}

	for i, tt := range tests {
		got := sf.PositionAt(tt.offset)
		if got.Line != tt.line || got.Column != tt.column {
			t.Errorf("tests[%d] - PositionAt(%d) expected=%d:%d, got=%d:%d",
				i, tt.offset, tt.line, tt.column, got.Line, got.Column)
		}
	}
}

func TestSourceFileLine(t *testing.T) {
	sf := NewSourceFile("t.cpp", "int a;\r\nint b;\nint c;")

	tests := []struct {
		line     int
		expected string
	}{
		{1, "int a;"},
		{2, "int b;"},
		{3, "int c;"},
		{0, ""},
		{4, ""},
	}

	for i, tt := range tests {
		if got := sf.Line(tt.line); got != tt.expected {
			t.Errorf("tests[%d] - Line(%d) expected=%q, got=%q", i, tt.line, tt.expected, got)
		}
	}
}

func TestSourceFileSnippet(t *testing.T) {
	sf := NewSourceFile("t.cpp", "const_cast<int&>(x)")
	span := Span{
		Start: Position{Filename: "t.cpp", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "t.cpp", Line: 1, Column: 11, Offset: 10},
	}
	if got := sf.Snippet(span); got != "const_cast" {
		t.Errorf("Snippet wrong. expected=%q, got=%q", "const_cast", got)
	}
}
