// Package position tracks source locations. Positions and spans flow
// from the lexer through the AST into diagnostics and rewrites.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position is a single point in a source file.
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}

	return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
}

// Span is a source range. The offset range is half-open:
// [Start.Offset, End.Offset).
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// String returns a string representation of the span
func (s Span) String() string {
	prefix := ""
	if s.Start.Filename != "" {
		prefix = filepath.Base(s.Start.Filename) + ":"
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s%d:%d-%d", prefix, s.Start.Line, s.Start.Column, s.End.Column)
	}

	return fmt.Sprintf("%s%d:%d-%d:%d", prefix, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Contains returns true if the span contains the given position
func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() || s.Start.Filename != pos.Filename {
		return false
	}

	return s.Start.Offset <= pos.Offset && pos.Offset < s.End.Offset
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}

	return s.End.Offset - s.Start.Offset
}

// SourceFile holds a file's content together with a line-offset index
// for snippet rendering and offset-to-position lookups.
type SourceFile struct {
	Filename string
	Content  string

	// Byte offset of the start of each line. lineStarts[0] is 0.
	lineStarts []int
}

// NewSourceFile indexes content for position lookups.
func NewSourceFile(filename, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &SourceFile{Filename: filename, Content: content, lineStarts: starts}
}

// Line returns the text of the 1-based line without its trailing
// newline, or "" when the line does not exist.
func (sf *SourceFile) Line(n int) string {
	if n < 1 || n > len(sf.lineStarts) {
		return ""
	}
	start := sf.lineStarts[n-1]
	end := len(sf.Content)
	if n < len(sf.lineStarts) {
		end = sf.lineStarts[n] - 1
	}

	return strings.TrimSuffix(sf.Content[start:end], "\r")
}

// PositionAt converts a byte offset into a full Position. Offsets past
// the end of the content clamp to the final position.
func (sf *SourceFile) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	// First line starting after the offset; the offset's line is the
	// one before it.
	line := sort.Search(len(sf.lineStarts), func(i int) bool {
		return sf.lineStarts[i] > offset
	})

	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   offset - sf.lineStarts[line-1] + 1,
		Offset:   offset,
	}
}

// Snippet returns the source text covered by the span, or "" when the
// span does not lie inside this file's content.
func (sf *SourceFile) Snippet(s Span) string {
	if !s.IsValid() || s.End.Offset > len(sf.Content) {
		return ""
	}

	return sf.Content[s.Start.Offset:s.End.Offset]
}
