// Package diag defines the diagnostics the checks emit: severity,
// message, source span, related notes and optional fixes. A fluent
// builder keeps check code compact, and a Collector gathers results
// for rendering, caching and exit-code decisions.
package diag

import (
	"sort"

	"github.com/cxxlint/cxxlint/internal/position"
)

// Severity is the severity level of a diagnostic
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		*s = SeverityInfo
	}
	return nil
}

// TextEdit is a single text replacement over a source span
type TextEdit struct {
	Span    position.Span `json:"span"`
	NewText string        `json:"newText"`
}

// Note is additional context attached to a diagnostic, typically
// pointing at a related declaration
type Note struct {
	Message string        `json:"message"`
	Span    position.Span `json:"span"`
}

// Diagnostic is one finding reported by a check
type Diagnostic struct {
	Check    string        `json:"check"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Span     position.Span `json:"span"`
	Notes    []Note        `json:"notes,omitempty"`
	Fixes    []TextEdit    `json:"fixes,omitempty"`
}

// Builder constructs diagnostics with a fluent API
type Builder struct {
	d Diagnostic
}

// New creates a builder for the named check
func New(check string) *Builder {
	return &Builder{d: Diagnostic{Check: check, Severity: SeverityWarning}}
}

func (b *Builder) Error() *Builder {
	b.d.Severity = SeverityError

	return b
}

func (b *Builder) Warning() *Builder {
	b.d.Severity = SeverityWarning

	return b
}

func (b *Builder) Info() *Builder {
	b.d.Severity = SeverityInfo

	return b
}

func (b *Builder) Message(msg string) *Builder {
	b.d.Message = msg

	return b
}

func (b *Builder) Span(span position.Span) *Builder {
	b.d.Span = span

	return b
}

func (b *Builder) Note(msg string, span position.Span) *Builder {
	b.d.Notes = append(b.d.Notes, Note{Message: msg, Span: span})

	return b
}

func (b *Builder) Fix(span position.Span, newText string) *Builder {
	b.d.Fixes = append(b.d.Fixes, TextEdit{Span: span, NewText: newText})

	return b
}

// Build returns the constructed diagnostic
func (b *Builder) Build() Diagnostic {
	return b.d
}

// Reporter receives diagnostics from checks
type Reporter interface {
	Report(d Diagnostic)
}

// Collector gathers diagnostics in memory
type Collector struct {
	diags []Diagnostic
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Reporter
func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Diagnostics returns the collected diagnostics sorted by position,
// then by check name for a stable order
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	Sort(out)
	return out
}

// Count returns how many diagnostics of the given severity were collected
func (c *Collector) Count(s Severity) int {
	n := 0
	for _, d := range c.diags {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file, offset, check name and message
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}
		if a.Span.Start.Offset != b.Span.Start.Offset {
			return a.Span.Start.Offset < b.Span.Start.Offset
		}
		if a.Check != b.Check {
			return a.Check < b.Check
		}
		return a.Message < b.Message
	})
}
