package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/cxxlint/cxxlint/internal/position"
)

const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

// Renderer writes diagnostics in a human-readable format with source
// snippets and caret markers
type Renderer struct {
	out   io.Writer
	color bool

	// Source files by name, for snippet rendering
	files map[string]*position.SourceFile
}

// NewRenderer creates a renderer for out. Color is enabled when out is
// a terminal, unless overridden with SetColor.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:   out,
		color: isTerminal(out),
		files: make(map[string]*position.SourceFile),
	}
}

// SetColor forces color output on or off
func (r *Renderer) SetColor(on bool) {
	r.color = on
}

// AddFile registers a source file for snippet rendering
func (r *Renderer) AddFile(sf *position.SourceFile) {
	r.files[sf.Filename] = sf
}

// Render writes one diagnostic
func (r *Renderer) Render(d Diagnostic) {
	sevColor := colorYellow
	if d.Severity == SeverityError {
		sevColor = colorRed
	}

	fmt.Fprintf(r.out, "%s: %s%s%s: %s [%s]\n",
		d.Span.Start.String(),
		r.paint(sevColor+colorBold), d.Severity, r.paint(colorReset),
		d.Message, d.Check)

	r.renderSnippet(d.Span)

	for _, n := range d.Notes {
		fmt.Fprintf(r.out, "%s: %snote%s: %s\n",
			n.Span.Start.String(),
			r.paint(colorCyan), r.paint(colorReset), n.Message)
		r.renderSnippet(n.Span)
	}
}

// RenderAll writes every diagnostic followed by a summary line
func (r *Renderer) RenderAll(diags []Diagnostic) {
	for _, d := range diags {
		r.Render(d)
	}
	if len(diags) > 0 {
		errs, warns := 0, 0
		for _, d := range diags {
			switch d.Severity {
			case SeverityError:
				errs++
			case SeverityWarning:
				warns++
			}
		}
		fmt.Fprintf(r.out, "%d problem(s): %d error(s), %d warning(s)\n",
			len(diags), errs, warns)
	}
}

func (r *Renderer) renderSnippet(span position.Span) {
	sf, ok := r.files[span.Start.Filename]
	if !ok || !span.IsValid() {
		return
	}
	line := sf.Line(span.Start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(r.out, "  %4d | %s\n", span.Start.Line, line)

	caretLen := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		caretLen = span.End.Column - span.Start.Column
	}
	pad := strings.Repeat(" ", span.Start.Column-1)
	fmt.Fprintf(r.out, "       | %s%s%s%s\n",
		pad, r.paint(colorBold), strings.Repeat("^", caretLen), r.paint(colorReset))
}

func (r *Renderer) paint(code string) string {
	if !r.color {
		return ""
	}
	return code
}
