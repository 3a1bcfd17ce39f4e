package diag

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cxxlint/cxxlint/internal/position"
)

func spanAt(file string, line, col, offset, length int) position.Span {
	return position.Span{
		Start: position.Position{Filename: file, Line: line, Column: col, Offset: offset},
		End:   position.Position{Filename: file, Line: line, Column: col + length, Offset: offset + length},
	}
}

func TestBuilder(t *testing.T) {
	span := spanAt("a.cpp", 3, 5, 40, 10)
	d := New("redundant-cast").
		Warning().
		Message("redundant const_cast").
		Span(span).
		Note("declared here", spanAt("a.cpp", 1, 1, 0, 4)).
		Fix(span, "x").
		Build()

	if d.Check != "redundant-cast" {
		t.Errorf("check = %q", d.Check)
	}
	if d.Severity != SeverityWarning {
		t.Errorf("severity = %v", d.Severity)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Errorf("notes = %d, fixes = %d", len(d.Notes), len(d.Fixes))
	}
}

func TestCollectorSortsByPosition(t *testing.T) {
	c := NewCollector()
	c.Report(New("b-check").Span(spanAt("z.cpp", 1, 1, 0, 1)).Message("third").Build())
	c.Report(New("a-check").Span(spanAt("a.cpp", 5, 1, 50, 1)).Message("second").Build())
	c.Report(New("a-check").Span(spanAt("a.cpp", 1, 1, 0, 1)).Message("first").Build())

	got := c.Diagnostics()
	want := []string{"first", "second", "third"}
	for i, d := range got {
		if d.Message != want[i] {
			t.Errorf("diags[%d] = %q, want %q", i, d.Message, want[i])
		}
	}
}

func TestCollectorCount(t *testing.T) {
	c := NewCollector()
	c.Report(New("x").Error().Build())
	c.Report(New("x").Warning().Build())
	c.Report(New("x").Warning().Build())

	if got := c.Count(SeverityError); got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
	if got := c.Count(SeverityWarning); got != 2 {
		t.Errorf("warnings = %d, want 2", got)
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	d := New("c").Error().Message("m").Build()
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"severity":"error"`) {
		t.Errorf("marshaled: %s", data)
	}

	var back Diagnostic
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Severity != SeverityError {
		t.Errorf("severity after round trip = %v", back.Severity)
	}
}

func TestRendererSnippetAndCaret(t *testing.T) {
	src := "int x;\nchar *p = 0;\n"
	sf := position.NewSourceFile("a.cpp", src)

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.SetColor(false)
	r.AddFile(sf)

	d := New("demo").
		Warning().
		Message("something here").
		Span(spanAt("a.cpp", 2, 1, 7, 4)).
		Build()
	r.Render(d)

	out := buf.String()
	if !strings.Contains(out, "a.cpp:2:1: warning: something here [demo]") {
		t.Errorf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "char *p = 0;") {
		t.Errorf("snippet missing:\n%s", out)
	}
	if !strings.Contains(out, "^^^^") {
		t.Errorf("caret missing:\n%s", out)
	}
}

func TestRenderAllSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.SetColor(false)

	r.RenderAll([]Diagnostic{
		New("c").Error().Message("e").Span(spanAt("a.cpp", 1, 1, 0, 1)).Build(),
		New("c").Warning().Message("w").Span(spanAt("a.cpp", 2, 1, 5, 1)).Build(),
	})
	if !strings.Contains(buf.String(), "2 problem(s): 1 error(s), 1 warning(s)") {
		t.Errorf("summary missing:\n%s", buf.String())
	}
}
