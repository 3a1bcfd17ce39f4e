package redundantcast

import (
	"strings"
	"testing"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/parser"
	"github.com/cxxlint/cxxlint/internal/position"
	"github.com/cxxlint/cxxlint/internal/sema"
)

func run(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	p := parser.New("test.cpp", src)
	unit, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	sema.Analyze(unit)

	col := diag.NewCollector()
	ctx := &check.Context{
		Unit:     unit,
		File:     position.NewSourceFile("test.cpp", src),
		Parents:  ast.BuildParentMap(unit),
		Reporter: col,
	}
	c := New()
	ast.Walk(unit, func(n ast.Node) bool {
		c.Visit(ctx, n)
		return true
	})
	return col.Diagnostics()
}

func wantOne(t *testing.T, diags []diag.Diagnostic, substr string) {
	t.Helper()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), messages(diags))
	}
	if !strings.Contains(diags[0].Message, substr) {
		t.Errorf("message = %q, want substring %q", diags[0].Message, substr)
	}
}

func wantNone(t *testing.T, diags []diag.Diagnostic) {
	t.Helper()
	if len(diags) != 0 {
		t.Fatalf("got %d diagnostics, want none: %v", len(diags), messages(diags))
	}
}

func messages(diags []diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestRedundantConstCast(t *testing.T) {
	diags := run(t, `
void f(char *p) {
    char *q = const_cast<char *>(p);
}
`)
	wantOne(t, diags, "redundant const_cast from char * lvalue to char * prvalue")
}

func TestRedundantConstCastToReference(t *testing.T) {
	diags := run(t, `
void f(char c) {
    char &r = const_cast<char &>(c);
}
`)
	wantOne(t, diags, "redundant const_cast from char lvalue to char & lvalue")
}

func TestConstCastToRValueReferenceNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f(char c) {
    char &&r = const_cast<char &&>(c);
}
`))
}

func TestNecessaryConstCastNotFlagged(t *testing.T) {
	diags := run(t, `
void g(char *);
void f(const char *p) {
    g(const_cast<char *>(p));
}
`)
	wantNone(t, diags)
}

func TestConstCastImplicitlyCastBack(t *testing.T) {
	diags := run(t, `
void f(const char *p) {
    const char *q = const_cast<char *>(p);
}
`)
	wantOne(t, diags, "result is implicitly cast to")
}

func TestReinterpretCastToVoidPointerRoundTrip(t *testing.T) {
	diags := run(t, `
void g(void *);
void f(int *p) {
    g(reinterpret_cast<int *>(p));
}
`)
	wantOne(t, diags, "redundant reinterpret_cast, result is implicitly cast to void pointer")
}

func TestStaticCastFromVoidPointerRoundTrip(t *testing.T) {
	diags := run(t, `
void g(void *);
void f(void *p) {
    g(static_cast<int *>(p));
}
`)
	wantOne(t, diags, "redundant static_cast from void pointer, result is implicitly cast to void pointer")
}

func TestConstCastPeeledUnderVoidPointerConversion(t *testing.T) {
	diags := run(t, `
void g(const void *);
void f(const char *p) {
    g(const_cast<char *>(p));
}
`)
	wantOne(t, diags, "result is ultimately implicitly cast to")
}

func TestReinterpretCastFromVoidSimplifiable(t *testing.T) {
	diags := run(t, `
void f(void *p) {
    int *q = reinterpret_cast<int *>(p);
}
`)
	wantOne(t, diags, "reinterpret_cast from void * to int * can be simplified to static_cast")
}

func TestReinterpretCastToVoidSimplifiable(t *testing.T) {
	diags := run(t, `
void f(int *p) {
    void *q = reinterpret_cast<void *>(p);
}
`)
	wantOne(t, diags, "can be simplified to static_cast or an implicit conversion")
}

func TestRedundantStaticCast(t *testing.T) {
	diags := run(t, `
void f(int n) {
    int x = static_cast<int>(n);
}
`)
	wantOne(t, diags, "static_cast from int lvalue to int prvalue is redundant")
	if !strings.Contains(diags[0].Message, "explicit construction of a temporary") {
		t.Errorf("message = %q, want temporary variant", diags[0].Message)
	}
}

func TestStaticCastOfLiteralNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f() {
    int x = static_cast<int>(5);
}
`))
}

func TestStaticCastOfArithmeticOpNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f(int a, int b) {
    int x = static_cast<int>(a + b);
}
`))
}

func TestStaticCastQualificationOnly(t *testing.T) {
	diags := run(t, `
void f(int n) {
    int x = static_cast<const int>(n);
}
`)
	wantOne(t, diags, "remove redundant top-level const qualifier")
}

func TestStaticCastShouldBeConstCast(t *testing.T) {
	diags := run(t, `
void f(int n) {
    const int &r = static_cast<const int &>(n);
}
`)
	wantOne(t, diags, "should be written as const_cast")
}

func TestVoidPointerTypedefExceptionSuppresses(t *testing.T) {
	wantNone(t, run(t, `
typedef void *oslModule;
void f(oslModule m) {
    void *p = static_cast<void *>(m);
}
`))
}

func TestPlainVoidPointerStaticCastFlagged(t *testing.T) {
	diags := run(t, `
void f(void *m) {
    void *p = static_cast<void *>(m);
}
`)
	wantOne(t, diags, "is redundant")
}

func TestStaticCastConstCastCombination(t *testing.T) {
	diags := run(t, `
void f(char *p) {
    char *q = const_cast<char *>(static_cast<const char *>(p));
}
`)
	wantOne(t, diags, "redundant static_cast/const_cast combination from char * via const char * to char *")
}

func TestConstCastInDelete(t *testing.T) {
	diags := run(t, `
void f(const int *p) {
    delete const_cast<int *>(p);
}
`)
	wantOne(t, diags, "redundant const_cast in delete expression")
}

func TestConstCastOfVariadicArgument(t *testing.T) {
	diags := run(t, `
int printf(const char *fmt, ...);
void f(const char *p) {
    printf("%p", const_cast<char *>(p));
}
`)
	wantOne(t, diags, "redundant const_cast of variadic function argument")
}

func TestConstCastInPointerComparison(t *testing.T) {
	diags := run(t, `
void f(const int *p, int *q) {
    bool b = const_cast<int *>(p) == q;
}
`)
	wantOne(t, diags, "redundant const_cast on lhs of pointer comparison expression")
}

func TestConstCastInPointerSubtraction(t *testing.T) {
	diags := run(t, `
void f(int *p, const int *q) {
    long d = p - const_cast<int *>(q);
}
`)
	wantOne(t, diags, "redundant const_cast on rhs of pointer subtraction expression")
}

func TestRedundantFunctionalCast(t *testing.T) {
	diags := run(t, `
void f(bool a, bool b) {
    bool c = bool(a == b);
}
`)
	wantOne(t, diags, "redundant functional cast from bool to bool")
}

func TestFunctionalCastOfLValueNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f(int n) {
    int x = int(n);
}
`))
}

func TestCStyleCastOfLiteralNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f() {
    int x = (int)5;
}
`))
}

func TestCStyleCastOfArithmeticOpNotFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f(int a, int b) {
    int x = (int)(a + b);
}
`))
}

func TestRedundantCStyleCastOfTypedef(t *testing.T) {
	diags := run(t, `
typedef int myint;
void f(myint m) {
    myint x = (myint)m;
}
`)
	wantOne(t, diags, "redundant cstyle cast from myint to myint")
}

func TestDerivedToBaseOverConstCast(t *testing.T) {
	diags := run(t, `
struct B { int x; };
struct D : public B { int y; };
void f(const D *d) {
    const B *b = const_cast<D *>(d);
}
`)
	wantOne(t, diags, "result is ultimately implicitly cast to")
}

func TestUnknownTypesNeverFlagged(t *testing.T) {
	wantNone(t, run(t, `
void f() {
    int x = static_cast<int>(mystery);
}
`))
}
