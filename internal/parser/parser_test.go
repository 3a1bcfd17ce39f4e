package parser

import (
	"testing"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/ctypes"
)

func parseOK(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	p := New("test.cpp", src)
	unit, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return unit
}

// firstFunc returns the first function definition in the unit
func firstFunc(t *testing.T, unit *ast.TranslationUnit) *ast.FuncDecl {
	t.Helper()
	for _, d := range unit.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok && fn.IsDefinition() {
			return fn
		}
	}
	t.Fatal("no function definition found")
	return nil
}

func TestParseVariableDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		wantType string
	}{
		{"int", "int x;", "x", "int"},
		{"const int", "const int x = 1;", "x", "const int"},
		{"pointer", "char *p;", "p", "char *"},
		{"pointer to const", "const char *p;", "p", "const char *"},
		{"const pointer", "char * const p = 0;", "p", "char * const"},
		{"unsigned long long", "unsigned long long n;", "n", "unsigned long long"},
		{"reference", "int &r = x;", "r", "int &"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseOK(t, tt.src)
			if len(unit.Decls) != 1 {
				t.Fatalf("got %d decls, want 1", len(unit.Decls))
			}
			v, ok := unit.Decls[0].(*ast.VarDecl)
			if !ok {
				t.Fatalf("got %T, want *ast.VarDecl", unit.Decls[0])
			}
			if v.Name != tt.wantName {
				t.Errorf("name = %q, want %q", v.Name, tt.wantName)
			}
			if got := v.Ty.String(); got != tt.wantType {
				t.Errorf("type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestParseMultipleDeclarators(t *testing.T) {
	unit := parseOK(t, "int a = 1, *b = &a;")
	if len(unit.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(unit.Decls))
	}
	b := unit.Decls[1].(*ast.VarDecl)
	if b.Name != "b" {
		t.Errorf("second declarator name = %q, want b", b.Name)
	}
	if !b.Ty.IsPointer() {
		t.Errorf("second declarator type = %s, want pointer", b.Ty)
	}
}

func TestParseTypedef(t *testing.T) {
	unit := parseOK(t, "typedef char *CharPtr; CharPtr p;")
	td, ok := unit.Decls[0].(*ast.TypedefDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.TypedefDecl", unit.Decls[0])
	}
	if td.Name != "CharPtr" {
		t.Errorf("typedef name = %q", td.Name)
	}
	v := unit.Decls[1].(*ast.VarDecl)
	if v.Ty.Kind != ctypes.Typedef || v.Ty.Name != "CharPtr" {
		t.Errorf("use of typedef = %s, want typedef reference", v.Ty)
	}
	if can := ctypes.Canonical(v.Ty); !can.IsPointer() {
		t.Errorf("canonical type = %s, want char *", can)
	}
}

func TestParseUsingAlias(t *testing.T) {
	unit := parseOK(t, "using Word = unsigned short; Word w;")
	if _, ok := unit.Decls[0].(*ast.TypedefDecl); !ok {
		t.Fatalf("got %T, want *ast.TypedefDecl", unit.Decls[0])
	}
	v := unit.Decls[1].(*ast.VarDecl)
	if ctypes.Canonical(v.Ty).Kind != ctypes.UShort {
		t.Errorf("canonical kind = %v, want UShort", ctypes.Canonical(v.Ty).Kind)
	}
}

func TestParseRecord(t *testing.T) {
	src := `
struct Base { int a; };
struct Derived : public Base { double b; char tag; };
`
	unit := parseOK(t, src)
	if len(unit.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(unit.Decls))
	}
	d := unit.Decls[1].(*ast.RecordDecl)
	if d.Base != "Base" {
		t.Errorf("base = %q, want Base", d.Base)
	}
	if len(d.Fields) != 2 {
		t.Errorf("got %d fields, want 2", len(d.Fields))
	}
}

func TestParseRecordSkipsMemberFunctions(t *testing.T) {
	src := `
struct S {
    int x;
    int get() { return x; }
    void set(int v);
    double y;
};
`
	unit := parseOK(t, src)
	rec := unit.Decls[0].(*ast.RecordDecl)
	if len(rec.Fields) != 2 {
		t.Fatalf("got %d fields, want 2 (x and y)", len(rec.Fields))
	}
	if rec.Fields[0].Name != "x" || rec.Fields[1].Name != "y" {
		t.Errorf("fields = %s, %s", rec.Fields[0].Name, rec.Fields[1].Name)
	}
}

func TestParseEnum(t *testing.T) {
	unit := parseOK(t, "enum Color { Red, Green = 2, Blue };")
	e := unit.Decls[0].(*ast.EnumDecl)
	if e.Name != "Color" {
		t.Errorf("name = %q", e.Name)
	}
	if len(e.Enumerators) != 3 {
		t.Errorf("got %d enumerators, want 3", len(e.Enumerators))
	}
}

func TestParseFunction(t *testing.T) {
	src := `
int add(int a, int b);
int add(int a, int b) { return a + b; }
`
	unit := parseOK(t, src)
	if len(unit.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(unit.Decls))
	}
	def := unit.Decls[1].(*ast.FuncDecl)
	if !def.IsDefinition() {
		t.Fatal("second decl should be a definition")
	}
	if def.Prev == nil {
		t.Error("definition should link to the earlier declaration")
	}
	if len(def.Params) != 2 {
		t.Errorf("got %d params, want 2", len(def.Params))
	}
}

func TestParseVariadicFunction(t *testing.T) {
	unit := parseOK(t, "int printf(const char *fmt, ...);")
	fn := unit.Decls[0].(*ast.FuncDecl)
	if !fn.Variadic {
		t.Error("expected variadic function")
	}
	if len(fn.Params) != 1 {
		t.Errorf("got %d declared params, want 1", len(fn.Params))
	}
}

func TestParseNamespaceFlattened(t *testing.T) {
	src := `
namespace util {
    int helper() { return 0; }
    int value;
}
`
	unit := parseOK(t, src)
	if len(unit.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(unit.Decls))
	}
}

func TestParseNamedCasts(t *testing.T) {
	src := `
void f(char *p) {
    const char *c = static_cast<const char *>(p);
    char *q = const_cast<char *>(c);
    void *v = reinterpret_cast<void *>(p);
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	stmts := fn.Body.Stmts
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}

	init0 := stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	sc, ok := init0.(*ast.StaticCastExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.StaticCastExpr", init0)
	}
	if got := sc.Written.String(); got != "const char *" {
		t.Errorf("written type = %q", got)
	}
	if sc.KeywordSpan.Start.Offset >= sc.KeywordSpan.End.Offset {
		t.Error("keyword span should be non-empty")
	}

	init1 := stmts[1].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	if _, ok := init1.(*ast.ConstCastExpr); !ok {
		t.Fatalf("got %T, want *ast.ConstCastExpr", init1)
	}
	init2 := stmts[2].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	if _, ok := init2.(*ast.ReinterpretCastExpr); !ok {
		t.Fatalf("got %T, want *ast.ReinterpretCastExpr", init2)
	}
}

func TestParseCStyleCast(t *testing.T) {
	src := `
void f() {
    int x = (int)5;
    double d = (double)x;
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	init := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	cc, ok := init.(*ast.CStyleCastExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CStyleCastExpr", init)
	}
	if cc.Written.Kind != ctypes.Int {
		t.Errorf("written type = %s, want int", cc.Written)
	}
	if _, ok := cc.Sub.(*ast.IntLit); !ok {
		t.Errorf("operand = %T, want *ast.IntLit", cc.Sub)
	}
}

func TestParenExprNotMistakenForCast(t *testing.T) {
	src := `
void f(int a, int b) {
    int x = (a) + b;
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	init := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	bin, ok := init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpr", init)
	}
	if bin.Op != ast.OpAdd {
		t.Errorf("op = %v, want OpAdd", bin.Op)
	}
}

func TestParseFunctionalCast(t *testing.T) {
	src := `
void f(long n) {
    int x = int(n);
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	init := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	fc, ok := init.(*ast.FunctionalCastExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.FunctionalCastExpr", init)
	}
	if fc.Written.Kind != ctypes.Int {
		t.Errorf("written type = %s, want int", fc.Written)
	}
}

func TestParseCommaAndConditional(t *testing.T) {
	src := `
void f(int a, int b) {
    int x = (a, b);
    int y = a < b ? a : b;
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)

	init0 := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	paren := init0.(*ast.ParenExpr)
	comma, ok := paren.Sub.(*ast.BinaryExpr)
	if !ok || comma.Op != ast.OpComma {
		t.Fatalf("got %T, want comma BinaryExpr", paren.Sub)
	}

	init1 := fn.Body.Stmts[1].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	if _, ok := init1.(*ast.CondExpr); !ok {
		t.Fatalf("got %T, want *ast.CondExpr", init1)
	}
}

func TestParseForLoopWithCommaPost(t *testing.T) {
	src := `
void f(int n) {
    for (int i = 0, j = n; i < j; i++, j--) {
    }
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	loop := fn.Body.Stmts[0].(*ast.ForStmt)
	if loop.Init == nil || loop.Cond == nil || loop.Post == nil {
		t.Fatal("for loop parts missing")
	}
	post, ok := loop.Post.(*ast.BinaryExpr)
	if !ok || post.Op != ast.OpComma {
		t.Fatalf("post = %T, want comma BinaryExpr", loop.Post)
	}
}

func TestParseDeleteAndNew(t *testing.T) {
	src := `
struct S { int x; };
void f() {
    S *p = new S();
    delete p;
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	init := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	if _, ok := init.(*ast.NewExpr); !ok {
		t.Fatalf("got %T, want *ast.NewExpr", init)
	}
	es := fn.Body.Stmts[1].(*ast.ExprStmt)
	if _, ok := es.E.(*ast.DeleteExpr); !ok {
		t.Fatalf("got %T, want *ast.DeleteExpr", es.E)
	}
}

func TestParseSizeof(t *testing.T) {
	src := `
void f(int x) {
    unsigned long a = sizeof(int);
    unsigned long b = sizeof x;
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)

	a := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init.(*ast.SizeofExpr)
	if a.ArgType == nil || a.ArgType.Kind != ctypes.Int {
		t.Errorf("sizeof(int) arg type = %v", a.ArgType)
	}
	b := fn.Body.Stmts[1].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init.(*ast.SizeofExpr)
	if b.Operand == nil {
		t.Error("sizeof x should carry an operand")
	}
}

func TestParseQualifiedName(t *testing.T) {
	src := `
void f(int x) {
    int y = std::move(x);
}
`
	unit := parseOK(t, src)
	fn := firstFunc(t, unit)
	init := fn.Body.Stmts[0].(*ast.DeclStmt).Decls[0].(*ast.VarDecl).Init
	call, ok := init.(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CallExpr", init)
	}
	ref := call.Fn.(*ast.DeclRefExpr)
	if ref.Name != "std::move" {
		t.Errorf("callee = %q, want std::move", ref.Name)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `
int good1;
@#$ garbage here;
int good2;
`
	p := New("test.cpp", src)
	unit, errs := p.Parse()
	if len(errs) == 0 {
		t.Fatal("expected parse errors")
	}
	names := map[string]bool{}
	for _, d := range unit.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			names[v.Name] = true
		}
	}
	if !names["good1"] || !names["good2"] {
		t.Errorf("recovery lost declarations: %v", names)
	}
}
