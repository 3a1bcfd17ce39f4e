package ctypes

import "testing"

func TestCanonicalResolvesTypedefChains(t *testing.T) {
	// typedef int myint; typedef myint other;
	myint := NamedTypedef("myint", Builtin(Int))
	other := NamedTypedef("other", myint)

	c := Canonical(other)
	if c.Kind != Int {
		t.Fatalf("canonical kind wrong. expected=Int, got=%v", c.Kind)
	}
	if !Same(c, Builtin(Int)) {
		t.Errorf("canonical of chained typedef should be int, got %s", c)
	}
}

func TestCanonicalAccumulatesQualifiers(t *testing.T) {
	// typedef int myint; const myint x; -> canonical const int
	myint := NamedTypedef("myint", Builtin(Int))
	constMyint := Qualified(myint, QualConst)

	c := Canonical(constMyint)
	if c.Quals&QualConst == 0 {
		t.Error("qualifier on typedef spelling must survive canonicalization")
	}
	if c.Kind != Int {
		t.Errorf("canonical kind wrong. expected=Int, got=%v", c.Kind)
	}
}

func TestSameIsSpelledEquality(t *testing.T) {
	myint := NamedTypedef("myint", Builtin(Int))

	if Same(myint, Builtin(Int)) {
		t.Error("typedef spelling must not equal its underlying type under Same")
	}
	if !Same(Canonical(myint), Builtin(Int)) {
		t.Error("canonical typedef must equal its underlying type")
	}
}

func TestSameUnqualified(t *testing.T) {
	ci := Qualified(Builtin(Int), QualConst)

	if Same(ci, Builtin(Int)) {
		t.Error("const int != int under qualified comparison")
	}
	if !SameUnqualified(ci, Builtin(Int)) {
		t.Error("const int == int ignoring top-level qualifiers")
	}

	// Nested qualifiers are not top-level: const char* vs char*
	pConstChar := PointerTo(Qualified(Builtin(Char), QualConst))
	pChar := PointerTo(Builtin(Char))
	if SameUnqualified(pConstChar, pChar) {
		t.Error("pointee qualifiers must not be ignored by SameUnqualified")
	}
}

func TestQualificationConversion(t *testing.T) {
	charT := Builtin(Char)
	constChar := Qualified(charT, QualConst)

	tests := []struct {
		name     string
		from, to *Type
		expected bool
	}{
		{
			"char* to const char*",
			PointerTo(charT), PointerTo(constChar),
			true,
		},
		{
			"const char* to char* (removes qualifier)",
			PointerTo(constChar), PointerTo(charT),
			false,
		},
		{
			"char** to const char** (missing const at intermediate level)",
			PointerTo(PointerTo(charT)),
			PointerTo(PointerTo(constChar)),
			false,
		},
		{
			"char** to const char* const*",
			PointerTo(PointerTo(charT)),
			PointerTo(Qualified(PointerTo(constChar), QualConst)),
			true,
		},
		{
			"int* to const char* (different pointee)",
			PointerTo(Builtin(Int)), PointerTo(constChar),
			false,
		},
		{
			"non-pointer types",
			Builtin(Int), Qualified(Builtin(Int), QualConst),
			false,
		},
		{
			"identical chains (no qualifier added)",
			PointerTo(charT), PointerTo(charT),
			true,
		},
	}

	for _, tt := range tests {
		if got := QualificationConversion(tt.from, tt.to); got != tt.expected {
			t.Errorf("%s: expected=%v, got=%v", tt.name, tt.expected, got)
		}
	}
}

func TestQualificationConversionThroughTypedef(t *testing.T) {
	// typedef char* str; str to const char* const requires canonicalization
	str := NamedTypedef("str", PointerTo(Builtin(Char)))
	target := PointerTo(Qualified(Builtin(Char), QualConst))
	if !QualificationConversion(str, target) {
		t.Error("qualification conversion must look through typedef sugar")
	}
}

func TestPredicates(t *testing.T) {
	voidPtr := PointerTo(Builtin(Void))
	myenum := NamedEnum("Color")
	rec := NamedRecord("Widget", 128)

	tests := []struct {
		name     string
		got      bool
		expected bool
	}{
		{"void* is void pointer", voidPtr.IsVoidPointer(), true},
		{"const void* is void pointer", PointerTo(Qualified(Builtin(Void), QualConst)).IsVoidPointer(), true},
		{"int* is not void pointer", PointerTo(Builtin(Int)).IsVoidPointer(), false},
		{"int is integral", Builtin(Int).IsIntegral(), true},
		{"bool is integral", Builtin(Bool).IsIntegral(), true},
		{"enum is not integral", myenum.IsIntegral(), false},
		{"enum is enum", myenum.IsEnum(), true},
		{"double is floating", Builtin(Double).IsRealFloating(), true},
		{"record is record", rec.IsRecord(), true},
		{"void is not object type", Builtin(Void).IsObjectType(), false},
		{"reference is not object type", LValueRefTo(Builtin(Int)).IsObjectType(), false},
		{"pointer is object type", voidPtr.IsObjectType(), true},
		{"record is object type", rec.IsObjectType(), true},
		{"typedef of int is integral", NamedTypedef("myint", Builtin(Int)).IsIntegral(), true},
		{"typedef spelling is typedef", NamedTypedef("myint", Builtin(Int)).IsTypedef(), true},
		{"int spelling is builtin", Builtin(Int).IsBuiltin(), true},
		{"typedef spelling is not builtin", NamedTypedef("myint", Builtin(Int)).IsBuiltin(), false},
		{"nullptr is nullptr", Builtin(Nullptr).IsNullptr(), true},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected=%v, got=%v", tt.name, tt.expected, tt.got)
		}
	}
}

func TestAtLeastAsQualifiedAs(t *testing.T) {
	cv := Qualified(Builtin(Int), QualConst|QualVolatile)
	c := Qualified(Builtin(Int), QualConst)
	plain := Builtin(Int)

	if !AtLeastAsQualifiedAs(cv, c) {
		t.Error("const volatile covers const")
	}
	if AtLeastAsQualifiedAs(c, cv) {
		t.Error("const does not cover const volatile")
	}
	if !AtLeastAsQualifiedAs(c, plain) {
		t.Error("const covers unqualified")
	}
	if !AtLeastAsQualifiedAs(plain, plain) {
		t.Error("unqualified covers unqualified")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ      *Type
		expected string
	}{
		{Builtin(Int), "int"},
		{Qualified(Builtin(Char), QualConst), "const char"},
		{PointerTo(Qualified(Builtin(Char), QualConst)), "const char *"},
		{Qualified(PointerTo(Builtin(Int)), QualConst), "int * const"},
		{LValueRefTo(Builtin(Int)), "int &"},
		{RValueRefTo(Builtin(Int)), "int &&"},
		{NamedTypedef("oslModule", PointerTo(Builtin(Void))), "oslModule"},
		{Builtin(Nullptr), "std::nullptr_t"},
	}

	for i, tt := range tests {
		if got := tt.typ.String(); got != tt.expected {
			t.Errorf("tests[%d] - String wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}
