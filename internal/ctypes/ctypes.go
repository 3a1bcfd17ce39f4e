// Package ctypes models the C++ types cxxlint reasons about: builtin
// arithmetic types, enums, records, typedef sugar, pointers and
// references, each level carrying const/volatile qualifiers.
//
// Canonicalization resolves typedef chains while accumulating their
// qualifiers; spelled (sugared) equality and canonical equality are
// distinct comparisons, both of which the cast checks depend on.
package ctypes

import "strings"

// Qual is a const/volatile qualifier bitset for one type level
type Qual uint8

const (
	QualConst Qual = 1 << iota
	QualVolatile
)

// Contains reports whether q includes every qualifier in other
func (q Qual) Contains(other Qual) bool {
	return other&^q == 0
}

func (q Qual) String() string {
	var parts []string
	if q&QualConst != 0 {
		parts = append(parts, "const")
	}
	if q&QualVolatile != 0 {
		parts = append(parts, "volatile")
	}
	return strings.Join(parts, " ")
}

// Kind identifies the shape of a type node
type Kind int

const (
	Invalid Kind = iota
	Void
	Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	Nullptr
	Enum
	Record
	Typedef
	Pointer
	LValueRef
	RValueRef
)

var kindNames = map[Kind]string{
	Invalid:    "<invalid>",
	Void:       "void",
	Bool:       "bool",
	Char:       "char",
	SChar:      "signed char",
	UChar:      "unsigned char",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
	Nullptr:    "std::nullptr_t",
}

// Type is one level of a C++ type. Types are treated as immutable once
// built; every transformation returns a fresh node.
type Type struct {
	Kind  Kind
	Quals Qual
	Name  string // Enum, Record and Typedef name
	Elem  *Type  // Pointer/reference pointee, typedef underlying type
	Size  int    // Record: estimated object size in bytes
}

// Builtin returns an unqualified builtin type node
func Builtin(k Kind) *Type {
	return &Type{Kind: k}
}

// Qualified returns a copy of t with quals added at the top level
func Qualified(t *Type, quals Qual) *Type {
	if quals == 0 {
		return t
	}
	c := *t
	c.Quals |= quals
	return &c
}

// Unqualified returns a copy of t with top-level qualifiers stripped
func Unqualified(t *Type) *Type {
	if t.Quals == 0 {
		return t
	}
	c := *t
	c.Quals = 0
	return &c
}

// PointerTo returns an unqualified pointer to t
func PointerTo(t *Type) *Type {
	return &Type{Kind: Pointer, Elem: t}
}

// LValueRefTo returns an lvalue reference to t
func LValueRefTo(t *Type) *Type {
	return &Type{Kind: LValueRef, Elem: t}
}

// RValueRefTo returns an rvalue reference to t
func RValueRefTo(t *Type) *Type {
	return &Type{Kind: RValueRef, Elem: t}
}

// NamedTypedef returns a typedef node spelling name over underlying
func NamedTypedef(name string, underlying *Type) *Type {
	return &Type{Kind: Typedef, Name: name, Elem: underlying}
}

// NamedRecord returns a record type with an estimated size in bytes
func NamedRecord(name string, size int) *Type {
	return &Type{Kind: Record, Name: name, Size: size}
}

// NamedEnum returns an enum type
func NamedEnum(name string) *Type {
	return &Type{Kind: Enum, Name: name}
}

// Canonical resolves typedef chains at every level, accumulating the
// qualifiers each typedef carried. The result contains no Typedef nodes.
func Canonical(t *Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case Typedef:
		u := Canonical(t.Elem)
		return Qualified(u, t.Quals)
	case Pointer:
		return &Type{Kind: Pointer, Quals: t.Quals, Elem: Canonical(t.Elem)}
	case LValueRef:
		return &Type{Kind: LValueRef, Elem: Canonical(t.Elem)}
	case RValueRef:
		return &Type{Kind: RValueRef, Elem: Canonical(t.Elem)}
	default:
		return t
	}
}

// Same reports spelled equality: qualifiers, typedef names and shapes
// must all match. Use Same(Canonical(a), Canonical(b)) for the
// "same after canonicalization" comparison.
func Same(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Quals != b.Quals || a.Name != b.Name {
		return false
	}
	if a.Elem == nil && b.Elem == nil {
		return true
	}
	if a.Elem == nil || b.Elem == nil {
		return false
	}
	return Same(a.Elem, b.Elem)
}

// SameUnqualified compares a and b ignoring top-level qualifiers only.
// This is the analog of comparing canonical type identity without local
// qualification.
func SameUnqualified(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Same(Unqualified(a), Unqualified(b))
}

// AtLeastAsQualifiedAs reports whether a carries every top-level
// qualifier that b does.
func AtLeastAsQualifiedAs(a, b *Type) bool {
	return a.Quals.Contains(b.Quals)
}

// QualificationConversion reports whether from converts to to by a
// qualification conversion: identical pointer chains where the target
// adds qualifiers, with const present at every level above the first
// level whose qualifiers differ. Both inputs are canonicalized first.
// Non-pointer types never qualify.
func QualificationConversion(from, to *Type) bool {
	f := Canonical(from)
	t := Canonical(to)
	if f.Kind != Pointer || t.Kind != Pointer {
		return false
	}
	allConstAbove := true
	for f.Kind == Pointer && t.Kind == Pointer {
		f = f.Elem
		t = t.Elem
		if !t.Quals.Contains(f.Quals) {
			return false
		}
		if f.Quals != t.Quals && !allConstAbove {
			return false
		}
		if t.Quals&QualConst == 0 {
			allConstAbove = false
		}
	}
	if f.Kind == Pointer || t.Kind == Pointer {
		return false
	}
	return Same(Unqualified(f), Unqualified(t))
}

// Desugar resolves typedef sugar at the top level only, accumulating
// typedef qualifiers, without touching nested levels.
func Desugar(t *Type) *Type {
	for t.Kind == Typedef {
		t = Qualified(t.Elem, t.Quals)
	}
	return t
}

// IsPointer reports whether t (after desugaring) is a pointer
func (t *Type) IsPointer() bool {
	return Desugar(t).Kind == Pointer
}

// Pointee returns the pointee of a (possibly sugared) pointer, or nil
func (t *Type) Pointee() *Type {
	d := Desugar(t)
	if d.Kind != Pointer {
		return nil
	}
	return d.Elem
}

// IsVoidPointer reports whether t is a pointer to (cv) void
func (t *Type) IsVoidPointer() bool {
	p := t.Pointee()
	return p != nil && Desugar(p).Kind == Void
}

// IsReference reports whether t is an lvalue or rvalue reference
func (t *Type) IsReference() bool {
	k := Desugar(t).Kind
	return k == LValueRef || k == RValueRef
}

// Referee returns the referenced type of a reference, or nil
func (t *Type) Referee() *Type {
	d := Desugar(t)
	if d.Kind != LValueRef && d.Kind != RValueRef {
		return nil
	}
	return d.Elem
}

// IsIntegral reports whether t is a C++ integral type (bool, character
// or integer types; enums are not integral in C++)
func (t *Type) IsIntegral() bool {
	switch Desugar(t).Kind {
	case Bool, Char, SChar, UChar, Short, UShort, Int, UInt,
		Long, ULong, LongLong, ULongLong:
		return true
	}
	return false
}

// IsRealFloating reports whether t is float, double or long double
func (t *Type) IsRealFloating() bool {
	switch Desugar(t).Kind {
	case Float, Double, LongDouble:
		return true
	}
	return false
}

// IsArithmetic reports whether t is an integral or floating type
func (t *Type) IsArithmetic() bool {
	return t.IsIntegral() || t.IsRealFloating()
}

// IsEnum reports whether t is an enumeration type
func (t *Type) IsEnum() bool {
	return Desugar(t).Kind == Enum
}

// IsRecord reports whether t is a class or struct type
func (t *Type) IsRecord() bool {
	return Desugar(t).Kind == Record
}

// IsBoolean reports whether t is bool
func (t *Type) IsBoolean() bool {
	return Desugar(t).Kind == Bool
}

// IsNullptr reports whether t is std::nullptr_t
func (t *Type) IsNullptr() bool {
	return Desugar(t).Kind == Nullptr
}

// IsVoid reports whether t is void
func (t *Type) IsVoid() bool {
	return Desugar(t).Kind == Void
}

// IsObjectType reports whether t is an object type: anything that is
// not void, not a reference and not a function type (functions are not
// modeled; references are)
func (t *Type) IsObjectType() bool {
	d := Desugar(t)
	switch d.Kind {
	case Void, LValueRef, RValueRef, Invalid:
		return false
	}
	return true
}

// IsBuiltin reports whether t is spelled directly as a builtin type,
// with no typedef sugar
func (t *Type) IsBuiltin() bool {
	switch t.Kind {
	case Void, Bool, Char, SChar, UChar, Short, UShort, Int, UInt,
		Long, ULong, LongLong, ULongLong, Float, Double, LongDouble, Nullptr:
		return true
	}
	return false
}

// IsTypedef reports whether t is spelled through a typedef name
func (t *Type) IsTypedef() bool {
	return t.Kind == Typedef
}

// IsInvalid reports whether t is the error type or contains one
func (t *Type) IsInvalid() bool {
	if t == nil {
		return true
	}
	if t.Kind == Invalid {
		return true
	}
	if t.Elem != nil {
		return t.Elem.IsInvalid()
	}
	return false
}

// String renders the type the way it was spelled, qualifiers first at
// each level, pointers and references suffixed.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Pointer:
		s := t.Elem.String() + " *"
		if q := t.Quals.String(); q != "" {
			s += " " + q
		}
		return s
	case LValueRef:
		return t.Elem.String() + " &"
	case RValueRef:
		return t.Elem.String() + " &&"
	case Typedef, Enum, Record:
		if q := t.Quals.String(); q != "" {
			return q + " " + t.Name
		}
		return t.Name
	default:
		name := kindNames[t.Kind]
		if q := t.Quals.String(); q != "" {
			return q + " " + name
		}
		return name
	}
}
