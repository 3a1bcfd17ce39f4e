package sema

import (
	"strings"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/ctypes"
)

var invalidType = ctypes.Builtin(ctypes.Invalid)

// annotate computes the type and value category of e, resolving names
// and recursing into operands. It returns e unchanged except for
// annotation; implicit conversions are inserted only at conversion
// sites via materialize.
func (s *Sema) annotate(e ast.Expr) ast.Expr {
	switch x := e.(type) {
	case *ast.DeclRefExpr:
		s.annotateDeclRef(x)
	case *ast.IntLit:
		x.Ty = intLitType(x.Text)
		x.Cat = ast.PRValue
	case *ast.FloatLit:
		x.Ty = floatLitType(x.Text)
		x.Cat = ast.PRValue
	case *ast.BoolLit:
		x.Ty = ctypes.Builtin(ctypes.Bool)
		x.Cat = ast.PRValue
	case *ast.CharLit:
		x.Ty = ctypes.Builtin(ctypes.Char)
		x.Cat = ast.PRValue
	case *ast.StringLit:
		x.Ty = ctypes.PointerTo(ctypes.Qualified(ctypes.Builtin(ctypes.Char), ctypes.QualConst))
		x.Cat = ast.PRValue
	case *ast.NullptrLit:
		x.Ty = ctypes.Builtin(ctypes.Nullptr)
		x.Cat = ast.PRValue
	case *ast.ParenExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty = x.Sub.Type()
		x.Cat = x.Sub.Category()
	case *ast.UnaryExpr:
		s.annotateUnary(x)
	case *ast.BinaryExpr:
		s.annotateBinary(x)
	case *ast.CondExpr:
		s.annotateCond(x)
	case *ast.CallExpr:
		return s.annotateCall(x)
	case *ast.MemberExpr:
		s.annotateMember(x)
	case *ast.IndexExpr:
		x.Base = s.annotate(x.Base)
		x.Index = s.annotate(x.Index)
		if p := x.Base.Type().Pointee(); p != nil {
			x.Ty = p
		} else {
			x.Ty = invalidType
		}
		x.Cat = ast.LValue
	case *ast.SizeofExpr:
		if x.Operand != nil {
			x.Operand = s.annotate(x.Operand)
		}
		x.Ty = ctypes.Builtin(ctypes.ULong)
		x.Cat = ast.PRValue
	case *ast.StaticCastExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.ConstCastExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.ReinterpretCastExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.DynamicCastExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.FunctionalCastExpr:
		if x.Sub != nil {
			x.Sub = s.annotate(x.Sub)
		}
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.CStyleCastExpr:
		x.Sub = s.annotate(x.Sub)
		x.Ty, x.Cat = castResult(x.Written)
	case *ast.NewExpr:
		for i, a := range x.Args {
			x.Args[i] = s.annotate(a)
		}
		x.Ty = ctypes.PointerTo(x.Written)
		x.Cat = ast.PRValue
	case *ast.DeleteExpr:
		x.Operand = s.annotate(x.Operand)
		x.Ty = ctypes.Builtin(ctypes.Void)
		x.Cat = ast.PRValue
	}
	return e
}

// castResult gives the type and value category an explicit cast
// produces: references yield glvalues of the referee, everything else
// a prvalue of the written type
func castResult(written *ctypes.Type) (*ctypes.Type, ast.ValueCategory) {
	if written == nil {
		return invalidType, ast.PRValue
	}
	d := ctypes.Desugar(written)
	switch d.Kind {
	case ctypes.LValueRef:
		return d.Elem, ast.LValue
	case ctypes.RValueRef:
		return d.Elem, ast.XValue
	default:
		return written, ast.PRValue
	}
}

func (s *Sema) annotateDeclRef(x *ast.DeclRefExpr) {
	x.Cat = ast.LValue
	switch d := s.lookup(x.Name).(type) {
	case *ast.VarDecl:
		x.Decl = d
		x.Ty = d.Ty
	case *ast.ParamDecl:
		x.Decl = d
		x.Ty = d.Ty
	case *ast.FuncDecl:
		x.Decl = d
		x.Ty = invalidType
	default:
		x.Ty = invalidType
	}
	// Reference-typed names behave as lvalues of the referee
	if x.Ty.IsReference() {
		x.Ty = x.Ty.Referee()
	}
}

func (s *Sema) annotateUnary(x *ast.UnaryExpr) {
	x.Operand = s.annotate(x.Operand)
	op := x.Operand.Type()

	switch x.Op {
	case ast.OpDeref:
		if p := op.Pointee(); p != nil {
			x.Ty = p
		} else {
			x.Ty = invalidType
		}
		x.Cat = ast.LValue
	case ast.OpAddrOf:
		x.Ty = ctypes.PointerTo(op)
		x.Cat = ast.PRValue
	case ast.OpPreInc, ast.OpPreDec:
		x.Ty = op
		x.Cat = ast.LValue
	case ast.OpPostInc, ast.OpPostDec:
		x.Ty = op
		x.Cat = ast.PRValue
	case ast.OpNot:
		x.Ty = ctypes.Builtin(ctypes.Bool)
		x.Cat = ast.PRValue
	case ast.OpPlus, ast.OpNeg, ast.OpCompl:
		x.Ty = promoted(op)
		x.Cat = ast.PRValue
	default:
		x.Ty = invalidType
		x.Cat = ast.PRValue
	}
}

func (s *Sema) annotateBinary(x *ast.BinaryExpr) {
	x.LHS = s.annotate(x.LHS)
	x.RHS = s.annotate(x.RHS)

	switch {
	case x.Op.IsAssignment():
		x.RHS = s.materialize(x.RHS, x.LHS.Type())
		x.Ty = x.LHS.Type()
		x.Cat = ast.LValue
	case x.Op == ast.OpComma:
		x.Ty = x.RHS.Type()
		x.Cat = x.RHS.Category()
	case x.Op.IsComparison(), x.Op == ast.OpLAnd, x.Op == ast.OpLOr:
		x.Ty = ctypes.Builtin(ctypes.Bool)
		x.Cat = ast.PRValue
	default:
		x.Ty = s.arithResult(x.Op, x.LHS.Type(), x.RHS.Type())
		x.Cat = ast.PRValue
	}
}

func (s *Sema) annotateCond(x *ast.CondExpr) {
	x.Cond = s.annotate(x.Cond)
	x.Then = s.annotate(x.Then)
	x.Else = s.annotate(x.Else)

	tt, et := x.Then.Type(), x.Else.Type()
	switch {
	case ctypes.SameUnqualified(ctypes.Canonical(tt), ctypes.Canonical(et)):
		x.Ty = tt
		if x.Then.Category() == x.Else.Category() {
			x.Cat = x.Then.Category()
		} else {
			x.Cat = ast.PRValue
		}
	case tt.IsArithmetic() && et.IsArithmetic():
		x.Ty = s.arithResult(ast.OpAdd, tt, et)
		x.Cat = ast.PRValue
	default:
		x.Ty = tt
		x.Cat = ast.PRValue
	}
}

func (s *Sema) annotateCall(x *ast.CallExpr) ast.Expr {
	x.Fn = s.annotate(x.Fn)
	for i, a := range x.Args {
		x.Args[i] = s.annotate(a)
	}

	if ref, ok := ast.IgnoreParens(x.Fn).(*ast.DeclRefExpr); ok {
		// std::move yields an xvalue of its argument's type
		if (ref.Name == "std::move" || ref.Name == "move") && len(x.Args) == 1 {
			x.Ty = x.Args[0].Type()
			x.Cat = ast.XValue
			return x
		}
		if fn, ok := s.funcs[ref.Name]; ok {
			x.Callee = fn
		}
	}

	if x.Callee == nil {
		x.Ty = invalidType
		x.Cat = ast.PRValue
		return x
	}

	for i, a := range x.Args {
		if i < len(x.Callee.Params) {
			x.Args[i] = s.materialize(a, x.Callee.Params[i].Ty)
		} else if x.Callee.Variadic {
			x.Args[i] = s.defaultPromote(a)
		}
	}

	x.Ty, x.Cat = castResult(x.Callee.Return)
	if !x.Callee.Return.IsReference() {
		x.Cat = ast.PRValue
	}
	return x
}

func (s *Sema) annotateMember(x *ast.MemberExpr) {
	x.Base = s.annotate(x.Base)
	x.Cat = ast.LValue

	bt := x.Base.Type()
	if x.Arrow {
		if p := bt.Pointee(); p != nil {
			bt = p
		} else {
			x.Ty = invalidType
			return
		}
	}
	d := ctypes.Desugar(ctypes.Canonical(bt))
	if d.Kind != ctypes.Record {
		x.Ty = invalidType
		return
	}
	if ft := s.fieldType(d.Name, x.Member); ft != nil {
		// Member access through a const object yields a const member
		x.Ty = ctypes.Qualified(ft, d.Quals)
	} else {
		x.Ty = invalidType
	}
}

// ===== implicit conversions =====

// materialize wraps e in the implicit cast nodes needed to convert it
// to the target type, mirroring what a compiler inserts at an
// initialization, assignment, argument or return site.
func (s *Sema) materialize(e ast.Expr, target *ctypes.Type) ast.Expr {
	if target == nil || target.IsInvalid() || e.Type() == nil || e.Type().IsInvalid() {
		return e
	}

	if target.IsReference() {
		return s.bindReference(e, target)
	}

	src := e.Type()

	// Glvalues of non-class type convert to prvalues first
	if e.Category().IsGLValue() && !src.IsRecord() {
		e = wrapCast(e, ast.CastLValueToRValue, ctypes.Unqualified(src))
		src = e.Type()
	}

	cs := ctypes.Canonical(src)
	ct := ctypes.Canonical(target)
	if ctypes.SameUnqualified(cs, ct) {
		return e
	}

	switch {
	case cs.Kind == ctypes.Pointer && ct.Kind == ctypes.Pointer:
		return s.convertPointer(e, src, target)
	case src.IsNullptr() && ct.Kind == ctypes.Pointer:
		return wrapCast(e, ast.CastOther, target)
	case src.IsArithmetic() && target.IsArithmetic():
		return wrapCast(e, ast.CastArithmetic, target)
	case src.IsEnum() && target.IsIntegral():
		return wrapCast(e, ast.CastArithmetic, target)
	default:
		return wrapCast(e, ast.CastOther, target)
	}
}

// convertPointer inserts the pointer conversion from src to target:
// a bit cast to void pointer, a derived-to-base adjustment or a pure
// qualification conversion.
func (s *Sema) convertPointer(e ast.Expr, src, target *ctypes.Type) ast.Expr {
	sp := ctypes.Canonical(src).Elem
	tp := ctypes.Canonical(target).Elem

	// Object pointer to void pointer loses the pointee type
	if tp.Kind == ctypes.Void && sp.Kind != ctypes.Void {
		return wrapCast(e, ast.CastBitCast, target)
	}

	if sp.Kind == ctypes.Record && tp.Kind == ctypes.Record && s.isDerivedFrom(sp.Name, tp.Name) {
		return wrapCast(e, ast.CastDerivedToBase, target)
	}

	if ctypes.QualificationConversion(src, target) {
		return wrapCast(e, ast.CastNoOp, target)
	}
	return wrapCast(e, ast.CastOther, target)
}

// bindReference handles initialization of a reference target; only the
// derived-to-base adjustment materializes a node
func (s *Sema) bindReference(e ast.Expr, target *ctypes.Type) ast.Expr {
	referee := target.Referee()
	if referee == nil {
		return e
	}
	src := ctypes.Canonical(e.Type())
	ref := ctypes.Canonical(referee)
	if src.Kind == ctypes.Record && ref.Kind == ctypes.Record && s.isDerivedFrom(src.Name, ref.Name) {
		ic := &ast.ImplicitCastExpr{CK: ast.CastDerivedToBase, Sub: e}
		ic.Span = e.GetSpan()
		ic.Ty = referee
		if ctypes.Desugar(target).Kind == ctypes.RValueRef {
			ic.Cat = ast.XValue
		} else {
			ic.Cat = ast.LValue
		}
		return ic
	}
	return e
}

// defaultPromote applies the default argument promotions to a variadic
// argument
func (s *Sema) defaultPromote(e ast.Expr) ast.Expr {
	src := e.Type()
	if src == nil || src.IsInvalid() {
		return e
	}
	if e.Category().IsGLValue() && !src.IsRecord() {
		e = wrapCast(e, ast.CastLValueToRValue, ctypes.Unqualified(src))
		src = e.Type()
	}
	d := ctypes.Desugar(ctypes.Canonical(src))
	switch d.Kind {
	case ctypes.Bool, ctypes.Char, ctypes.SChar, ctypes.UChar, ctypes.Short, ctypes.UShort:
		return wrapCast(e, ast.CastArithmetic, ctypes.Builtin(ctypes.Int))
	case ctypes.Float:
		return wrapCast(e, ast.CastArithmetic, ctypes.Builtin(ctypes.Double))
	}
	return e
}

func wrapCast(e ast.Expr, ck ast.CastKind, ty *ctypes.Type) ast.Expr {
	ic := &ast.ImplicitCastExpr{CK: ck, Sub: e}
	ic.Span = e.GetSpan()
	ic.Ty = ty
	ic.Cat = ast.PRValue
	return ic
}

// ===== arithmetic =====

// rank orders the integral types for the usual arithmetic conversions
func rank(k ctypes.Kind) int {
	switch k {
	case ctypes.Bool:
		return 1
	case ctypes.Char, ctypes.SChar, ctypes.UChar:
		return 2
	case ctypes.Short, ctypes.UShort:
		return 3
	case ctypes.Int, ctypes.UInt:
		return 4
	case ctypes.Long, ctypes.ULong:
		return 5
	case ctypes.LongLong, ctypes.ULongLong:
		return 6
	}
	return 0
}

func isUnsignedKind(k ctypes.Kind) bool {
	switch k {
	case ctypes.UChar, ctypes.UShort, ctypes.UInt, ctypes.ULong, ctypes.ULongLong:
		return true
	}
	return false
}

// promoted applies the integral promotions
func promoted(t *ctypes.Type) *ctypes.Type {
	d := ctypes.Desugar(ctypes.Canonical(t))
	if rank(d.Kind) > 0 && rank(d.Kind) < rank(ctypes.Int) {
		return ctypes.Builtin(ctypes.Int)
	}
	return t
}

// arithResult computes the result type of an arithmetic or bitwise
// binary operator, including pointer arithmetic
func (s *Sema) arithResult(op ast.BinaryOp, lt, rt *ctypes.Type) *ctypes.Type {
	if lt == nil || rt == nil || lt.IsInvalid() || rt.IsInvalid() {
		return invalidType
	}

	// Pointer arithmetic
	if op == ast.OpAdd || op == ast.OpSub {
		lp, rp := lt.IsPointer(), rt.IsPointer()
		switch {
		case lp && rp && op == ast.OpSub:
			return ctypes.Builtin(ctypes.Long)
		case lp:
			return lt
		case rp && op == ast.OpAdd:
			return rt
		}
	}

	// Shifts take the promoted left operand's type
	if op == ast.OpShl || op == ast.OpShr {
		return promoted(lt)
	}

	ld := ctypes.Desugar(ctypes.Canonical(lt))
	rd := ctypes.Desugar(ctypes.Canonical(rt))

	// Floating point wins by width
	floatRank := func(k ctypes.Kind) int {
		switch k {
		case ctypes.Float:
			return 1
		case ctypes.Double:
			return 2
		case ctypes.LongDouble:
			return 3
		}
		return 0
	}
	if fr := floatRank(ld.Kind); fr > 0 || floatRank(rd.Kind) > 0 {
		if fr >= floatRank(rd.Kind) && fr > 0 {
			return ctypes.Unqualified(ld)
		}
		return ctypes.Unqualified(rd)
	}

	lr, rr := rank(ld.Kind), rank(rd.Kind)
	if lr == 0 || rr == 0 {
		return promoted(lt)
	}
	hi := ld.Kind
	if rr > lr || (rr == lr && isUnsignedKind(rd.Kind)) {
		hi = rd.Kind
	}
	if rank(hi) < rank(ctypes.Int) {
		hi = ctypes.Int
	}
	return ctypes.Builtin(hi)
}

// ===== literal typing =====

// intLitType derives the type of an integer literal from its suffix
func intLitType(text string) *ctypes.Type {
	// Hex digits may contain letters; only the trailing suffix counts
	lower := strings.ToLower(text)
	trimmed := strings.TrimRight(lower, "ul")
	suffix := lower[len(trimmed):]
	unsigned := strings.Contains(suffix, "u")
	longs := strings.Count(suffix, "l")

	switch {
	case unsigned && longs >= 2:
		return ctypes.Builtin(ctypes.ULongLong)
	case longs >= 2:
		return ctypes.Builtin(ctypes.LongLong)
	case unsigned && longs == 1:
		return ctypes.Builtin(ctypes.ULong)
	case longs == 1:
		return ctypes.Builtin(ctypes.Long)
	case unsigned:
		return ctypes.Builtin(ctypes.UInt)
	default:
		return ctypes.Builtin(ctypes.Int)
	}
}

// floatLitType derives the type of a floating literal from its suffix
func floatLitType(text string) *ctypes.Type {
	switch {
	case strings.HasSuffix(text, "f"), strings.HasSuffix(text, "F"):
		return ctypes.Builtin(ctypes.Float)
	case strings.HasSuffix(text, "l"), strings.HasSuffix(text, "L"):
		return ctypes.Builtin(ctypes.LongDouble)
	default:
		return ctypes.Builtin(ctypes.Double)
	}
}
