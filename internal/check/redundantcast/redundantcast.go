// Package redundantcast flags casts that do not change the type, the
// value category or the qualification of their operand in any way the
// language would not already perform, plus const_casts whose effect is
// immediately undone by an implicit conversion.
//
// C-style casts are only flagged when the written type exactly matches
// the operand's spelled type; everything else about them is left to a
// dedicated old-style-cast policy.
package redundantcast

import (
	"fmt"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/ctypes"
	"github.com/cxxlint/cxxlint/internal/diag"
)

// Name is the check's registry name
const Name = "redundantcast"

// Check implements check.Check
type Check struct{}

// New creates the check
func New() *Check { return &Check{} }

func (c *Check) Name() string { return Name }

// Visit classifies one node; at most one diagnostic per node, except
// for const_cast chains peeled under an implicit conversion, which
// report once per peeled cast.
func (c *Check) Visit(ctx *check.Context, n ast.Node) {
	switch e := n.(type) {
	case *ast.ImplicitCastExpr:
		c.visitImplicitCast(ctx, e)
	case *ast.StaticCastExpr:
		c.visitStaticCast(ctx, e)
	case *ast.ReinterpretCastExpr:
		c.visitReinterpretCast(ctx, e)
	case *ast.ConstCastExpr:
		c.visitConstCast(ctx, e)
	case *ast.FunctionalCastExpr:
		c.visitFunctionalCast(ctx, e)
	case *ast.CStyleCastExpr:
		c.visitCStyleCast(ctx, e)
	case *ast.CallExpr:
		c.visitCall(ctx, e)
	case *ast.DeleteExpr:
		c.visitDelete(ctx, e)
	case *ast.BinaryExpr:
		c.visitBinOp(ctx, e)
	}
}

func (c *Check) warn(ctx *check.Context, n ast.Node, msg string) {
	ctx.Reporter.Report(diag.New(Name).Warning().Message(msg).Span(n.GetSpan()).Build())
}

// isRedundantConstCast reports whether the const_cast changes neither
// the canonical type (qualifiers included) nor the value category in a
// meaningful way: an xvalue result is only fine if the operand already
// was one.
func isRedundantConstCast(e *ast.ConstCastExpr) bool {
	sub := ast.SubExprAsWritten(e.Sub)
	if sub.Type().IsInvalid() || e.Type().IsInvalid() {
		return false
	}
	return ctypes.Same(ctypes.Canonical(e.Type()), ctypes.Canonical(sub.Type())) &&
		(e.Category() != ast.XValue || sub.Category() == ast.XValue)
}

// isArithmeticOp reports whether the expression is an operator
// application likely to have changed types through promotion
func isArithmeticOp(e ast.Expr) bool {
	e = ast.IgnoreParenImpCasts(e)
	if b, ok := e.(*ast.BinaryExpr); ok {
		switch b.Op {
		case ast.OpMul, ast.OpDiv, ast.OpRem, ast.OpAdd, ast.OpSub,
			ast.OpShl, ast.OpShr, ast.OpBitAnd, ast.OpBitXor, ast.OpBitOr:
			return true
		case ast.OpComma:
			return isArithmeticOp(b.RHS)
		default:
			return false
		}
	}
	switch e.(type) {
	case *ast.UnaryExpr, *ast.CondExpr:
		return true
	}
	return false
}

// canConstCastFromTo reports whether a const_cast could perform the
// same value-category transition as the inspected cast
func canConstCastFromTo(from, to ast.Expr) bool {
	k1 := from.Category()
	k2 := to.Category()
	return (k2 == ast.LValue && k1 == ast.LValue) ||
		(k2 == ast.XValue && (k1 != ast.PRValue || from.Type().IsRecord()))
}

// okToRemoveArithmeticCast reports whether removing a cast between
// arithmetic types is safe to suggest. Typedef spellings, operator
// applications and integer literals all make the written type part of
// the code's intent, so those stay.
func okToRemoveArithmeticCast(t1, t2 *ctypes.Type, sub ast.Expr) bool {
	if t1.IsIntegral() || t1.IsEnum() || t1.IsRealFloating() {
		if !ctypes.Same(t1, t2) && (t1.IsTypedef() || t2.IsTypedef()) {
			return false
		}
		if isArithmeticOp(sub) {
			return false
		}
		if _, ok := ast.IgnoreParenImpCasts(sub).(*ast.IntLit); ok {
			return false
		}
	}
	return true
}

// typedefName returns the typedef a type is spelled through, or ""
func typedefName(t *ctypes.Type) string {
	if t != nil && t.IsTypedef() {
		return t.Name
	}
	return ""
}

// ===== implicit casts =====

func (c *Check) visitImplicitCast(ctx *check.Context, e *ast.ImplicitCastExpr) {
	switch e.CK {
	case ast.CastNoOp:
		c.noOpOverConstCast(ctx, e)
	case ast.CastBitCast:
		c.bitCastToVoidPointer(ctx, e)
	case ast.CastDerivedToBase:
		c.derivedToBaseOverConstCast(ctx, e)
	}
}

// noOpOverConstCast flags a const_cast whose result a qualification
// adjustment immediately casts back
func (c *Check) noOpOverConstCast(ctx *check.Context, e *ast.ImplicitCastExpr) {
	if e.Type().IsInvalid() {
		return
	}
	cc, ok := ast.IgnoreParenImpCasts(e.Sub).(*ast.ConstCastExpr)
	if !ok || isRedundantConstCast(cc) {
		return
	}
	sub := ast.SubExprAsWritten(cc.Sub)
	if sub.Type().IsInvalid() {
		return
	}
	t1 := ctypes.Canonical(sub.Type())
	t3 := ctypes.Canonical(e.Type())
	ccTy := ctypes.Canonical(cc.Type())

	if ctypes.SameUnqualified(t1, t3) ||
		(ctypes.QualificationConversion(t1, t3) && !ctypes.SameUnqualified(ccTy, t3)) {
		c.warn(ctx, cc, fmt.Sprintf(
			"redundant const_cast from %s to %s, result is implicitly cast to %s",
			sub.Type(), cc.Written, e.Type()))
	}
}

// bitCastToVoidPointer flags const_casts, reinterpret_casts and
// static_casts-from-void* whose result ends up as a void pointer anyway
func (c *Check) bitCastToVoidPointer(ctx *check.Context, e *ast.ImplicitCastExpr) {
	if !e.Type().IsVoidPointer() || !e.Sub.Type().IsPointer() {
		return
	}
	inner := ast.IgnoreParenImpCasts(e.Sub)
	for {
		cc, ok := inner.(*ast.ConstCastExpr)
		if !ok {
			break
		}
		sub := ast.SubExprAsWritten(cc.Sub)
		if sp := sub.Type().Pointee(); sp != nil {
			if ctypes.AtLeastAsQualifiedAs(ctypes.Canonical(e.Type()).Elem, ctypes.Canonical(sp)) {
				c.warn(ctx, cc, fmt.Sprintf(
					"redundant const_cast from %s to %s, result is ultimately implicitly cast to %s",
					sub.Type(), cc.Written, e.Type()))
			}
		}
		inner = ast.IgnoreParenImpCasts(cc.Sub)
	}

	switch cast := inner.(type) {
	case *ast.ReinterpretCastExpr:
		c.warn(ctx, cast, "redundant reinterpret_cast, result is implicitly cast to void pointer")
	case *ast.StaticCastExpr:
		if ast.IgnoreParenImpCasts(cast.Sub).Type().IsVoidPointer() {
			c.warn(ctx, cast, "redundant static_cast from void pointer, result is implicitly cast to void pointer")
		}
	}
}

// derivedToBaseOverConstCast peels const_casts under a derived-to-base
// adjustment, flagging those whose added qualifiers the final type
// carries anyway. Handles both the pointer and the glvalue form.
func (c *Check) derivedToBaseOverConstCast(ctx *check.Context, e *ast.ImplicitCastExpr) {
	var finalPointee *ctypes.Type
	switch {
	case e.Type().IsPointer():
		finalPointee = ctypes.Canonical(e.Type()).Elem
	case e.Category().IsGLValue():
		finalPointee = ctypes.Canonical(e.Type())
	default:
		return
	}

	inner := ast.IgnoreParenImpCasts(e.Sub)
	for {
		cc, ok := inner.(*ast.ConstCastExpr)
		if !ok {
			return
		}
		sub := ast.SubExprAsWritten(cc.Sub)
		ccPointee := ctypes.Canonical(sub.Type())
		if e.Type().IsPointer() {
			p := sub.Type().Pointee()
			if p == nil {
				return
			}
			ccPointee = ctypes.Canonical(p)
		}
		if ctypes.AtLeastAsQualifiedAs(finalPointee, ccPointee) {
			c.warn(ctx, cc, fmt.Sprintf(
				"redundant const_cast from %s to %s, result is ultimately implicitly cast to %s",
				sub.Type(), cc.Written, e.Type()))
		}
		inner = ast.IgnoreParenImpCasts(cc.Sub)
	}
}

// ===== static_cast =====

func (c *Check) visitStaticCast(ctx *check.Context, e *ast.StaticCastExpr) {
	sub := ast.SubExprAsWritten(e.Sub)
	t1 := sub.Type()
	t2 := e.Written
	if t1.IsInvalid() || t2 == nil || t2.IsInvalid() {
		return
	}

	nonClassObject := t2.IsObjectType() && !t2.IsRecord()
	if nonClassObject && t2.Quals != 0 {
		c.warn(ctx, e, fmt.Sprintf(
			"in static_cast from %s %s to %s %s, remove redundant top-level %s",
			t1, sub.Category(), t2, e.Category(), qualifierWords(t2.Quals)))
		return
	}

	t3 := e.Type()
	c1 := ctypes.Canonical(t1)
	c3 := ctypes.Canonical(t3)

	var same bool
	if nonClassObject || !canConstCastFromTo(sub, e) {
		same = ctypes.SameUnqualified(c1, c3)
	} else {
		same = ctypes.Same(c1, c3)
	}
	if !same {
		if nonClassObject {
			return
		}
		if !ctypes.SameUnqualified(c1, c3) && !ctypes.QualificationConversion(c1, c3) {
			return
		}
		c.warn(ctx, e, fmt.Sprintf(
			"static_cast from %s %s to %s %s should be written as const_cast",
			t1, sub.Category(), t2, e.Category()))
		return
	}

	if !okToRemoveArithmeticCast(t1, t2, e.Sub) {
		return
	}
	if voidPointerTypedefException(t1, t2) {
		return
	}

	k1 := sub.Category()
	k3 := e.Category()
	if (k3 == ast.XValue && k1 != ast.XValue) || (k3 == ast.LValue && k1 == ast.XValue) {
		return
	}

	msg := fmt.Sprintf("static_cast from %s %s to %s %s is redundant", t1, k1, t2, k3)
	if k3 == ast.PRValue && (k1 != ast.PRValue || t1.IsRecord()) {
		msg += " or should be written as an explicit construction of a temporary"
	}
	c.warn(ctx, e, msg)
}

// voidPointerTypedefException suppresses the redundancy warning for
// void-pointer casts where a typedef spelling differs between the two
// sides. Aliases like oslModule or CURL hide a void pointer on
// purpose; casting between the alias and the raw spelling is
// documentation, not noise.
func voidPointerTypedefException(t1, t2 *ctypes.Type) bool {
	if !t1.IsVoidPointer() || ctypes.Canonical(t1).Quals != 0 {
		return false
	}
	td1, td2 := typedefName(t1), typedefName(t2)
	if td1 != "" || td2 != "" {
		return td1 == "" || td2 == "" || td1 != td2
	}
	p1, p2 := t1.Pointee(), t2.Pointee()
	if p1 == nil || p2 == nil {
		return false
	}
	ptd1, ptd2 := typedefName(p1), typedefName(p2)
	if ptd1 != "" || ptd2 != "" {
		return ptd1 == "" || ptd2 == "" || ptd1 != ptd2
	}
	return false
}

// qualifierWords names the redundant local qualifiers in a message
func qualifierWords(q ctypes.Qual) string {
	switch {
	case q.Contains(ctypes.QualConst | ctypes.QualVolatile):
		return "const volatile qualifiers"
	case q.Contains(ctypes.QualVolatile):
		return "volatile qualifier"
	default:
		return "const qualifier"
	}
}

// ===== reinterpret_cast =====

func (c *Check) visitReinterpretCast(ctx *check.Context, e *ast.ReinterpretCastExpr) {
	sub := ast.SubExprAsWritten(e.Sub)
	if sub.Type().IsInvalid() || e.Type().IsInvalid() {
		return
	}

	if sub.Type().IsVoidPointer() {
		pt := e.Type().Pointee()
		if pt == nil || !pt.IsObjectType() {
			return
		}
		if ctx.Rewriter != nil {
			tok := ctx.File.Snippet(e.KeywordSpan)
			if tok == "reinterpret_cast" {
				err := ctx.Rewriter.Replace(
					e.KeywordSpan.Start.Offset, e.KeywordSpan.Length(), "static_cast")
				if err == nil {
					return
				}
			}
		}
		c.warn(ctx, e, fmt.Sprintf(
			"reinterpret_cast from %s to %s can be simplified to static_cast",
			sub.Type(), e.Type()))
		return
	}

	if e.Type().IsVoidPointer() {
		pt := sub.Type().Pointee()
		if pt == nil || !pt.IsObjectType() {
			return
		}
		c.warn(ctx, e, fmt.Sprintf(
			"reinterpret_cast from %s to %s can be simplified to static_cast or an implicit conversion",
			sub.Type(), e.Type()))
	}
}

// ===== const_cast =====

func (c *Check) visitConstCast(ctx *check.Context, e *ast.ConstCastExpr) {
	sub := ast.SubExprAsWritten(e.Sub)
	if sub.Type().IsInvalid() || e.Type().IsInvalid() {
		return
	}

	if isRedundantConstCast(e) {
		c.warn(ctx, e, fmt.Sprintf(
			"redundant const_cast from %s %s to %s %s",
			sub.Type(), sub.Category(), e.Written, e.Category()))
		return
	}

	sc, ok := ast.IgnoreParenImpCasts(sub).(*ast.StaticCastExpr)
	if !ok {
		return
	}
	sub2 := ast.SubExprAsWritten(sc.Sub)
	if sub2.Type().IsInvalid() {
		return
	}

	// Walk the pointee chains of operand (t1), static_cast result (t2)
	// and const_cast result (t3) in lockstep; the combination is
	// redundant the moment the static_cast adds a qualifier the operand
	// lacked and the const_cast removes again.
	t1 := ctypes.Canonical(sub2.Type())
	isNullptr := t1.IsNullptr()
	t2 := ctypes.Canonical(sc.Type())
	t3 := ctypes.Canonical(e.Type())
	redundant := false
	for {
		addsConst := t2.Quals.Contains(ctypes.QualConst) &&
			(isNullptr || !t1.Quals.Contains(ctypes.QualConst)) &&
			!t3.Quals.Contains(ctypes.QualConst)
		addsVolatile := t2.Quals.Contains(ctypes.QualVolatile) &&
			(isNullptr || !t1.Quals.Contains(ctypes.QualVolatile)) &&
			!t3.Quals.Contains(ctypes.QualVolatile)
		if addsConst || addsVolatile {
			redundant = true
			break
		}
		if !isNullptr {
			if t1.Kind != ctypes.Pointer {
				break
			}
			t1 = t1.Elem
			isNullptr = t1.IsNullptr()
		}
		if t2.Kind != ctypes.Pointer {
			break
		}
		t2 = t2.Elem
		if t3.Kind != ctypes.Pointer {
			break
		}
		t3 = t3.Elem
	}
	if redundant {
		c.warn(ctx, e, fmt.Sprintf(
			"redundant static_cast/const_cast combination from %s via %s to %s",
			sub2.Type(), sc.Written, e.Written))
	}
}

// ===== functional and C-style casts =====

func (c *Check) visitFunctionalCast(ctx *check.Context, e *ast.FunctionalCastExpr) {
	if e.Sub == nil {
		return
	}
	sub := ast.SubExprAsWritten(e.Sub)
	if sub.Type().IsInvalid() || e.Type().IsInvalid() {
		return
	}
	// Only operands that already are prvalues of non-class type; a
	// functional cast of anything else is likely meant to create a
	// temporary
	if sub.Category() != ast.PRValue || e.Type().IsRecord() {
		return
	}

	t1 := e.Written
	t2 := ctypes.Canonical(sub.Type())
	if !ctypes.Same(t1, t2) {
		return
	}
	if (t1.IsTypedef() || sub.Type().IsTypedef()) && !ctypes.Same(t1, sub.Type()) {
		return
	}
	if !okToRemoveArithmeticCast(t1, t2, e.Sub) {
		return
	}
	c.warn(ctx, e, fmt.Sprintf(
		"redundant functional cast from %s to %s", sub.Type(), t1))
}

func (c *Check) visitCStyleCast(ctx *check.Context, e *ast.CStyleCastExpr) {
	sub := ast.SubExprAsWritten(e.Sub)
	t1 := sub.Type()
	t2 := e.Written
	if t1.IsInvalid() || t2 == nil || t2.IsInvalid() {
		return
	}
	if !ctypes.Same(t1, t2) {
		return
	}
	if !t1.IsBuiltin() && !t1.IsEnum() && !t1.IsTypedef() {
		return
	}
	if !okToRemoveArithmeticCast(t1, t2, e.Sub) {
		return
	}
	c.warn(ctx, e, fmt.Sprintf("redundant cstyle cast from %s to %s", t1, t2))
}

// ===== const_cast in specific contexts =====

// visitCall flags pointer-typed variadic arguments wrapped in a
// const_cast: the callee sees them through va_arg, qualifiers and all
func (c *Check) visitCall(ctx *check.Context, e *ast.CallExpr) {
	f := e.Callee
	if f == nil || !f.Variadic || len(e.Args) <= len(f.Params) {
		return
	}
	for i := len(f.Params); i < len(e.Args); i++ {
		a := e.Args[i]
		if !a.Type().IsPointer() {
			continue
		}
		if cc, ok := ast.IgnoreParenImpCasts(a).(*ast.ConstCastExpr); ok {
			c.warn(ctx, cc, "redundant const_cast of variadic function argument")
		}
	}
}

func (c *Check) visitDelete(ctx *check.Context, e *ast.DeleteExpr) {
	if cc, ok := ast.IgnoreParenImpCasts(e.Operand).(*ast.ConstCastExpr); ok {
		c.warn(ctx, cc, "redundant const_cast in delete expression")
	}
}

// visitBinOp flags const_casts on either side of a pointer comparison
// or subtraction; qualifiers never affect those operators
func (c *Check) visitBinOp(ctx *check.Context, e *ast.BinaryExpr) {
	if !e.Op.IsComparison() && e.Op != ast.OpSub {
		return
	}
	if !e.LHS.Type().IsPointer() || !e.RHS.Type().IsPointer() {
		return
	}
	kind := "comparison"
	if e.Op == ast.OpSub {
		kind = "subtraction"
	}
	if cc, ok := ast.IgnoreParenImpCasts(e.LHS).(*ast.ConstCastExpr); ok {
		c.warn(ctx, cc, fmt.Sprintf(
			"redundant const_cast on lhs of pointer %s expression", kind))
	}
	if cc, ok := ast.IgnoreParenImpCasts(e.RHS).(*ast.ConstCastExpr); ok {
		c.warn(ctx, cc, fmt.Sprintf(
			"redundant const_cast on rhs of pointer %s expression", kind))
	}
}
