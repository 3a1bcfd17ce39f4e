// Package passbyvalue finds large record parameters passed by value.
// Copying them twice, once into the parameter and again into whatever
// destination the function has, is wasted work; a const lvalue
// reference does the same job.
package passbyvalue

import (
	"fmt"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/ctypes"
	"github.com/cxxlint/cxxlint/internal/diag"
)

// Name is the check's registry name
const Name = "passbyvalue"

// DefaultThreshold is the object size in bytes above which a record
// parameter counts as fat
const DefaultThreshold = 64

// Check implements check.Check
type Check struct{}

// New creates the check
func New() *Check { return &Check{} }

func (c *Check) Name() string { return Name }

// Visit inspects function definitions. Bare declarations are skipped;
// the warning points at the definition's parameter, with a note at the
// first declaration when that is somewhere else.
func (c *Check) Visit(ctx *check.Context, n ast.Node) {
	fn, ok := n.(*ast.FuncDecl)
	if !ok || !fn.IsDefinition() {
		return
	}

	threshold := ctx.Settings.PassByValueThreshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	excluded := assignedParams(fn)

	for _, p := range fn.Params {
		if !isFat(p.Ty, threshold, ctx.Settings.FatTypes) {
			continue
		}
		if excluded[p] {
			continue
		}
		b := diag.New(Name).
			Warning().
			Message(fmt.Sprintf("passing %s by value, rather pass by const lvalue reference", p.Ty)).
			Span(p.GetSpan())
		if fn.Prev != nil && fn.Prev.GetSpan().Start != fn.GetSpan().Start {
			b.Note("function is declared here:", fn.Prev.NameSpan)
		}
		ctx.Reporter.Report(b.Build())
	}
}

// assignedParams collects parameters the body assigns to; rewriting
// those to references would be inconvenient for the caller of the fix
func assignedParams(fn *ast.FuncDecl) map[*ast.ParamDecl]bool {
	out := make(map[*ast.ParamDecl]bool)
	ast.Walk(fn.Body, func(n ast.Node) bool {
		bin, ok := n.(*ast.BinaryExpr)
		if !ok || !bin.Op.IsAssignment() {
			return true
		}
		if ref, ok := ast.IgnoreParens(bin.LHS).(*ast.DeclRefExpr); ok {
			if p, ok := ref.Decl.(*ast.ParamDecl); ok {
				out[p] = true
			}
		}
		return true
	})
	return out
}

// isFat reports whether a by-value parameter of this type is worth
// flagging: records over the size threshold, or names configured as
// always fat (reference-counted handle types and the like)
func isFat(t *ctypes.Type, threshold int, fatTypes []string) bool {
	d := ctypes.Desugar(ctypes.Canonical(t))
	if d.Kind != ctypes.Record {
		return false
	}
	for _, name := range fatTypes {
		if d.Name == name {
			return true
		}
	}
	if d.Size == 0 {
		// Incomplete type
		return false
	}
	return d.Size > threshold
}
