// Package commaoperator flags uses of the comma operator outside the
// places it is conventionally tolerated. The comma operator is best
// used sparingly.
package commaoperator

import (
	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/diag"
)

// Name is the check's registry name
const Name = "commaoperator"

// Check implements check.Check
type Check struct{}

// New creates the check
func New() *Check { return &Check{} }

func (c *Check) Name() string { return Name }

func (c *Check) Visit(ctx *check.Context, n ast.Node) {
	bin, ok := n.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpComma {
		return
	}

	switch parent := ctx.Parent(bin).(type) {
	case *ast.ParenExpr, *ast.BinaryExpr:
		return
	case *ast.ForStmt:
		// Condition or increment position
		return
	case *ast.ExprStmt:
		// Init position of a for loop
		if _, ok := ctx.Parent(parent).(*ast.ForStmt); ok {
			return
		}
	}

	ctx.Reporter.Report(diag.New(Name).
		Warning().
		Message("comma operator hides code").
		Span(bin.GetSpan()).
		Build())
}
