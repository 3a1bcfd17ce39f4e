// Package check defines the check interface and the registry the CLI
// populates. The engine drives a single pre-order walk per file and
// hands every node to every enabled check, so checks stay stateless
// classifiers apart from what they derive per visited node.
package check

import (
	"fmt"
	"sort"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/position"
)

// Rewriter receives source edits when the engine runs in fix mode
type Rewriter interface {
	Replace(offset, length int, text string) error
}

// Settings carries the per-check configuration the engine extracts
// from the loaded config file
type Settings struct {
	// passbyvalue: size in bytes above which a record parameter is
	// considered fat
	PassByValueThreshold int
	// passbyvalue: type names always considered fat
	FatTypes []string
}

// Context is the per-file state shared by all checks during one walk
type Context struct {
	Unit     *ast.TranslationUnit
	File     *position.SourceFile
	Parents  map[ast.Node]ast.Node
	Reporter diag.Reporter
	Rewriter Rewriter // nil unless fix mode
	Settings Settings
}

// Parent returns the parent of n, or nil for the root
func (c *Context) Parent(n ast.Node) ast.Node {
	return c.Parents[n]
}

// Check inspects one node at a time during the engine's walk
type Check interface {
	Name() string
	Visit(ctx *Context, n ast.Node)
}

// Registry holds the set of available checks
type Registry struct {
	byName map[string]Check
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Check)}
}

// Register adds a check; duplicate names are an error
func (r *Registry) Register(c Check) error {
	if _, ok := r.byName[c.Name()]; ok {
		return fmt.Errorf("check %q registered twice", c.Name())
	}
	r.byName[c.Name()] = c
	return nil
}

// Lookup returns the named check, or nil
func (r *Registry) Lookup(name string) Check {
	return r.byName[name]
}

// Names returns the registered check names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Enabled returns the checks to run given enable/disable lists. An
// empty enabled list means all checks.
func (r *Registry) Enabled(enabled, disabled []string) []Check {
	skip := make(map[string]bool, len(disabled))
	for _, n := range disabled {
		skip[n] = true
	}

	var names []string
	if len(enabled) > 0 {
		names = enabled
	} else {
		names = r.Names()
	}

	var out []Check
	for _, n := range names {
		if skip[n] {
			continue
		}
		if c := r.byName[n]; c != nil {
			out = append(out, c)
		}
	}
	return out
}
