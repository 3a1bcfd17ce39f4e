// Package engine runs the lint pipeline: read, parse, analyze, then a
// single pre-order walk dispatching every node to every enabled check.
package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/ast"
	"github.com/cxxlint/cxxlint/internal/cache"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/config"
	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/parser"
	"github.com/cxxlint/cxxlint/internal/position"
	"github.com/cxxlint/cxxlint/internal/rewrite"
	"github.com/cxxlint/cxxlint/internal/sema"
)

var sourceExtensions = map[string]bool{
	".cpp": true,
	".cxx": true,
	".cc":  true,
	".h":   true,
	".hpp": true,
}

// IsSourceFile reports whether path has a recognized C++ extension.
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// Options configures an Engine.
type Options struct {
	Registry *check.Registry
	Config   *config.Config
	// Cache may be nil to run uncached.
	Cache *cache.Store
	// Fix applies suggested rewrites and writes files back.
	Fix    bool
	Logger *zap.Logger
}

// Engine lints files and aggregates their diagnostics.
type Engine struct {
	registry *check.Registry
	cfg      *config.Config
	store    *cache.Store
	fix      bool
	log      *zap.Logger
	checks   []check.Check
}

// New creates an engine. The enabled-check set is resolved once from
// the config.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		registry: opts.Registry,
		cfg:      opts.Config,
		store:    opts.Cache,
		fix:      opts.Fix,
		log:      log,
		checks:   opts.Registry.Enabled(opts.Config.Checks.Enabled, opts.Config.Checks.Disabled),
	}
}

// Result aggregates one Run.
type Result struct {
	Diagnostics []diag.Diagnostic
	Files       int
	CacheHits   int
}

// Run lints the given paths. Directories are walked recursively;
// explicit file arguments are linted regardless of extension.
func (e *Engine) Run(paths []string) (*Result, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, f := range files {
		diags, hit, err := e.lintFile(f)
		if err != nil {
			return nil, err
		}
		res.Files++
		if hit {
			res.CacheHits++
		}
		res.Diagnostics = append(res.Diagnostics, diags...)
	}
	diag.Sort(res.Diagnostics)

	return res, nil
}

func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("engine: stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSourceFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("engine: walk %s: %w", p, err)
		}
	}

	return files, nil
}

// lintFile lints one file, consulting the cache first. Fix mode always
// runs the checks since cached diagnostics carry no edits.
func (e *Engine) lintFile(path string) ([]diag.Diagnostic, bool, error) {
	start := time.Now()
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("engine: read %s: %w", path, err)
	}

	contentHash := cache.ContentHash(content)
	configHash := e.cfg.Hash()

	if e.store != nil && !e.fix {
		diags, err := e.store.Get(path, contentHash, configHash)
		if err == nil {
			e.log.Debug("cache hit",
				zap.String("file", path),
				zap.Int("diagnostics", len(diags)))
			return diags, true, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			e.log.Warn("cache lookup failed, linting uncached",
				zap.String("file", path),
				zap.Error(err))
		}
	}

	var rw *rewrite.Rewriter
	if e.fix {
		rw = rewrite.New(content)
	}

	diags := e.LintSource(path, content, rw)

	if rw != nil && rw.Count() > 0 {
		fixed := rw.Apply()
		if err := os.WriteFile(path, fixed, 0o644); err != nil {
			return nil, false, fmt.Errorf("engine: write fixes to %s: %w", path, err)
		}
		e.log.Info("applied fixes",
			zap.String("file", path),
			zap.Int("edits", rw.Count()))
		// The file on disk no longer matches what was linted; the
		// next uncached run picks up the rewritten content.
		e.log.Debug("linted file",
			zap.String("file", path),
			zap.Duration("duration", time.Since(start)),
			zap.Int("diagnostics", len(diags)))

		return diags, false, nil
	}

	if e.store != nil {
		if err := e.store.Put(path, contentHash, configHash, diags); err != nil {
			e.log.Warn("cache store failed",
				zap.String("file", path),
				zap.Error(err))
		}
	}

	e.log.Debug("linted file",
		zap.String("file", path),
		zap.Duration("duration", time.Since(start)),
		zap.Int("diagnostics", len(diags)))

	return diags, false, nil
}

// LintSource runs the pipeline over in-memory content. Parse errors
// become error-severity diagnostics and the checks still run over
// whatever was built. rw may be nil.
func (e *Engine) LintSource(path string, content []byte, rw *rewrite.Rewriter) []diag.Diagnostic {
	col := diag.NewCollector()

	p := parser.New(path, string(content))
	unit, errs := p.Parse()
	for _, err := range errs {
		var pe *parser.ParseError
		d := diag.New("parse").Error()
		if errors.As(err, &pe) {
			d.Message(pe.Message).Span(position.Span{Start: pe.Position, End: pe.Position})
		} else {
			d.Message(err.Error())
		}
		col.Report(d.Build())
	}

	sema.Analyze(unit)

	ctx := &check.Context{
		Unit:     unit,
		File:     position.NewSourceFile(path, string(content)),
		Parents:  ast.BuildParentMap(unit),
		Reporter: col,
		Settings: check.Settings{
			PassByValueThreshold: e.cfg.PassByValue.Threshold,
			FatTypes:             e.cfg.PassByValue.FatTypes,
		},
	}
	if rw != nil {
		ctx.Rewriter = rw
	}

	ast.Walk(unit, func(n ast.Node) bool {
		for _, c := range e.checks {
			c.Visit(ctx, n)
		}
		return true
	})

	return col.Diagnostics()
}
