package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/cache"
	"github.com/cxxlint/cxxlint/internal/check"
	"github.com/cxxlint/cxxlint/internal/check/commaoperator"
	"github.com/cxxlint/cxxlint/internal/check/passbyvalue"
	"github.com/cxxlint/cxxlint/internal/check/redundantcast"
	"github.com/cxxlint/cxxlint/internal/config"
	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/engine"
	"github.com/cxxlint/cxxlint/internal/position"
)

var (
	fixFlag bool
	noCache bool
	jsonOut bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Lint the given files or directories",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&fixFlag, "fix", false, "apply suggested rewrites in place")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "lint every file even when cached")
	checkCmd.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as JSON")
}

// newRegistry returns the full set of built-in checks.
func newRegistry() (*check.Registry, error) {
	reg := check.NewRegistry()
	for _, c := range []check.Check{
		redundantcast.New(),
		commaoperator.New(),
		passbyvalue.New(),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// setup loads config, verifies the version gate and builds the engine.
func setup(fix bool) (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return nil, nil, err
	}

	reg, err := newRegistry()
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.Cache.Enabled && !noCache {
		store, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			logger.Warn("cache unavailable, running uncached", zap.Error(err))
			store = nil
		}
	}

	eng := engine.New(engine.Options{
		Registry: reg,
		Config:   cfg,
		Cache:    store,
		Fix:      fix || cfg.Fix,
		Logger:   logger,
	})

	return eng, cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	eng, _, err := setup(fixFlag)
	if err != nil {
		return err
	}

	res, err := eng.Run(args)
	if err != nil {
		return err
	}

	if err := emit(res.Diagnostics); err != nil {
		return err
	}

	logger.Debug("run complete",
		zap.Int("files", res.Files),
		zap.Int("cache_hits", res.CacheHits),
		zap.Int("diagnostics", len(res.Diagnostics)))

	if len(res.Diagnostics) > 0 {
		exitCode = 1
	}

	return nil
}

// emit writes diagnostics to stdout, as JSON or rendered with source
// snippets.
func emit(diags []diag.Diagnostic) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if diags == nil {
			diags = []diag.Diagnostic{}
		}
		return enc.Encode(diags)
	}

	r := diag.NewRenderer(os.Stdout)
	seen := make(map[string]bool)
	for _, d := range diags {
		name := d.Span.Start.Filename
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		content, err := os.ReadFile(name)
		if err != nil {
			// Snippets are best effort; the header line still prints.
			continue
		}
		r.AddFile(position.NewSourceFile(name, string(content)))
	}
	r.RenderAll(diags)

	return nil
}
