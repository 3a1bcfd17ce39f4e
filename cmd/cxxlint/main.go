// Command cxxlint lints C++ sources for redundant casts and related
// problems.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the tool version checked against a config's requires
// constraint. Overridden at release time via -ldflags.
var Version = "0.1.0"

var (
	verbose bool
	quiet   bool
	cfgPath string

	logger *zap.Logger

	// Set by subcommands; picked up by main after Execute.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "cxxlint",
	Short: "A C++ linter focused on redundant casts",
	Long: `cxxlint parses C++ translation units and reports redundant or
suspicious casts: const_casts that change nothing, static_casts back to
the same type, reinterpret_casts that could be static_casts, and more.

It also flags comma operators that hide code and large record
parameters passed by value.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		switch {
		case verbose:
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		case quiet:
			cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		default:
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default .cxxlint.yml)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tool version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cxxlint %s\n", Version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cxxlint:", err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}
