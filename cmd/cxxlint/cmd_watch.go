package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-lint source files as they change",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	eng, _, err := setup(false)
	if err != nil {
		return err
	}

	w, err := watch.New(0, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, p := range args {
		if err := w.Add(p); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", zap.Strings("paths", args))
	err = w.Run(ctx, func(paths []string) {
		res, err := eng.Run(paths)
		if err != nil {
			logger.Error("lint failed", zap.Error(err))
			return
		}
		if err := emit(res.Diagnostics); err != nil {
			logger.Error("emit failed", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
