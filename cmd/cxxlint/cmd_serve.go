package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the linter over HTTP/3",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8443", "UDP address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, _, err := setup(false)
	if err != nil {
		return err
	}

	srv, err := server.New(serveAddr, eng, logger)
	if err != nil {
		return err
	}
	addr, err := srv.Start()
	if err != nil {
		return err
	}
	logger.Info("lint server ready", zap.String("addr", addr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return srv.Stop()
}
