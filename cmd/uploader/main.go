package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/vidflow/internal/wire"
)

func main() {
	if err := run(); err != nil {
		slog.Error("uploader failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, cleanup, err := wire.InitializeUploader(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize uploader: %w", err)
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("received shutdown signal")
	case err := <-errCh:
		return err
	}

	if err := srv.Stop(); err != nil {
		return fmt.Errorf("failed to stop uploader: %w", err)
	}
	return <-errCh
}
