package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/vidflow/internal/wire"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("dispatcher failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}
	defer cleanup()

	app.Logger.Info("starting vidflow dispatcher")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		app.Logger.Info("received shutdown signal")
		cancel()
		return <-errCh
	case err := <-errCh:
		return err
	}
}
