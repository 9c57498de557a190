package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("tone-changer relay exited", "error", err)
		os.Exit(1)
	}
}

// run wires the relay and serves until ctx is cancelled.
func run(ctx context.Context) error {
	app, err := initializeApp()
	if err != nil {
		return fmt.Errorf("wire tone-changer relay: %w", err)
	}
	return app.Run(ctx)
}
