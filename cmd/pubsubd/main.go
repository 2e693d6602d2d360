package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/webpubsub/app/hub"
	"github.com/dmitrymomot/webpubsub/core/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := hub.NewApp()
	if err != nil {
		return fmt.Errorf("init hub: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		app.Logger().Error("hub exited with error", logger.Error(err))
		return err
	}
	return nil
}
