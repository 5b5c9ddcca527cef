package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"organizese/internal/app"
	"organizese/internal/config"
	"organizese/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ORGANIZESE_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("App: stopped with error", err)
		os.Exit(1)
	}
}
