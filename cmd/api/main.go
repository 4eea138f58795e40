package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/app"
	"taskboard/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфигурация:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "инициализация:", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
