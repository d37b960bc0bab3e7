package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/cli"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // best-effort

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args, os.Stdout, version); err != nil {
		stop()
		os.Exit(1)
	}
}
