package main

import (
	_ "perf-tester/internal/pkg/dotenv/autoload"

	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newDeps())
	stop()
	os.Exit(code)
}
