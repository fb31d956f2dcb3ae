package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nextday/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd())
	stop()
	os.Exit(code)
}
