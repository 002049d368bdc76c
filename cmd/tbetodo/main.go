package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/tbetodo/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
