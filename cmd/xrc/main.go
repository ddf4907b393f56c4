package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/saylorsolutions/xorcryptor/cmd/internal"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		cancel()
		internal.Fatal("%v", err)
	}
}
