// Command lectern manages classrooms and a to-do list.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mesh-intelligence/lectern/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
