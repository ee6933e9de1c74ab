// Command oasir compiles OpenAPI 3.x documents into a normalized
// intermediate representation, validates them, and renders Go models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasir/cmd/oasir/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
