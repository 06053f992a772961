// Command ocdg mines object-centric directed graphs from event logs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/ocdg/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	// Commands silence cobra's own error printing; stdout carries only the
	// formatted result, so the error goes to stderr.
	fmt.Fprintln(os.Stderr, "Error:", err)
	return cli.GetExitCode(err)
}
