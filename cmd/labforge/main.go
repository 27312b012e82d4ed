package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labforge/internal/cli"
	lferrors "github.com/matzehuels/labforge/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(exitCode(err))
	}
}

// run builds the command tree with logs on stderr and executes args.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	var verbose bool

	c := cli.New(stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Flags are parsed by the time the hook runs; the root hook attaches
	// the logger to the context and must still run afterwards.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return attach(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// formatError prefixes coded errors with their code so scripts can match
// on it.
func formatError(err error) string {
	if code := lferrors.GetCode(err); code != "" {
		return fmt.Sprintf("labforge: %s: %s", code, lferrors.UserMessage(err))
	}
	return "labforge: " + err.Error()
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
