// Command clustermap computes constrained layouts of clustered graphs.
//
// Exit status is 0 on success, 2 when the input graph, constraints or
// options are rejected, 130 when interrupted and 1 for any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/internal/cli"
	cmerrors "github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "clustermap:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130 // shell convention for SIGINT
	}
	switch cmerrors.GetCode(err) {
	case cmerrors.ErrCodeInvalidInput, cmerrors.ErrCodeInvalidGraph, cmerrors.ErrCodeInvalidConstraint,
		cmerrors.ErrCodeInvalidGroup, cmerrors.ErrCodeInvalidFormat, cmerrors.ErrCodeInvalidConfig:
		return 2
	}
	return 1
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log layout phases and cache activity")

	// --verbose is only parsed once a subcommand runs, so the level is
	// raised ahead of the metrics hooks installed by the root.
	metricsPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return metricsPreRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
