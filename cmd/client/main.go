package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iudanet/dequeuesync/internal/client/cli"
	"github.com/iudanet/dequeuesync/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	version := fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit)

	cmd := cli.NewRootCommand(version, iocli.NewStdio())
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Explain(err))
		os.Exit(1)
	}
}
