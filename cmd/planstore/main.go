package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planstore",
		Short: "planstore - JSON plan document store with conditional reads",
		Long: `planstore accepts, returns and deletes plan documents keyed by objectId.
Writes are normalized and validated against the plan schema; reads carry an
ETag and honour If-None-Match.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("planstore version %s\nCommit: %s\n", Version, Commit))
	root.AddCommand(newServeCmd())
	root.AddCommand(newValidateCmd())
	return root
}
