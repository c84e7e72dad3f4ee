package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"procurement-flow/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "flowctl",
		Short:         "flowctl - procurement status workflow tooling",
		Long:          `flowctl inspects the procurement fulfillment chain and validates status transitions offline, using the same rules the API enforces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.ChainCmd())
	rootCmd.AddCommand(cli.CheckCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
