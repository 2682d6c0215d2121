package main

import (
	"os"

	"github.com/spf13/cobra"

	"shoplane/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shoplane",
		Short: "Shoplane - e-commerce storefront backend",
		Long:  `Shoplane serves the storefront REST API and manages user session lifecycle.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
