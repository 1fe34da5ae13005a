package main

import (
	"os"

	"github.com/spf13/cobra"

	"agencydesk/internal/interfaces/cli/migrate"
	"agencydesk/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agencydesk",
		Short: "AgencyDesk billing webhook service",
		Long:  `AgencyDesk's Stripe billing webhook reconciliation service with built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
