package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "renohub",
		Short: "Renohub — multi-tenant renovation-project assistant",
		Long:  `renohub runs the Telegram/WhatsApp conversational assistant that tracks apartment-renovation projects: stages, budgets, and participant Q&A.`,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newAddTenantCommand(),
		newListTenantsCommand(),
		newRemoveTenantCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
