package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renohub/core/internal/config"
	"github.com/renohub/core/internal/migrations"
)

func newMigrateCommand() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if down {
				return migrations.Down(cfg.Database.DSN())
			}
			return migrations.Up(cfg.Database.DSN())
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	cmd.Flags().BoolVar(&down, "down", false, "roll back every applied migration instead of applying pending ones")
	return cmd
}
