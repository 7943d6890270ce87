package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/renohub/core/internal/config"
	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// These admin commands mirror internal/httpapi's tenant CRUD one-for-one —
// both surfaces call the same TenantRepository, so a deployment can manage
// tenants from either the CLI or the HTTP API interchangeably.

func openTenantRepo(ctx context.Context) (repository.TenantRepository, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return repository.TenantRepository{}, nil, fmt.Errorf("loading config: %w", err)
	}
	pool, err := repository.NewPool(ctx, cfg.Database)
	if err != nil {
		return repository.TenantRepository{}, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return repository.NewTenantRepository(pool), pool.Close, nil
}

func newAddTenantCommand() *cobra.Command {
	var name, token string
	cmd := &cobra.Command{
		Use:     "addtenant",
		Aliases: []string{"addbot"},
		Short:   "Register a new tenant bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeFn, err := openTenantRepo(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := repo.Create(ctx, domain.Tenant{Name: name, BotToken: token, IsActive: true})
			if err != nil {
				return err
			}
			fmt.Printf("created tenant %s (%s)\n", t.ID, t.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	cmd.Flags().StringVar(&name, "name", "", "tenant display name")
	cmd.Flags().StringVar(&token, "token", "", "platform bot token")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("token")
	return cmd
}

func newListTenantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listtenants",
		Aliases: []string{"listbots"},
		Short:   "List active tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeFn, err := openTenantRepo(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			tenants, err := repo.ListActive(ctx)
			if err != nil {
				return err
			}
			for _, t := range tenants {
				fmt.Printf("%s\t%s\t@%s\n", t.ID, t.Name, t.BotUsername)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	return cmd
}

func newRemoveTenantCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "removetenant",
		Aliases: []string{"removebot"},
		Short:   "Deactivate a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tenantID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid tenant id: %w", err)
			}

			repo, closeFn, err := openTenantRepo(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			return repo.SetActive(ctx, tenantID, false)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	cmd.Flags().StringVar(&id, "id", "", "tenant id")
	cmd.MarkFlagRequired("id")
	return cmd
}
