package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"github.com/tyee-ai/gpu-thermal/internal/storage/postgres"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Utility for database management",
	}

	// withStore opens the database for the duration of one subcommand
	withStore := func(run func(ctx context.Context, store *postgres.Store, migrator *migrate.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := openPostgres(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			return run(cmd.Context(), store, store.Migrator())
		}
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create migration tables",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, _ *postgres.Store, migrator *migrate.Migrator) error {
			return migrator.Init(ctx)
		}),
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate database",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, store *postgres.Store, _ *migrate.Migrator) error {
			group, err := store.Migrate(ctx)
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Printf("there are no new migrations to run (database is up to date)\n")
				return nil
			}
			fmt.Printf("migrated to %s\n", group)
			return nil
		}),
	}

	rollbackCmd := &cobra.Command{
		Use:   "rollback",
		Short: "Rollback the last migration group",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, _ *postgres.Store, migrator *migrate.Migrator) error {
			if err := migrator.Lock(ctx); err != nil {
				return err
			}
			defer migrator.Unlock(ctx) //nolint:errcheck

			group, err := migrator.Rollback(ctx)
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Printf("there are no groups to roll back\n")
				return nil
			}
			fmt.Printf("rolled back %s\n", group)
			return nil
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the status of the migrations",
		Args:  cobra.NoArgs,
		RunE: withStore(func(ctx context.Context, _ *postgres.Store, migrator *migrate.Migrator) error {
			ms, err := migrator.MigrationsWithStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("migrations: %s\n", ms)
			fmt.Printf("unapplied migrations: %s\n", ms.Unapplied())
			fmt.Printf("last migration group: %s\n", ms.LastGroup())
			return nil
		}),
	}

	cmd.AddCommand(initCmd, migrateCmd, rollbackCmd, statusCmd)
	return cmd
}
