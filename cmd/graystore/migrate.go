package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/graystore/internal/infrastructure/config"
	"github.com/nerrad567/graystore/internal/infrastructure/database"
)

// newMigrateCommand manages the SQLite schema outside of serve, which only
// ever migrates up.
func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect or change the SQLite schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				applied, pending, err := db.GetMigrationStatus(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range applied {
					fmt.Fprintf(out, "applied  %s\n", r.Version)
				}
				for _, m := range pending {
					fmt.Fprintf(out, "pending  %s %s\n", m.Version, m.Name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				return db.Migrate(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, func(ctx context.Context, db *database.DB) error {
				return db.MigrateDown(ctx)
			})
		},
	})

	return cmd
}

// withDatabase opens the configured SQLite database for the duration of fn.
func withDatabase(ctx context.Context, opts *rootOptions, fn func(context.Context, *database.DB) error) error {
	cfg, err := config.Load(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		return fmt.Errorf("migrate needs store.backend %q, config has %q", config.BackendSQLite, cfg.Store.Backend)
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Nothing to recover from on close

	return fn(ctx, db)
}
