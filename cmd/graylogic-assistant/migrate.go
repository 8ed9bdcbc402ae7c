package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/database"
)

// openDatabase opens the configured SQLite file.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// withDatabase loads the configuration, opens its database and runs fn.
func withDatabase(cmd *cobra.Command, configPath string, fn func(*database.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := openDatabase(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-mostly command, nothing to flush
	return fn(db)
}

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect and change the database schema",
		Long: `Inspect and change the database schema.

The service applies pending migrations on start-up. Use these commands to
check the schema of a stopped installation or to step back after a
failed upgrade.`,
	}
	cmd.AddCommand(
		newMigrateStatusCmd(configPath),
		newMigrateUpCmd(configPath),
		newMigrateDownCmd(configPath),
	)
	return cmd
}

func newMigrateStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, *configPath, func(db *database.DB) error {
				states, err := db.Status(cmd.Context())
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Version", "Name", "State", "Applied at"})
				for _, st := range states {
					appliedAt := ""
					if st.Applied {
						appliedAt = st.AppliedAt.Format(time.RFC3339)
					}
					t.AppendRow(table.Row{st.Version, st.Name, migrationState(st), appliedAt})
				}
				t.Render()
				return nil
			})
		},
	}
}

func migrationState(st database.MigrationState) string {
	switch {
	case st.Missing:
		return "unknown"
	case st.Applied:
		return "applied"
	default:
		return "pending"
	}
}

func newMigrateUpCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, *configPath, func(db *database.DB) error {
				n, err := db.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				version, err := db.SchemaVersion(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s), schema version %s\n", n, version)
				return nil
			})
		},
	}
}

func newMigrateDownCmd(configPath *string) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, *configPath, func(db *database.DB) error {
				reverted, err := db.Rollback(cmd.Context(), steps)
				for _, v := range reverted {
					fmt.Fprintf(cmd.OutOrStdout(), "reverted %s\n", v)
				}
				return err
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}
