// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/authgrid/authd/internal/config"
	"github.com/authgrid/authd/internal/store"
)

// NewMigrateCmd creates the migrate subcommand. Schema management is an
// operator action on the CLI; nothing on the HTTP surface touches it.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrate((*store.Migrator).Up, "migrations applied"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (drops all tables and data)",
		RunE:  runMigrate((*store.Migrator).Down, "migrations rolled back"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE:  runMigrateStatus,
	})

	return cmd
}

func runMigrate(op func(*store.Migrator) error, doneMsg string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close() //nolint:errcheck // close error is not actionable here

		if err := op(m); err != nil {
			return err
		}
		cmd.Println(doneMsg)
		return nil
	}
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error is not actionable here

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		cmd.Println("no migrations applied")
		return nil
	}
	cmd.Printf("version: %d dirty: %t\n", version, dirty)
	return nil
}

func newMigrator(cmd *cobra.Command) (*store.Migrator, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set --database-url or DATABASE_URL)")
	}
	return store.NewMigrator(cfg.DatabaseURL)
}
