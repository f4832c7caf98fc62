package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/config"
	"github.com/shashiranjanraj/cafehub/database/seeders"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// withDB runs fn against a freshly opened connection and closes it after.
func withDB(fn func(cmd *cobra.Command, db *gorm.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		defer database.Close(db) //nolint:errcheck
		return fn(cmd, db)
	}
}

// cafehub migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			_, err := migration.New(db).WithOutput(cmd.OutOrStdout()).Run()
			return err
		}),
	}
}

// cafehub migrate:rollback
func newMigrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Rollback the last batch of migrations (drops the tables it created)",
		RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			_, err := migration.New(db).WithOutput(cmd.OutOrStdout()).Rollback()
			return err
		}),
	}
}

// cafehub migrate:status
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
			return migration.New(db).WithOutput(cmd.OutOrStdout()).Status()
		}),
	}
}

// cafehub seed
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample cafes (existing names are skipped)",
		RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
			if _, err := migration.New(db).WithOutput(cmd.OutOrStdout()).Run(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(db, cmd.OutOrStdout())
		}),
	}
}
