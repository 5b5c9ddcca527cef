package main

import (
	"fmt"

	"organizese/internal/config"
	"organizese/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateUp(url); err != nil {
			return fmt.Errorf("migrating up: %w", err)
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Long: `Roll back every applied migration. This drops the task and people
tables and all of their data.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		if err := postgres.MigrateDown(url); err != nil {
			return fmt.Errorf("migrating down: %w", err)
		}
		fmt.Println("Migrations rolled back")
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func databaseURL() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Repository.Type != config.RepositoryPostgres {
		return "", fmt.Errorf("repository.type is %q; migrations need %q", cfg.Repository.Type, config.RepositoryPostgres)
	}
	return cfg.Database.URL, nil
}
