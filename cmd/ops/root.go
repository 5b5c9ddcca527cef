package main

import (
	"context"
	"fmt"

	"organizese/internal/app"
	"organizese/internal/config"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "organizese-ops",
	Short: "Maintenance commands for the organizese task store",
	Long: `organizese-ops runs maintenance against the configured task store:
database migrations, history repair, routine date previews and seeding
the people directory from a YAML file.

Configuration is read the same way as the API server: .env, config.yml
in --config-dir, then ORGANIZESE_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing config.yml")
	rootCmd.AddCommand(migrateCmd, repairCmd, datesCmd, seedCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openApp wires the services against the configured store without serving HTTP.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Worker.Enabled = false
	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}
