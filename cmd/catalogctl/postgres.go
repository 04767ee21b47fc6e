package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"boardgame-catalog/config"
	"boardgame-catalog/internal/catalog/source"
)

var postgresCmd = &cobra.Command{
	Use:   "postgres",
	Short: "Manage the Postgres games table",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the games table schema at DATABASE_URL",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	postgresCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(postgresCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	if err := source.MigratePostgres(cfg.DatabaseURL); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "games table is up to date")
	return nil
}
