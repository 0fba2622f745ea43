package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vfg2006/campaign-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

var (
	migrateSteps int

	runMigrations      = postgres.RunMigrations
	rollbackMigrations = postgres.RollbackMigrations
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Gerencia as migrações do banco",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica as migrações pendentes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return runMigrations(cfg.Database.DSN)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Desfaz migrações aplicadas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := rollbackMigrations(cfg.Database.DSN, migrateSteps); err != nil {
			return err
		}

		log.L.WithField("steps", migrateSteps).Info("metricsctl: migrations rolled back")
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "Quantidade de migrações a desfazer")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
