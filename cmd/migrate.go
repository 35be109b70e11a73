package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"stocks-simulator/config"
	"stocks-simulator/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.StoreDriver != config.DriverPostgres {
			return errors.New("migrate requires STORE_DRIVER=postgres")
		}
		db, err := config.OpenDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}
