package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply outcome journal migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if !cfg.Database.Configured() {
			return errors.New("database is not configured")
		}

		migrator, err := database.Migrate(cfg.Database.ConnString(), database.Migrations)
		if err != nil {
			return err
		}
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			log.WithError(err).Error("failed to check migration version")
			return err
		}
		log.WithField("version", version).WithField("dirty", dirty).Info("migration successful")
		return nil
	},
}
