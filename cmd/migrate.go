package main

import (
	"github.com/spf13/cobra"

	"github.com/yashranaway/flexile/config"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		applyConfiguredLogLevel(cfg)

		if err := db.RunMigrations(cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
			return err
		}

		log.Infof("✅ Database schema %s is up to date", cfg.DatabaseSchema)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
