package main

import (
	"github.com/spf13/cobra"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
