package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/database"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
)

var adminFlags struct {
	email    string
	name     string
	password string
	role     string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back-office account",
	Example: `  freshplus create-admin --email owner@freshplus.co.uk --name Owner --password 'change-me-now'
  freshplus create-admin --email staff@freshplus.co.uk --password 'change-me-too' --role staff`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		admin, err := database.CreateAdmin(db, adminFlags.name, adminFlags.email, adminFlags.password, adminFlags.role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s account #%d for %s\n", admin.Role, admin.ID, admin.Email)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "login email (required)")
	f.StringVar(&adminFlags.name, "name", "", "display name")
	f.StringVar(&adminFlags.password, "password", "", "password, at least 8 characters (required)")
	f.StringVar(&adminFlags.role, "role", models.RoleAdmin, "admin or staff")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
