package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var rootCmd = &cobra.Command{
	Use:   "freshplus",
	Short: "FreshPlus booking funnel and back-office API",
	Long: `FreshPlus serves the website quote and booking funnel, the email and
recaptcha relay endpoints, and the admin back-office API.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, quoteCmd)
}

// loadConfig reads the environment and initialises the loggers.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	utils.SetJWTSecret(cfg.JWTSecret, cfg.JWTTTL)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
