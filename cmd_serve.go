package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/config"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/database"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/hub"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/pricing"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/router"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/services"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET is empty, using the development secret")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	deps.DB = db

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"db":        cfg.DBDriver,
			"recaptcha": deps.Verifier.Enabled(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// buildDeps wires the catalog and the outbound integrations. Integrations
// without credentials are left disabled.
func buildDeps(cfg *config.Config) (router.Deps, error) {
	catalog := pricing.DefaultCatalog()
	if cfg.PricingCatalog != "" {
		loaded, err := pricing.LoadCatalog(cfg.PricingCatalog)
		if err != nil {
			return router.Deps{}, err
		}
		catalog = loaded
		utils.InfoLogger.WithField("path", cfg.PricingCatalog).Info("pricing catalog loaded")
	}

	verifier := services.NewRecaptchaVerifier(services.RecaptchaConfig{
		Secret:    cfg.RecaptchaSecret,
		VerifyURL: cfg.RecaptchaVerifyURL,
		MinScore:  cfg.RecaptchaMinScore,
	})
	if !verifier.Enabled() {
		utils.InfoLogger.Warn("RECAPTCHA_SECRET is empty, token verification disabled")
	}

	mailer := services.NewMailer(services.MailerConfig{
		APIKey:   cfg.MailAPIKey,
		APIURL:   cfg.MailAPIURL,
		From:     cfg.MailFrom,
		Business: cfg.Business,
	})

	alerter, err := services.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		// owner alerts are optional
		utils.ErrorLogger.WithError(err).Error("telegram alerts disabled")
		alerter = nil
	}

	h := hub.New()

	var bookingMailer services.BookingMailer
	if mailer.Enabled() {
		bookingMailer = mailer
	} else {
		utils.InfoLogger.Warn("MAIL_API_KEY is empty, notification emails disabled")
	}
	var ownerAlerter services.OwnerAlerter
	if alerter.Enabled() {
		ownerAlerter = alerter
	}

	return router.Deps{
		Config:   cfg,
		Catalog:  catalog,
		Verifier: verifier,
		Mailer:   mailer,
		Notifier: services.NewBookingNotifier(bookingMailer, ownerAlerter, h),
		Hub:      h,
	}, nil
}
