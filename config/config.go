package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	RecaptchaSecret    string
	RecaptchaVerifyURL string
	RecaptchaMinScore  float64
	RecaptchaRequired  bool

	MailAPIKey string
	MailAPIURL string
	MailFrom   string

	Business Business

	TelegramBotToken string
	TelegramChatID   int64

	PricingCatalog string

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
}

// Business holds the company details printed on emails and invoices.
type Business struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Website string
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("DB_DSN", "freshplus.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RecaptchaSecret:    getEnv("RECAPTCHA_SECRET", ""),
		RecaptchaVerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),

		MailAPIKey: getEnv("MAIL_API_KEY", ""),
		MailAPIURL: getEnv("MAIL_API_URL", "https://api.resend.com/emails"),
		MailFrom:   getEnv("MAIL_FROM", "FreshPlus <bookings@freshplus.co.uk>"),

		Business: Business{
			Name:    getEnv("BUSINESS_NAME", "FreshPlus Cleaning"),
			Email:   getEnv("BUSINESS_EMAIL", "hello@freshplus.co.uk"),
			Phone:   getEnv("BUSINESS_PHONE", "020 0000 0000"),
			Address: getEnv("BUSINESS_ADDRESS", "London, United Kingdom"),
			Website: getEnv("BUSINESS_WEBSITE", "https://freshplus.co.uk"),
		},

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		PricingCatalog: getEnv("PRICING_CATALOG", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RecaptchaMinScore, err = getFloat("RECAPTCHA_MIN_SCORE", 0.5); err != nil {
		return nil, err
	}
	if cfg.RecaptchaRequired, err = getBool("RECAPTCHA_REQUIRED", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 2); err != nil {
		return nil, err
	}
	burst, err := getFloat("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	for _, origin := range strings.Split(getEnv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBDriver != "mysql" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", c.DBDriver)
	}
	if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		return fmt.Errorf("RECAPTCHA_MIN_SCORE must be within [0,1], got %v", c.RecaptchaMinScore)
	}
	if c.RecaptchaRequired && c.RecaptchaSecret == "" {
		return fmt.Errorf("RECAPTCHA_REQUIRED is set but RECAPTCHA_SECRET is empty")
	}
	if c.GinMode == "release" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in release mode")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
