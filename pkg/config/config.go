package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	MigrationsPath string

	// CORS
	CORSAllowedOrigins []string

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// ApprovalRequired lists ENTITY:ACTION pairs that need a maker-checker
	// decision before execution.
	ApprovalRequired []string

	// TrialBalanceMaxAge caps how stale an asOf query may be.
	TrialBalanceMaxAge time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("APPROVAL_REQUIRED", "LOAN:DISBURSE,LEDGER:REVERSE")
	viper.SetDefault("TRIAL_BALANCE_MAX_AGE", "8760h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.CORSAllowedOrigins = splitAndTrim(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.ApprovalRequired = splitAndTrim(viper.GetString("APPROVAL_REQUIRED"))

	maxAgeStr := viper.GetString("TRIAL_BALANCE_MAX_AGE")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		maxAge = 365 * 24 * time.Hour
		if maxAgeStr != "" {
			log.Printf("Warning: Invalid value for TRIAL_BALANCE_MAX_AGE ('%s'). Defaulting to %s.\n", maxAgeStr, maxAge.String())
		}
	}
	cfg.TrialBalanceMaxAge = maxAge

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
