package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	LogLevel        string
	Store           string // "postgres" or "memory"
	RedisAddr       string // empty disables the result cache
	ONSFeedURL      string
	RefreshSchedule string // cron expression; empty disables the refresh job
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string
	AlertEmail      string // empty disables refresh-failure alerts
	DataDir         string
}

// NewConfig loads configuration from the environment, reading an
// optional .env file first.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=period_poverty sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		Store:           getEnv("STORE", "postgres"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		ONSFeedURL:      getEnv("ONS_FEED_URL", "https://api.ons.gov.uk/timeseries/personal-care-cpi/data.xml"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", ""),
		AlertEmail:      getEnv("ALERT_EMAIL", ""),
		DataDir:         getEnv("DATA_DIR", "data/processed"),
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("STORE must be postgres or memory, got %q", cfg.Store)
	}
	if cfg.Store == "postgres" && cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.AlertEmail != "" && (cfg.SMTPHost == "" || cfg.SenderEmail == "") {
		return nil, fmt.Errorf("ALERT_EMAIL requires SMTP_HOST and SENDER_EMAIL")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
