package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server's environment-driven settings. Command-line
// flags override the port and log level after loading.
type Config struct {
	Port     int    `env:"IMPERIUM_PORT" envDefault:"9090"`
	LogLevel string `env:"IMPERIUM_LOG_LEVEL" envDefault:"info"`

	// Store selects the persistence backend: memory, sqlite, or
	// postgres.
	Store       string `env:"IMPERIUM_STORE" envDefault:"memory"`
	SQLitePath  string `env:"IMPERIUM_SQLITE_PATH" envDefault:"imperium.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	TLSCertFile string `env:"IMPERIUM_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"IMPERIUM_TLS_KEY_FILE"`

	// Auth selects the token verifier: firebase or static.
	Auth              string `env:"IMPERIUM_AUTH" envDefault:"static"`
	StaticAuthSecret  string `env:"IMPERIUM_STATIC_AUTH_SECRET" envDefault:"dev"`
	FirebaseProjectID string `env:"IMPERIUM_FIREBASE_PROJECT_ID"`
	FirebaseAPIKey    string `env:"IMPERIUM_FIREBASE_API_KEY"`

	// SMTP settings for turn notifications. Leaving Addr empty
	// selects the noop notifier.
	SMTPAddr     string `env:"IMPERIUM_SMTP_ADDR"`
	SMTPFrom     string `env:"IMPERIUM_SMTP_FROM"`
	SMTPHost     string `env:"IMPERIUM_SMTP_HOST"`
	SMTPUsername string `env:"IMPERIUM_SMTP_USERNAME"`
	SMTPPassword string `env:"IMPERIUM_SMTP_PASSWORD"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
