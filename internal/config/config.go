package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the process-wide settings. It is loaded once at startup.
type Config struct {
	AppPort    string
	LogLevel   string
	LogFormat  string
	CORSOrigin string

	DBDriver    string // postgres | sqlite
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration
	// AllowLegacyPlaintext accepts stored plaintext passwords at login and
	// rehashes them on success.
	AllowLegacyPlaintext bool

	RabbitMQURL string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v after applying defaults and AutomaticEnv.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=storerate port=5432 sslmode=disable")
	v.SetDefault("TOKEN_TTL", time.Hour)
	v.SetDefault("AUTH_ALLOW_LEGACY_PLAINTEXT", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ADMIN_USERNAME", "platform administrator account")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:              v.GetString("APP_PORT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		CORSOrigin:           v.GetString("CORS_ALLOW_ORIGINS"),
		DBDriver:             strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		TokenTTL:             v.GetDuration("TOKEN_TTL"),
		AllowLegacyPlaintext: v.GetBool("AUTH_ALLOW_LEGACY_PLAINTEXT"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		AdminUsername:        v.GetString("ADMIN_USERNAME"),
		AdminEmail:           v.GetString("ADMIN_EMAIL"),
		AdminPassword:        v.GetString("ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

// ConfigureLogging applies the level and format to the global logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.LogFormat == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
