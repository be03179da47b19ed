package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change_me_in_production"

// Config is the runtime configuration of the service.
type Config struct {
	AppPort       string
	AppEnv        string
	DBDriver      string
	DatabaseDSN   string
	AutoMigrate   bool
	JWTSecret     string
	JWTTTL        time.Duration
	RabbitMQURL   string
	RabbitMQQueue string
	AdminUsername string
	AdminPassword string
	SeedCatalog   bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:storefront.db?cache=shared")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	v.SetDefault("RABBITMQ_QUEUE", "order_queue")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "") // empty skips creating the admin account
	v.SetDefault("SEED_CATALOG", false)
}

// Load reads an optional .env file, then the environment, into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv() // Load environment variables
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		AppEnv:        v.GetString("APP_ENV"),
		DBDriver:      v.GetString("DB_DRIVER"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		AutoMigrate:   v.GetBool("AUTO_MIGRATE"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        ttl,
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		RabbitMQQueue: v.GetString("RABBITMQ_QUEUE"),
		AdminUsername: v.GetString("ADMIN_USERNAME"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		SeedCatalog:   v.GetBool("SEED_CATALOG"),
	}

	if cfg.AppEnv == "production" && cfg.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	return cfg, nil
}
