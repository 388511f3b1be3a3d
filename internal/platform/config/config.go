// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"fairchain/pkg/domain"
)

// Config captures everything the server needs at startup. The administrator
// principal is configuration, not data: there is exactly one and it never
// changes at runtime.
type Config struct {
	Addr          string `envconfig:"ADDR" default:":8080"`
	JWTSigningKey string `envconfig:"JWT_SIGNING_KEY" default:"dev-secret-key-change-in-production"`
	Admin         string `envconfig:"ADMIN_PRINCIPAL" required:"true"`

	// Storage selects the backing stores: "memory" or "postgres".
	Storage     string `envconfig:"STORAGE" default:"memory"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	// RedisAddr, when set, backs the blacklist with Redis so multiple
	// instances share deny-list state.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// Kafka audit sink; disabled when no brokers are configured.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_AUDIT_TOPIC" default:"fairchain.audit"`

	ShutdownGraceSeconds int `envconfig:"SHUTDOWN_GRACE_SECONDS" default:"10"`
}

// Load reads configuration from FAIRCHAIN_* environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("fairchain", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage != "memory" && cfg.Storage != "postgres" {
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	if cfg.Storage == "postgres" && cfg.PostgresDSN == "" {
		return Config{}, fmt.Errorf("postgres storage requires FAIRCHAIN_POSTGRES_DSN")
	}
	return cfg, nil
}

// AdminPrincipal returns the configured administrator identity.
func (c Config) AdminPrincipal() domain.Principal {
	return domain.Principal(c.Admin)
}
