package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the review engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the replica password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// External scoring services
	LiftWingURL string `yaml:"liftwing_url" env:"LIFTWING_URL" env-default:"https://api.wikimedia.org/service/lw/inference/v1/models"`
	ORESURL     string `yaml:"ores_url" env:"ORES_URL" env-default:"https://ores.wikimedia.org/v3/scores"`

	// Replica database configuration (wiki replica, PostgreSQL wire)
	Replica ReplicaConfig `yaml:"replica"`

	// Evaluation tuning
	Evaluation EvaluationConfig `yaml:"evaluation"`
}

// ReplicaConfig holds the wiki replica database configuration.
type ReplicaConfig struct {
	Host           string `yaml:"host" env:"REPLICA_HOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"REPLICA_PORT" env-default:"5432"`
	User           string `yaml:"user" env:"REPLICA_USER" env-default:"reader"`
	Password       string `yaml:"-" env:"REPLICA_PASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"REPLICA_DATABASE" env-default:"wikidb"`
	MaxConnections int32  `yaml:"max_connections" env:"REPLICA_MAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"REPLICA_SSL_MODE" env-default:"disable"`
}

// ConnectionString builds the pgx connection string for the replica.
func (c *ReplicaConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// EvaluationConfig holds evaluation tuning knobs.
type EvaluationConfig struct {
	// Concurrency caps in-flight page evaluations per request.
	Concurrency int `yaml:"concurrency" env:"EVALUATION_CONCURRENCY" env-default:"4"`
	// CacheTTLMinutes is how long fetched scores and texts stay cached.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes" env:"EVALUATION_CACHE_TTL_MINUTES" env-default:"15"`
	// CacheSize is the maximum number of cached entries per cache.
	CacheSize int `yaml:"cache_size" env:"EVALUATION_CACHE_SIZE" env-default:"10000"`
	// TimeoutSeconds bounds a single page evaluation.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"EVALUATION_TIMEOUT_SECONDS" env-default:"120"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on
// the returned Config. A missing config.yaml is not an error; the
// defaults and environment apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}
