// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables onto the [Config] struct.

Parsing is done once at startup with 'caarlos0/env'. Required variables that are
missing abort the process before any connection is opened.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Stager API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Entry sessions (Redis)
	RedisURL        string        `env:"REDIS_URL,required,notEmpty"`
	EntrySessionTTL time.Duration `env:"ENTRY_SESSION_TTL" envDefault:"12h"`

	// Bearer tokens are issued upstream; only the public key is needed here.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"stager"`

	// Object Storage (MinIO / S3-compatible)
	S3Bucket      string        `env:"S3_BUCKET"      envDefault:"stager-uploads"`
	S3Region      string        `env:"S3_REGION"      envDefault:"us-east-1"`
	S3Endpoint    string        `env:"S3_ENDPOINT"`
	S3AccessKey   string        `env:"S3_ACCESS_KEY"`
	S3SecretKey   string        `env:"S3_SECRET_KEY"`
	S3PresignTTL  time.Duration `env:"S3_PRESIGN_TTL" envDefault:"15m"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"1073741824"`

	// RulesPath optionally points at a YAML file of extra requirement rule sets.
	RulesPath string `env:"RULES_PATH"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"stager.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.EntrySessionTTL <= 0 {
		return nil, fmt.Errorf("config: ENTRY_SESSION_TTL must be positive, got %s", cfg.EntrySessionTTL)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix is the domain suffix accepted by CORS outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
