// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, crawler) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Postgres holds the relational database settings.
type Postgres struct {
	Hostname string `env:"POSTGRES_HOSTNAME,required"`
	Port     int    `env:"POSTGRES_PORT"              envDefault:"5432"`
	User     string `env:"POSTGRES_USER,required"`
	Password string `env:"POSTGRES_PASSWORD,required"`
	Database string `env:"POSTGRES_DATABASE,required"`
	MaxSize  int    `env:"POSTGRES_MAX_SIZE"          envDefault:"25"`
	Log      bool   `env:"POSTGRES_LOG"               envDefault:"false"`
}

// Crawler holds the federated-crawl tuning settings.
type Crawler struct {
	// SeedInstance is the first instance domain the Runner enqueues.
	SeedInstance string `env:"CRAWLER_SEED_INSTANCE,required"`

	// UserAgent identifies this crawler to remote instances.
	UserAgent string `env:"CRAWLER_USER_AGENT"    envDefault:"lemmysearch (+https://github.com/rcmaehl/lemmysearch)"`

	// PassInterval is the minimum time between two full passes over an instance.
	PassInterval string `env:"CRAWLER_PASS_INTERVAL" envDefault:"15m"`

	// MaxParallel bounds the number of instances crawled concurrently.
	MaxParallel int `env:"CRAWLER_MAX_PARALLEL"  envDefault:"4"`

	// Backoff is how long an instance is skipped after a failed fetch.
	Backoff string `env:"CRAWLER_BACKOFF"       envDefault:"10m"`
}

// Config holds all runtime configuration for the lemmysearch API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// DevelopmentMode gates the dev-only /heartbeat and /crawl routes.
	DevelopmentMode bool `env:"DEVELOPMENT_MODE" envDefault:"false"`

	// Relational Database (PostgreSQL)
	Postgres Postgres

	// Federated crawler
	Crawler Crawler

	// MigrationPath is the filesystem path to the supplementary SQL migrations.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value Cache (Redis): crawl backoff markers + search response cache.
	RedisURL string `env:"REDIS_URL,required"`

	// UIDirectory is the static UI directory to serve. Populated from the
	// optional CLI positional argument, not from the environment.
	UIDirectory string `env:"-"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
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
