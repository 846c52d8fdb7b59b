// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package config loads Cadence configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: explicit mapping table, highest priority
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	loader := source.NewLoader(engine, cfg.Data.Dir, true)
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Session  SessionConfig  `koanf:"session"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig locates the source CSV tables and the users file.
type DataConfig struct {
	// Dir holds basic_info.csv, listening_records.csv, playlist_info.csv
	// and social_info.csv.
	Dir string `koanf:"dir"`

	// UsersFile is the credential CSV. Relative paths resolve against Dir.
	UsersFile string `koanf:"users_file"`

	// CacheEnabled turns on the read-through source table cache.
	CacheEnabled bool `koanf:"cache_enabled"`
}

// DatabaseConfig configures the embedded DuckDB engine used for CSV I/O.
type DatabaseConfig struct {
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// SecurityConfig holds authentication, authorization and rate limit settings.
type SecurityConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AdminUsername string        `koanf:"admin_username"`
	BcryptCost    int           `koanf:"bcrypt_cost"`
	CookieSecure  bool          `koanf:"cookie_secure"`
	CORSOrigins   []string      `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP, for all routes.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// LoginBurst attempts are allowed per client, refilled one per LoginRefill.
	LoginBurst  int           `koanf:"login_burst"`
	LoginRefill time.Duration `koanf:"login_refill"`

	// Casbin overrides. Empty paths use the embedded model and policy.
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// SessionConfig selects the server-side session backend.
type SessionConfig struct {
	Store      string        `koanf:"store"` // memory | badger
	Path       string        `koanf:"path"`  // badger directory
	TTL        time.Duration `koanf:"ttl"`
	CookieName string        `koanf:"cookie_name"`
}

// AnalysisConfig holds defaults for the analysis pages.
type AnalysisConfig struct {
	DefaultK    int   `koanf:"default_k"`
	Seed        int64 `koanf:"seed"`
	PreviewRows int   `koanf:"preview_rows"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration using the layered Koanf strategy.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
