// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package config loads Salesdesk configuration.
//
// Values are layered with koanf, later layers winning:
//
//  1. built-in defaults (defaultConfig)
//  2. an optional YAML file (CONFIG_PATH, ./config.yaml, /etc/salesdesk/config.yaml)
//  3. environment variables listed in envMappings
//
// Load also reads a .env file from the working directory when one exists.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Cache     CacheConfig     `koanf:"cache"`
	WAL       WALConfig       `koanf:"wal"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path           string `koanf:"path"`
	MaxMemory      string `koanf:"max_memory"`
	Threads        int    `koanf:"threads"` // 0 = runtime.NumCPU()
	SeedSampleData bool   `koanf:"seed_sample_data"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RecommendConfig holds recommendation scoring settings.
type RecommendConfig struct {
	BaseScore        int           `koanf:"base_score"`
	MinScore         int           `koanf:"min_score"`
	PromotionBoost   int           `koanf:"promotion_boost"`
	MaxResults       int           `koanf:"max_results"`
	PreferencePolicy string        `koanf:"preference_policy"`
	Timeout          time.Duration `koanf:"timeout"`
}

// AnalyticsConfig holds aggregator settings.
type AnalyticsConfig struct {
	TopSellers int           `koanf:"top_sellers"`
	Pushdown   bool          `koanf:"pushdown"`
	Timeout    time.Duration `koanf:"timeout"`
}

// CacheConfig configures the analytics response cache.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Backend  string        `koanf:"backend"` // memory or redis
	TTL      time.Duration `koanf:"ttl"`
	RedisURL string        `koanf:"redis_url"`
}

// WALConfig configures the interaction write-ahead log.
type WALConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Path           string        `koanf:"path"`
	ReplayInterval time.Duration `koanf:"replay_interval"`
	MaxAttempts    int           `koanf:"max_attempts"`
	GCInterval     time.Duration `koanf:"gc_interval"`
}

// BreakerConfig configures the circuit breaker around store reads.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
