// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateDatabase(),
		c.validateServer(),
		c.validateSecurity(),
		c.validateRecommend(),
		c.validateAnalytics(),
		c.validateCache(),
		c.validateWAL(),
		c.validateBreaker(),
		c.validateLogging(),
	)
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be positive, got %d", r.MaxResults)
	}
	if r.BaseScore < 0 || r.MinScore < 0 || r.PromotionBoost < 0 {
		return fmt.Errorf("recommend scores must be non-negative")
	}
	if r.PreferencePolicy != "last_write_wins" && r.PreferencePolicy != "max" {
		return fmt.Errorf("recommend.preference_policy must be last_write_wins or max, got %q", r.PreferencePolicy)
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if c.Analytics.TopSellers < 1 {
		return fmt.Errorf("analytics.top_sellers must be positive, got %d", c.Analytics.TopSellers)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %v", c.Cache.TTL)
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateWAL() error {
	if !c.WAL.Enabled {
		return nil
	}
	if c.WAL.Path == "" {
		return fmt.Errorf("wal.path is required when the WAL is enabled")
	}
	if c.WAL.ReplayInterval <= 0 {
		return fmt.Errorf("wal.replay_interval must be positive, got %v", c.WAL.ReplayInterval)
	}
	if c.WAL.MaxAttempts < 1 {
		return fmt.Errorf("wal.max_attempts must be positive, got %d", c.WAL.MaxAttempts)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be positive, got %v", c.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
}
