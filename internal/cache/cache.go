// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package cache holds short-lived API responses.
//
// Two backends implement Store: an in-process TTL map (Memory) and Redis.
// Values cross the interface as JSON so both backends return independent
// copies and a cached value decodes the same way wherever it came from.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/config"
)

// Store is a TTL key/value cache.
type Store interface {
	// Get decodes the value under key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for the store's TTL.
	Set(ctx context.Context, key string, value any) error

	Delete(ctx context.Context, key string) error

	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error

	Close() error
}

// Backend names accepted in config.CacheConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds the Store selected by cfg. It returns (nil, nil) when the cache
// is disabled.
func New(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(cfg.TTL), nil
	case BackendRedis:
		return NewRedis(cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

const defaultTTL = 30 * time.Second

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTTL
	}
	return ttl
}
