// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salesdesk/internal/metrics"
)

const memoryCacheName = "memory"

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a thread-safe in-process TTL cache. A background goroutine
// drops expired entries until Close is called.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory returns a Memory cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	ttl = effectiveTTL(ttl)
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop(max(ttl, time.Second))
	return m
}

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if ok && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Evictions++ })
		ok = false
	}
	if !ok {
		m.record(func(s *Stats) { s.Misses++ })
		metrics.RecordCacheLookup(memoryCacheName, false)
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	m.record(func(s *Stats) { s.Hits++ })
	metrics.RecordCacheLookup(memoryCacheName, true)
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(m.ttl)}
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) { s.TotalKeys = n })
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) {
		if existed {
			s.Evictions++
		}
		s.TotalKeys = n
	})
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	evicted := int64(len(m.entries))
	m.entries = make(map[string]entry)
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = 0
	})
	return nil
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// Stats returns a snapshot of the counters.
func (m *Memory) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Memory) record(update func(*Stats)) {
	m.statsMu.Lock()
	update(&m.stats)
	m.statsMu.Unlock()
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Memory) cleanup() {
	now := m.now()
	m.mu.Lock()
	var evicted int64
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	n := int64(len(m.entries))
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evicted
		s.TotalKeys = n
	})
}

var _ Store = (*Memory)(nil)
