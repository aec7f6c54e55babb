// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package store

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/metrics"
	"github.com/tomtom215/salesdesk/internal/models"
)

// BreakerConfig configures the circuit breaker around a Reader.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // requests allowed while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration before half-open
	MinRequests  uint32        // requests needed before the ratio is considered
	FailureRatio float64       // trip when failures/requests reaches this
}

// DefaultBreakerConfig opens after a 60% failure rate over at least 10
// requests and probes again after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "store-reader",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker wraps a Reader so that a failing backend stops being hit once the
// failure rate crosses the configured ratio. While open, calls fail fast
// with gobreaker.ErrOpenState. ErrNotFound and context cancellation are not
// counted as failures.
type Breaker struct {
	next Reader
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreaker decorates next with a circuit breaker.
func NewBreaker(next Reader, cfg BreakerConfig) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Breaker{next: next, cb: cb, name: cfg.Name}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	}
	if err != nil {
		var zero T
		if v, ok := out.(T); ok {
			return v, err
		}
		return zero, err
	}
	return out.(T), nil
}

func (b *Breaker) Customer(ctx context.Context, id int) (models.Customer, error) {
	return execute(b, func() (models.Customer, error) { return b.next.Customer(ctx, id) })
}

func (b *Breaker) Customers(ctx context.Context) ([]models.Customer, error) {
	return execute(b, func() ([]models.Customer, error) { return b.next.Customers(ctx) })
}

func (b *Breaker) Agents(ctx context.Context) ([]models.Agent, error) {
	return execute(b, func() ([]models.Agent, error) { return b.next.Agents(ctx) })
}

func (b *Breaker) Products(ctx context.Context) ([]models.Product, error) {
	return execute(b, func() ([]models.Product, error) { return b.next.Products(ctx) })
}

func (b *Breaker) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return execute(b, func() ([]models.Product, error) { return b.next.ProductsByCategory(ctx, category) })
}

func (b *Breaker) Purchases(ctx context.Context) ([]models.Purchase, error) {
	return execute(b, func() ([]models.Purchase, error) { return b.next.Purchases(ctx) })
}

func (b *Breaker) PurchasesByCustomer(ctx context.Context, customerID int) ([]models.Purchase, error) {
	return execute(b, func() ([]models.Purchase, error) { return b.next.PurchasesByCustomer(ctx, customerID) })
}

func (b *Breaker) Interactions(ctx context.Context) ([]models.Interaction, error) {
	return execute(b, func() ([]models.Interaction, error) { return b.next.Interactions(ctx) })
}

func (b *Breaker) InteractionsByCustomer(ctx context.Context, customerID int) ([]models.Interaction, error) {
	return execute(b, func() ([]models.Interaction, error) { return b.next.InteractionsByCustomer(ctx, customerID) })
}

func (b *Breaker) Preferences(ctx context.Context) ([]models.CustomerPreference, error) {
	return execute(b, func() ([]models.CustomerPreference, error) { return b.next.Preferences(ctx) })
}

func (b *Breaker) PreferencesByCustomer(ctx context.Context, customerID int) ([]models.CustomerPreference, error) {
	return execute(b, func() ([]models.CustomerPreference, error) { return b.next.PreferencesByCustomer(ctx, customerID) })
}

func (b *Breaker) Promotions(ctx context.Context) ([]models.Promotion, error) {
	return execute(b, func() ([]models.Promotion, error) { return b.next.Promotions(ctx) })
}

func (b *Breaker) ActivePromotions(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	return execute(b, func() ([]models.Promotion, error) { return b.next.ActivePromotions(ctx, at) })
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// Unwrap returns the decorated Reader.
func (b *Breaker) Unwrap() Reader {
	return b.next
}

// Guard runs fn through the breaker. Capabilities that are discovered on the
// wrapped Reader by type assertion (analytics pushdown) use it to stay
// behind the same circuit.
func (b *Breaker) Guard(fn func() (any, error)) (any, error) {
	return execute(b, fn)
}
