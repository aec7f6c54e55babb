// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/validation"
)

// PreferencePolicy decides which level wins when a customer has several
// preference rows for one category.
type PreferencePolicy string

const (
	// PolicyLastWriteWins keeps the level of the row with the highest ID.
	PolicyLastWriteWins PreferencePolicy = "last_write_wins"

	// PolicyMax keeps the highest level seen for the category.
	PolicyMax PreferencePolicy = "max"
)

// Config contains the scoring parameters of the engine.
type Config struct {
	// BaseScore is the starting score of every candidate.
	BaseScore int `json:"base_score" validate:"gte=0"`

	// MinScore is the lowest score a candidate may have and still be returned.
	MinScore int `json:"min_score" validate:"gte=0"`

	// PromotionBoost is added once per applicable active promotion.
	PromotionBoost int `json:"promotion_boost" validate:"gte=0"`

	// MaxResults caps the number of returned items.
	MaxResults int `json:"max_results" validate:"gte=1,lte=100"`

	// PreferencePolicy is last_write_wins or max.
	PreferencePolicy PreferencePolicy `json:"preference_policy" validate:"required,oneof=last_write_wins max"`

	// Timeout bounds the store lookups of one Recommend call. Zero disables it.
	Timeout time.Duration `json:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the standard scoring parameters.
func DefaultConfig() *Config {
	return &Config{
		BaseScore:        1,
		MinScore:         2,
		PromotionBoost:   1,
		MaxResults:       5,
		PreferencePolicy: PolicyLastWriteWins,
		Timeout:          5 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("recommend config: %w", err)
	}
	return nil
}
