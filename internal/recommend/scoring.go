// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomtom215/salesdesk/internal/models"
)

// FoldPreferences collapses preference rows into category -> level.
// prefs must be in ascending ID order.
func FoldPreferences(prefs []models.CustomerPreference, policy PreferencePolicy) map[string]int {
	folded := make(map[string]int, len(prefs))
	for _, p := range prefs {
		if policy == PolicyMax {
			if cur, ok := folded[p.Category]; ok && cur >= p.PreferenceLevel {
				continue
			}
		}
		folded[p.Category] = p.PreferenceLevel
	}
	return folded
}

// DiscountedPrice applies a percentage discount and rounds half away from
// zero to two decimals.
func DiscountedPrice(price, discountPercentage float64) float64 {
	return math.Round(price*(1-discountPercentage/100)*100) / 100
}

// score ranks candidates. Candidates and promotions must be in ID order.
func (c *Config) score(
	candidates []models.Product,
	purchased map[int]struct{},
	prefs map[string]int,
	promotions []models.Promotion,
) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]
		if _, bought := purchased[p.ID]; bought {
			continue
		}

		score := c.BaseScore
		if level, ok := prefs[p.Category]; ok {
			score += level
		}

		details := []models.PromotionDetail{}
		for j := range promotions {
			promo := &promotions[j]
			if !promo.AppliesTo(p.Category) {
				continue
			}
			score += c.PromotionBoost
			details = append(details, models.PromotionDetail{
				ID:                 promo.ID,
				Name:               promo.Name,
				Description:        promo.Description,
				DiscountPercentage: promo.DiscountPercentage,
				DiscountedPrice:    DiscountedPrice(p.Price, promo.DiscountPercentage),
			})
		}

		if score < c.MinScore {
			continue
		}
		out = append(out, models.Recommendation{
			ProductID:   p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Price:       p.Price,
			Score:       score,
			Promotions:  details,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Recommendation) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > c.MaxResults {
		out = out[:c.MaxResults]
	}
	return out
}
