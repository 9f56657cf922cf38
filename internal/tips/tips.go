// Package tips selects personalized reduction tips, weighting categories
// by how much the user emitted in each.
package tips

import (
	"context"

	"github.com/ecotrack/carbon-tracker/internal/model"
)

// Store fetches stored tips by category.
type Store interface {
	ByCategory(ctx context.Context, category string, limit int) ([]model.Tip, error)
}

// Tip is one selected suggestion with its source category and priority
// (1 = highest-emission category).
type Tip struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// CategoryEmission is one activity category's aggregate for the period,
// expected sorted descending by TotalCO2.
type CategoryEmission struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	TotalCO2 float64 `json:"totalCO2"`
}

// Distribution returns how many tips to draw from each of the user's
// top emission categories; it always sums to 5.
func Distribution(categoryCount int) []int {
	switch {
	case categoryCount <= 1:
		return []int{5}
	case categoryCount == 2:
		return []int{3, 2}
	default:
		return []int{2, 2, 1}
	}
}

// Personalized returns exactly up to 5 tips: first drawn from the user's
// highest-emission categories per Distribution, then topped up from the
// "general" category when a category has too few stored tips. With no
// activity at all it falls back to 5 general tips.
func Personalized(ctx context.Context, s Store, sorted []CategoryEmission) ([]Tip, error) {
	if len(sorted) == 0 {
		general, err := s.ByCategory(ctx, "general", 5)
		if err != nil {
			return nil, err
		}
		out := make([]Tip, 0, len(general))
		for _, tip := range general {
			out = append(out, Tip{Category: tip.Category, Message: tip.Message, Priority: 1})
		}
		return out, nil
	}

	dist := Distribution(len(sorted))
	out := make([]Tip, 0, 5)
	needed := 0
	for i := 0; i < len(dist) && i < len(sorted); i++ {
		needed += dist[i]
		categoryTips, err := s.ByCategory(ctx, sorted[i].Category, dist[i])
		if err != nil {
			return nil, err
		}
		for _, tip := range categoryTips {
			out = append(out, Tip{Category: tip.Category, Message: tip.Message, Priority: i + 1})
		}
	}

	if len(out) < needed {
		general, err := s.ByCategory(ctx, "general", needed-len(out))
		if err != nil {
			return nil, err
		}
		for _, tip := range general {
			out = append(out, Tip{Category: tip.Category, Message: tip.Message, Priority: len(sorted) + 1})
		}
	}
	return out, nil
}
