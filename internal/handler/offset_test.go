package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/tips"
)

func (f *fakeActivities) ListRange(_ context.Context, userID uint64, from, to time.Time) ([]model.Activity, error) {
	var out []model.Activity
	for _, a := range f.items {
		if a.UserID == userID && !a.CreatedAt.Before(from) && !a.CreatedAt.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivities) CategoryBreakdown(_ context.Context, userID uint64, from, to time.Time) ([]tips.CategoryEmission, error) {
	byType := map[string]*tips.CategoryEmission{}
	var order []string
	for _, a := range f.items {
		if a.UserID != userID || a.CreatedAt.Before(from) || a.CreatedAt.After(to) {
			continue
		}
		c, ok := byType[a.Type]
		if !ok {
			c = &tips.CategoryEmission{Category: a.Type}
			byType[a.Type] = c
			order = append(order, a.Type)
		}
		c.Count++
		c.TotalCO2 += a.CarbonFootprint
	}
	var out []tips.CategoryEmission
	for _, t := range order {
		out = append(out, *byType[t])
	}
	return out, nil
}

type fakeTips struct{ byCategory map[string][]model.Tip }

func (f *fakeTips) ByCategory(_ context.Context, category string, limit int) ([]model.Tip, error) {
	items := f.byCategory[category]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func TestOffsetSummaryShape(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	activities := &fakeActivities{items: []model.Activity{
		{UserID: 1, Type: "transport", CarbonFootprint: 30, CreatedAt: now.AddDate(0, 0, -1)},
		{UserID: 1, Type: "diet", CarbonFootprint: 12, CreatedAt: now.AddDate(0, 0, -6)},
		{UserID: 1, Type: "transport", CarbonFootprint: 99, CreatedAt: now.AddDate(0, -2, 0)}, // previous month
	}}
	h := NewOffsetHandler(activities, &fakeTips{})
	h.Now = func() time.Time { return now }

	rec := doJSON(t, h.Summary, http.MethodGet, "/api/offset/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Month           string  `json:"month"`
		TotalCO2        float64 `json:"totalCO2"`
		ActivitiesCount int     `json:"activitiesCount"`
		Offsets         struct {
			Trees                  int `json:"trees"`
			RenewableInvestmentINR int `json:"renewableInvestmentINR"`
			YearlyProjection       struct {
				CO2   float64 `json:"co2"`
				Trees int     `json:"trees"`
			} `json:"yearlyProjection"`
			Lifestyle struct {
				CyclingDays  int `json:"cyclingDays"`
				MeatFreeDays int `json:"meatFreeDays"`
			} `json:"lifestyle"`
		} `json:"offsets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "June 2025", resp.Month)
	require.InDelta(t, 42.0, resp.TotalCO2, 1e-9)
	require.Equal(t, 2, resp.ActivitiesCount)
	require.Equal(t, 2, resp.Offsets.Trees)
	require.Equal(t, 42, resp.Offsets.RenewableInvestmentINR)
	require.InDelta(t, 504.0, resp.Offsets.YearlyProjection.CO2, 1e-9)
	require.Equal(t, 24, resp.Offsets.YearlyProjection.Trees)
	require.Equal(t, 17, resp.Offsets.Lifestyle.CyclingDays)
	require.Equal(t, 12, resp.Offsets.Lifestyle.MeatFreeDays)
}
