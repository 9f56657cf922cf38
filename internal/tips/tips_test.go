package tips

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecotrack/carbon-tracker/internal/model"
)

type fakeStore struct {
	perCategory map[string][]model.Tip
}

func (f *fakeStore) ByCategory(_ context.Context, category string, limit int) ([]model.Tip, error) {
	tips := f.perCategory[category]
	if len(tips) > limit {
		tips = tips[:limit]
	}
	return tips, nil
}

func stocked(category string, n int) []model.Tip {
	out := make([]model.Tip, n)
	for i := range out {
		out[i] = model.Tip{ID: uint64(i + 1), Category: category, Message: fmt.Sprintf("%s tip %d", category, i+1)}
	}
	return out
}

func TestDistribution(t *testing.T) {
	require.Equal(t, []int{5}, Distribution(1))
	require.Equal(t, []int{3, 2}, Distribution(2))
	require.Equal(t, []int{2, 2, 1}, Distribution(3))
	require.Equal(t, []int{2, 2, 1}, Distribution(4))
}

func TestPersonalizedWeightsTopCategory(t *testing.T) {
	store := &fakeStore{perCategory: map[string][]model.Tip{
		"transport":   stocked("transport", 5),
		"diet":        stocked("diet", 5),
		"electricity": stocked("electricity", 5),
	}}
	got, err := Personalized(context.Background(), store, []CategoryEmission{
		{Category: "transport", TotalCO2: 50},
		{Category: "diet", TotalCO2: 20},
		{Category: "electricity", TotalCO2: 5},
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, "transport", got[0].Category)
	require.Equal(t, 1, got[0].Priority)
	require.Equal(t, "electricity", got[4].Category)
	require.Equal(t, 3, got[4].Priority)
}

func TestPersonalizedTopsUpFromGeneral(t *testing.T) {
	store := &fakeStore{perCategory: map[string][]model.Tip{
		"transport": stocked("transport", 1), // too few for its quota of 5
		"general":   stocked("general", 10),
	}}
	got, err := Personalized(context.Background(), store, []CategoryEmission{
		{Category: "transport", TotalCO2: 50},
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, "transport", got[0].Category)
	for _, tip := range got[1:] {
		require.Equal(t, "general", tip.Category)
		require.Equal(t, 2, tip.Priority)
	}
}

func TestPersonalizedNoActivityFallsBackToGeneral(t *testing.T) {
	store := &fakeStore{perCategory: map[string][]model.Tip{
		"general": stocked("general", 7),
	}}
	got, err := Personalized(context.Background(), store, nil)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, tip := range got {
		require.Equal(t, "general", tip.Category)
		require.Equal(t, 1, tip.Priority)
	}
}
