package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecotrack/carbon-tracker/internal/tips"
)

func TestSuggestions(t *testing.T) {
	s := Suggestions(42.0)
	require.Equal(t, 2, s.MonthlyTrees) // ceil(42/21)
	require.Equal(t, 42, s.RenewableCostINR)
	require.InDelta(t, 504.0, s.YearlyCO2, 1e-9)
	require.Equal(t, 24, s.YearlyTrees)  // ceil(504/21)
	require.Equal(t, 17, s.CyclingDays)  // ceil(42/2.5)
	require.Equal(t, 12, s.MeatFreeDays) // ceil(42/3.5)
}

func TestSuggestionsZeroMonth(t *testing.T) {
	s := Suggestions(0)
	require.Zero(t, s.MonthlyTrees)
	require.Zero(t, s.RenewableCostINR)
	require.Zero(t, s.CyclingDays)
	require.Zero(t, s.MeatFreeDays)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 12.35, Round2(12.345001))
	require.Equal(t, 12.34, Round2(12.344999))
}

func TestWritePDFProducesDocument(t *testing.T) {
	now := time.Date(2025, time.June, 17, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := WritePDF(&buf, Data{
		MonthName:   "June 2025",
		GeneratedAt: now,
		PeriodStart: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		TotalCO2:    42,
		Breakdown:   []tips.CategoryEmission{{Category: "transport", Count: 3, TotalCO2: 42}},
		Tips:        []tips.Tip{{Category: "transport", Message: "Take the train.", Priority: 1}},
		Offset:      Suggestions(42),
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
