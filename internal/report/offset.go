// Package report computes monthly offset suggestions and renders the
// monthly carbon report PDF.
package report

import "math"

// Offset conversion constants. All are rough awareness-level averages.
const (
	kgPerTreePerYear   = 21.0  // one tree absorbs ~21 kg CO2 a year
	costINRPerTonCO2   = 1000  // renewable investment, INR per ton
	kgSavedPerCycleDay = 2.5   // cycling a 10 km commute instead of driving
	kgSavedPerMeatFree = 3.5   // one meat-free day
)

// OffsetSuggestions are the derived offset estimates for one month's
// emissions, plus the yearly projection based on that month.
type OffsetSuggestions struct {
	MonthlyTrees     int
	RenewableCostINR int
	YearlyCO2        float64
	YearlyTrees      int
	CyclingDays      int
	MeatFreeDays     int
}

// Suggestions derives offset estimates from a month's total kg CO2.
func Suggestions(totalCO2 float64) OffsetSuggestions {
	yearly := totalCO2 * 12
	return OffsetSuggestions{
		MonthlyTrees:     int(math.Ceil(totalCO2 / kgPerTreePerYear)),
		RenewableCostINR: int(math.Round(totalCO2 / 1000 * costINRPerTonCO2)),
		YearlyCO2:        yearly,
		YearlyTrees:      int(math.Ceil(yearly / kgPerTreePerYear)),
		CyclingDays:      int(math.Ceil(totalCO2 / kgSavedPerCycleDay)),
		MeatFreeDays:     int(math.Ceil(totalCO2 / kgSavedPerMeatFree)),
	}
}

// Round2 rounds a kg figure to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
