// Package leaderboard ranks users by their current-week emissions. Lower
// total CO2 ranks better (golf scoring), and each ranked user receives a
// descriptive eco title derived from rank, goal status and activity
// volume.
package leaderboard

import "sort"

// DefaultWeeklyGoal is the ceiling assumed for users who never configured
// a weekly goal, used only for display/tier purposes.
const DefaultWeeklyGoal = 100

// Row is one user's aggregate over the current Sunday-based week, as
// produced by the activity store. WeeklyGoal is nil when the user has not
// set one.
type Row struct {
	UserID        uint64
	Name          string
	TotalCO2      float64
	ActivityCount int
	WeeklyGoal    *float64
}

// Entry is one ranked leaderboard line as served to clients.
type Entry struct {
	UserID   uint64  `json:"_id"`
	Name     string  `json:"name"`
	TotalCO2 float64 `json:"totalCO2"`
	Rank     int     `json:"rank"`
	EcoTitle string  `json:"ecoTitle"`
}

// Rank sorts rows ascending by total emissions, assigns 1-based ranks and
// eco titles, and returns the result. The sort is stable: rows with equal
// totals keep the order the aggregation produced them in (the store emits
// them ordered by each user's first activity in the window), so tie order
// is deterministic.
func Rank(rows []Row) []Entry {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCO2 < sorted[j].TotalCO2
	})

	entries := make([]Entry, len(sorted))
	for i, r := range sorted {
		goal := float64(DefaultWeeklyGoal)
		if r.WeeklyGoal != nil {
			goal = *r.WeeklyGoal
		}
		under := r.TotalCO2 <= goal
		entries[i] = Entry{
			UserID:   r.UserID,
			Name:     r.Name,
			TotalCO2: r.TotalCO2,
			Rank:     i + 1,
			EcoTitle: ecoTitle(i+1, under, r.ActivityCount),
		}
	}
	return entries
}

// ecoTitle picks the first matching tier, in priority order.
func ecoTitle(rank int, underGoal bool, activityCount int) string {
	switch {
	case rank == 1:
		return "Eco Champion"
	case underGoal:
		return "Eco Warrior"
	case activityCount >= 5:
		return "Eco Explorer"
	default:
		return "Eco Beginner"
	}
}
