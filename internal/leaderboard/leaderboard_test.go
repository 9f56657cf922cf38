package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func goal(v float64) *float64 { return &v }

func TestRankAscendingByEmissions(t *testing.T) {
	// Aggregation order: A first (earliest activity), then B, then C.
	rows := []Row{
		{UserID: 1, Name: "A", TotalCO2: 10, ActivityCount: 2},
		{UserID: 2, Name: "B", TotalCO2: 5, ActivityCount: 1},
		{UserID: 3, Name: "C", TotalCO2: 5, ActivityCount: 1},
	}
	entries := Rank(rows)
	require.Len(t, entries, 3)

	// Ties keep aggregation order: B before C.
	require.Equal(t, uint64(2), entries[0].UserID)
	require.Equal(t, uint64(3), entries[1].UserID)
	require.Equal(t, uint64(1), entries[2].UserID)
	require.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	require.True(t, entries[0].TotalCO2 <= entries[1].TotalCO2)
	require.True(t, entries[1].TotalCO2 <= entries[2].TotalCO2)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	rows := []Row{
		{UserID: 1, TotalCO2: 9},
		{UserID: 2, TotalCO2: 3},
	}
	Rank(rows)
	require.Equal(t, uint64(1), rows[0].UserID)
}

func TestEcoTitlePriorityLadder(t *testing.T) {
	// Rank 1 wins regardless of goal status.
	rows := []Row{
		{UserID: 1, TotalCO2: 500, ActivityCount: 1, WeeklyGoal: goal(10)},
	}
	require.Equal(t, "Eco Champion", Rank(rows)[0].EcoTitle)

	rows = []Row{
		{UserID: 1, TotalCO2: 1, ActivityCount: 1},
		{UserID: 2, TotalCO2: 40, ActivityCount: 2, WeeklyGoal: goal(50)}, // under goal
		{UserID: 3, TotalCO2: 60, ActivityCount: 7, WeeklyGoal: goal(50)}, // over goal, busy
		{UserID: 4, TotalCO2: 200, ActivityCount: 2, WeeklyGoal: goal(50)},
	}
	entries := Rank(rows)
	require.Equal(t, "Eco Champion", entries[0].EcoTitle)
	require.Equal(t, "Eco Warrior", entries[1].EcoTitle)
	require.Equal(t, "Eco Explorer", entries[2].EcoTitle)
	require.Equal(t, "Eco Beginner", entries[3].EcoTitle)
}

func TestDefaultGoalAppliesWhenUnset(t *testing.T) {
	rows := []Row{
		{UserID: 1, TotalCO2: 1, ActivityCount: 1},
		{UserID: 2, TotalCO2: 99, ActivityCount: 1}, // under the default 100
		{UserID: 3, TotalCO2: 101, ActivityCount: 1},
	}
	entries := Rank(rows)
	require.Equal(t, "Eco Warrior", entries[1].EcoTitle)
	require.Equal(t, "Eco Beginner", entries[2].EcoTitle)
}
