package achievement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/week"
)

// In-memory stores mimicking the repository contracts, including the
// unique-key conflict on (user, title).

type fakeUsers struct {
	users map[uint64]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %d not found", id)
	}
	return u, nil
}

type fakeActivities struct {
	activities []model.Activity
}

func (f *fakeActivities) add(userID uint64, footprint float64, at time.Time) {
	f.activities = append(f.activities, model.Activity{
		ID: uint64(len(f.activities) + 1), UserID: userID,
		Type: model.ActivityTransport, CarbonFootprint: footprint, CreatedAt: at,
	})
}

func (f *fakeActivities) CountByUser(_ context.Context, userID uint64) (int64, error) {
	var n int64
	for _, a := range f.activities {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivities) SumRange(_ context.Context, userID uint64, from, to time.Time) (float64, int, error) {
	var total float64
	var count int
	for _, a := range f.activities {
		if a.UserID != userID || a.CreatedAt.Before(from) || a.CreatedAt.After(to) {
			continue
		}
		total += a.CarbonFootprint
		count++
	}
	return total, count, nil
}

type fakeAchievements struct {
	rows   []model.Achievement
	nextID uint64
}

func (f *fakeAchievements) ListByUser(_ context.Context, userID uint64) ([]model.Achievement, error) {
	var out []model.Achievement
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAchievements) HasTitle(_ context.Context, userID uint64, title string) (bool, error) {
	for _, a := range f.rows {
		if a.UserID == userID && a.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAchievements) Create(_ context.Context, a *model.Achievement) error {
	for _, existing := range f.rows {
		if existing.UserID == a.UserID && existing.Title == a.Title {
			return ErrDuplicate
		}
	}
	f.nextID++
	a.ID = f.nextID
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAchievements) titles(userID uint64) map[string]int {
	out := map[string]int{}
	for _, a := range f.rows {
		if a.UserID == userID {
			out[a.Title]++
		}
	}
	return out
}

func newTestEngine(goal *float64, goalSetAt *time.Time) (*Engine, *fakeActivities, *fakeAchievements) {
	users := &fakeUsers{users: map[uint64]model.User{
		1: {ID: 1, Email: "a@example.com", WeeklyGoal: goal, WeeklyGoalSetAt: goalSetAt},
	}}
	acts := &fakeActivities{}
	achs := &fakeAchievements{}
	return NewEngine(users, acts, achs), acts, achs
}

func fptr(v float64) *float64     { return &v }
func tptr(t time.Time) *time.Time { return &t }

// Tuesday 2025-06-17; its Monday week starts 2025-06-16.
var tuesday = time.Date(2025, time.June, 17, 10, 0, 0, 0, time.UTC)

func TestMilestonesMatchActivityCount(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want []string
	}{
		{0, nil},
		{1, []string{"First Step"}},
		{4, []string{"First Step"}},
		{5, []string{"First Step", "Getting Greener"}},
		{9, []string{"First Step", "Getting Greener"}},
		{10, []string{"First Step", "Getting Greener", "Eco Tracker"}},
		{12, []string{"First Step", "Getting Greener", "Eco Tracker"}},
	} {
		engine, acts, achs := newTestEngine(nil, nil)
		for i := 0; i < tc.n; i++ {
			acts.add(1, 1.0, tuesday.Add(time.Duration(i)*time.Minute))
			_, err := engine.CheckMilestones(context.Background(), 1, tuesday)
			require.NoError(t, err)
		}
		got := achs.titles(1)
		require.Len(t, got, len(tc.want), "n=%d", tc.n)
		for _, title := range tc.want {
			require.Equal(t, 1, got[title], "n=%d title=%q", tc.n, title)
		}
	}
}

func TestMilestonesSingleInsertCrossesSeveralThresholds(t *testing.T) {
	// Milestones were never evaluated while the first 6 activities piled
	// up; one pass must backfill both missing badges.
	engine, acts, achs := newTestEngine(nil, nil)
	for i := 0; i < 6; i++ {
		acts.add(1, 1.0, tuesday)
	}
	awarded, err := engine.CheckMilestones(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Len(t, awarded, 2)
	require.Equal(t, map[string]int{"First Step": 1, "Getting Greener": 1}, achs.titles(1))
}

func TestMilestonesNeverDuplicate(t *testing.T) {
	engine, acts, achs := newTestEngine(nil, nil)
	for i := 0; i < 11; i++ {
		acts.add(1, 1.0, tuesday)
		_, err := engine.CheckMilestones(context.Background(), 1, tuesday)
		require.NoError(t, err)
	}
	require.Equal(t, 1, achs.titles(1)["Eco Tracker"])
}

func TestFirstLoginIsIdempotent(t *testing.T) {
	engine, _, achs := newTestEngine(nil, nil)

	a, err := engine.AwardFirstLogin(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, "First Login", a.Title)

	again, err := engine.AwardFirstLogin(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, again)
	require.Equal(t, 1, achs.titles(1)["First Login"])
}

func TestAwardTreatsStoreConflictAsNoOp(t *testing.T) {
	// Simulate the losing side of a concurrent award: the existence check
	// misses but the insert hits the unique key.
	engine, _, achs := newTestEngine(nil, nil)
	achs.rows = append(achs.rows, model.Achievement{ID: 99, UserID: 1, Title: "First Login"})

	// Bypass the fast path by asking the store directly.
	err := achs.Create(context.Background(), &model.Achievement{UserID: 1, Title: "First Login"})
	require.ErrorIs(t, err, ErrDuplicate)

	a, err := engine.AwardFirstLogin(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestGoingGreenAppearsAndDisappears(t *testing.T) {
	monday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	engine, acts, _ := newTestEngine(fptr(50), tptr(monday))

	acts.add(1, 30, tuesday)
	entries, err := engine.List(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Going Green", entries[0].Title)
	require.True(t, entries[0].IsDynamic)
	require.Equal(t, "dynamic-going-green", entries[0].ID)

	// A second activity pushes the window total to 55 > 50: the badge is
	// gone on the very next read.
	acts.add(1, 25, tuesday.Add(2*time.Hour))
	entries, err = engine.List(context.Background(), 1, tuesday.Add(3*time.Hour))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGoingGreenRequiresGoalAndActivity(t *testing.T) {
	// No goal configured: nothing dynamic, ever.
	engine, acts, _ := newTestEngine(nil, nil)
	acts.add(1, 1, tuesday)
	entries, err := engine.List(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, entries)

	// Goal set but zero qualifying activities: still nothing.
	engine, _, _ = newTestEngine(fptr(50), tptr(tuesday))
	entries, err = engine.List(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGoingGreenWindowResetsWhenGoalIsRedefined(t *testing.T) {
	// 40 kg logged Tuesday morning would bust a 30 kg goal, but the goal
	// was set Tuesday noon, so only the 10 kg afternoon activity counts.
	goalSetAt := tuesday.Add(2 * time.Hour)
	engine, acts, _ := newTestEngine(fptr(30), tptr(goalSetAt))
	acts.add(1, 40, tuesday)
	acts.add(1, 10, tuesday.Add(4*time.Hour))

	entries, err := engine.List(context.Background(), 1, tuesday.Add(6*time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Going Green", entries[0].Title)
}

func TestWeeklyChampionAwardAndNoOpRepeat(t *testing.T) {
	engine, acts, achs := newTestEngine(fptr(100), nil)
	prev := week.PrevMondayRange(tuesday)
	weekID := week.Identifier(prev.Start)
	acts.add(1, 50, prev.Start.Add(24*time.Hour))
	acts.add(1, 30, prev.Start.Add(48*time.Hour))

	a, err := engine.AwardWeeklyChampion(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Contains(t, a.Title, weekID)
	require.Contains(t, a.Description, "80.00")

	again, err := engine.AwardWeeklyChampion(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, again)
	require.Equal(t, 1, achs.titles(1)[a.Title])
}

func TestWeeklyChampionSkipConditions(t *testing.T) {
	prev := week.PrevMondayRange(tuesday)

	// No weekly goal.
	engine, acts, _ := newTestEngine(nil, nil)
	acts.add(1, 10, prev.Start.Add(time.Hour))
	a, err := engine.AwardWeeklyChampion(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Nil(t, a)

	// Zero activities in the previous week (current-week ones don't count).
	engine, acts, _ = newTestEngine(fptr(100), nil)
	acts.add(1, 10, tuesday)
	a, err = engine.AwardWeeklyChampion(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Nil(t, a)

	// Emissions above the goal.
	engine, acts, _ = newTestEngine(fptr(100), nil)
	acts.add(1, 120, prev.Start.Add(time.Hour))
	a, err = engine.AwardWeeklyChampion(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestListSortsDescendingWithDynamicFirst(t *testing.T) {
	monday := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	engine, acts, achs := newTestEngine(fptr(50), tptr(monday))
	acts.add(1, 5, tuesday)

	require.NoError(t, achs.Create(context.Background(), &model.Achievement{
		UserID: 1, Title: "First Step", Description: "Logged your first activity!",
		AchievedAt: tuesday.Add(-48 * time.Hour),
	}))
	require.NoError(t, achs.Create(context.Background(), &model.Achievement{
		UserID: 1, Title: "First Login", Description: "Welcome!",
		AchievedAt: tuesday.Add(-24 * time.Hour),
	}))

	entries, err := engine.List(context.Background(), 1, tuesday.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "Going Green", entries[0].Title) // stamped now, sorts first
	require.Equal(t, "First Login", entries[1].Title)
	require.Equal(t, "First Step", entries[2].Title)
}

func TestAwardedHookFires(t *testing.T) {
	engine, acts, _ := newTestEngine(nil, nil)
	var seen []string
	engine.Awarded = func(a model.Achievement) { seen = append(seen, a.Title) }

	acts.add(1, 1, tuesday)
	_, err := engine.CheckMilestones(context.Background(), 1, tuesday)
	require.NoError(t, err)
	require.Equal(t, []string{"First Step"}, seen)
}
