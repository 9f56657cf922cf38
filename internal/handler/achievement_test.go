package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
	"github.com/ecotrack/carbon-tracker/internal/model"
)

func TestGetAchievementsMergesDynamicBadge(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC) // Wednesday
	goal := 50.0
	setAt := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC) // Monday of that week

	activities := &fakeActivities{items: []model.Activity{
		{UserID: 1, CarbonFootprint: 20, CreatedAt: now.AddDate(0, 0, -1)},
	}}
	users := &fakeUsers{users: map[uint64]model.User{
		1: {ID: 1, WeeklyGoal: &goal, WeeklyGoalSetAt: &setAt},
	}}
	badges := &fakeAchievements{items: []model.Achievement{
		{ID: 7, UserID: 1, Title: "First Login", Description: "welcome", AchievedAt: now.AddDate(0, 0, -3)},
	}}

	h := NewAchievementHandler(achievement.NewEngine(users, activities, badges))
	h.Now = func() time.Time { return now }

	rec := doJSON(t, h.Get, http.MethodGet, "/api/achievements", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success      bool                `json:"success"`
		Achievements []achievement.Entry `json:"achievements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Achievements, 2)
	require.Equal(t, "Going Green", resp.Achievements[0].Title)
	require.True(t, resp.Achievements[0].IsDynamic)
	require.Equal(t, "First Login", resp.Achievements[1].Title)
	require.Equal(t, "7", resp.Achievements[1].ID)
}

func TestGetAchievementsEmpty(t *testing.T) {
	users := &fakeUsers{users: map[uint64]model.User{1: {ID: 1}}}
	h := NewAchievementHandler(achievement.NewEngine(users, &fakeActivities{}, &fakeAchievements{}))

	rec := doJSON(t, h.Get, http.MethodGet, "/api/achievements", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Achievements []achievement.Entry `json:"achievements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Achievements)
	require.Empty(t, resp.Achievements)
}
