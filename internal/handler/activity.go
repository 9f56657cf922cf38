package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
	"github.com/ecotrack/carbon-tracker/internal/emission"
	"github.com/ecotrack/carbon-tracker/internal/leaderboard"
	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/observability"
	"github.com/ecotrack/carbon-tracker/internal/report"
	"github.com/ecotrack/carbon-tracker/internal/week"
)

// activityStore is the slice of the activity repository these endpoints
// need. The interface keeps the handler testable with in-memory fakes.
type activityStore interface {
	Create(ctx context.Context, a *model.Activity) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Activity, error)
	SumRange(ctx context.Context, userID uint64, from, to time.Time) (float64, int, error)
	LeaderboardRows(ctx context.Context, from, to time.Time) ([]leaderboard.Row, error)
}

type activityUserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ActivityHandler serves activity logging, history, the weekly summary
// and the leaderboard.
type ActivityHandler struct {
	Activities activityStore
	Users      activityUserStore
	Engine     *achievement.Engine
	Now        func() time.Time
}

func NewActivityHandler(activities activityStore, users activityUserStore, engine *achievement.Engine) *ActivityHandler {
	return &ActivityHandler{
		Activities: activities,
		Users:      users,
		Engine:     engine,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

type createActivityReq struct {
	Type string          `json:"type"`
	Data emission.Params `json:"data"`
}

type activityResp struct {
	ID              uint64    `json:"id"`
	Type            string    `json:"type"`
	TravelMode      *string   `json:"travelMode,omitempty"`
	DistanceKM      *float64  `json:"distance,omitempty"`
	UsageKWH        *float64  `json:"usage,omitempty"`
	DietType        *string   `json:"dietType,omitempty"`
	CarbonFootprint float64   `json:"carbonFootprint"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toActivityResp(a model.Activity) activityResp {
	return activityResp{
		ID:              a.ID,
		Type:            a.Type,
		TravelMode:      a.TravelMode,
		DistanceKM:      a.DistanceKM,
		UsageKWH:        a.UsageKWH,
		DietType:        a.DietType,
		CarbonFootprint: a.CarbonFootprint,
		CreatedAt:       a.CreatedAt,
	}
}

// Create computes the footprint, persists the activity and runs the
// badge checks that depend on activity counts and weekly totals. Badge
// failures are logged, never surfaced: the activity is already stored.
func (h *ActivityHandler) Create(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	var req createActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	footprint, err := emission.Compute(req.Type, req.Data)
	if err != nil {
		if errors.Is(err, emission.ErrInvalidActivityType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid activity type."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute failed"})
	}

	now := h.Now()
	a := model.Activity{
		UserID:          uid,
		Type:            req.Type,
		CarbonFootprint: footprint,
		CreatedAt:       now,
	}
	switch req.Type {
	case model.ActivityTransport:
		mode, dist := req.Data.Mode, req.Data.Distance
		a.TravelMode, a.DistanceKM = &mode, &dist
	case model.ActivityElectricity:
		usage := req.Data.Usage
		a.UsageKWH = &usage
	case model.ActivityDiet:
		diet := req.Data.DietType
		a.DietType = &diet
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Activities.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save activity failed"})
	}
	observability.RecordActivityCreated(a.Type)

	if _, err := h.Engine.CheckMilestones(ctx, uid, now); err != nil {
		log.Printf("activity: milestone check for user %d failed: %v", uid, err)
	}
	if _, err := h.Engine.AwardWeeklyChampion(ctx, uid, now); err != nil {
		log.Printf("activity: weekly champion check for user %d failed: %v", uid, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"activity":        toActivityResp(a),
		"carbonFootprint": report.Round2(footprint),
		"suggestion":      emission.Suggestion(req.Type),
	})
}

// My lists the authenticated user's activities, newest first.
func (h *ActivityHandler) My(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	activities, err := h.Activities.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]activityResp, 0, len(activities))
	for _, a := range activities {
		out = append(out, toActivityResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": out})
}

// WeeklySummary totals the current Sunday-based week so far and compares
// it to the user's goal (default 100 kg when unset).
func (h *ActivityHandler) WeeklySummary(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Now()
	total, _, err := h.Activities.SumRange(ctx, uid, week.SundayRange(now).Start, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	goal := float64(leaderboard.DefaultWeeklyGoal)
	if u, err := h.Users.GetByID(ctx, uid); err == nil && u.WeeklyGoal != nil {
		goal = *u.WeeklyGoal
	}

	status := "under"
	if total > goal {
		status = "over"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":  report.Round2(total),
		"goal":   goal,
		"status": status,
	})
}

// Leaderboard ranks everyone by current-week emissions, lowest first.
func (h *ActivityHandler) Leaderboard(c echo.Context) error {
	if _, err := authedUser(c); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	r := week.SundayRange(h.Now())
	rows, err := h.Activities.LeaderboardRows(ctx, r.Start, r.End)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"leaderboard": leaderboard.Rank(rows)})
}
