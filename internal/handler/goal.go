package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/repository"
)

// goalStore is the slice of the user repository the goal endpoints need.
type goalStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetWeeklyGoal(ctx context.Context, id uint64, goal float64, setAt time.Time) error
}

// GoalHandler serves the weekly CO2 goal endpoints.
type GoalHandler struct {
	Users goalStore
	Now   func() time.Time
}

func NewGoalHandler(users goalStore) *GoalHandler {
	return &GoalHandler{Users: users, Now: func() time.Time { return time.Now().UTC() }}
}

type setGoalReq struct {
	WeeklyGoal float64 `json:"weeklyGoal"`
}

// Get returns the user's current weekly goal; null when never set.
func (h *GoalHandler) Get(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"weeklyGoal": u.WeeklyGoal,
		"setAt":      u.WeeklyGoalSetAt,
	})
}

// Set replaces the weekly goal. The set-at stamp resets the qualifying
// window of the dynamic Going Green badge.
func (h *GoalHandler) Set(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	var req setGoalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.WeeklyGoal <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weeklyGoal must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Now()
	if err := h.Users.SetWeeklyGoal(ctx, uid, req.WeeklyGoal, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Weekly goal updated.",
		"weeklyGoal": req.WeeklyGoal,
		"setAt":      now,
	})
}
