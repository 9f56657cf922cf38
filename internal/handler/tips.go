package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/tips"
)

type breakdownStore interface {
	CategoryBreakdown(ctx context.Context, userID uint64, from, to time.Time) ([]tips.CategoryEmission, error)
}

// TipsHandler serves personalized reduction tips weighted by the user's
// recent emission mix.
type TipsHandler struct {
	Activities breakdownStore
	Tips       tips.Store
	Now        func() time.Time
}

func NewTipsHandler(activities breakdownStore, store tips.Store) *TipsHandler {
	return &TipsHandler{Activities: activities, Tips: store, Now: func() time.Time { return time.Now().UTC() }}
}

// Get returns up to 5 tips drawn from the user's highest-emission
// categories this month so far, topped up with general tips.
func (h *TipsHandler) Get(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Now()
	breakdown, err := h.Activities.CategoryBreakdown(ctx, uid, monthStart(now), now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	selected, err := tips.Personalized(ctx, h.Tips, breakdown)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if selected == nil {
		selected = []tips.Tip{}
	}
	return c.JSON(http.StatusOK, echo.Map{"tips": selected})
}
