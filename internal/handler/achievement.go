package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
)

// AchievementHandler serves the merged badge view.
type AchievementHandler struct {
	Engine *achievement.Engine
	Now    func() time.Time
}

func NewAchievementHandler(engine *achievement.Engine) *AchievementHandler {
	return &AchievementHandler{Engine: engine, Now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the user's persisted badges plus the recomputed dynamic
// Going Green entry, newest first.
func (h *AchievementHandler) Get(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, err := h.Engine.List(ctx, uid, h.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entries == nil {
		entries = []achievement.Entry{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"achievements": entries,
	})
}
