package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/observability"
	"github.com/ecotrack/carbon-tracker/internal/report"
	"github.com/ecotrack/carbon-tracker/internal/tips"
)

type reportActivityStore interface {
	SumRange(ctx context.Context, userID uint64, from, to time.Time) (float64, int, error)
	ListRange(ctx context.Context, userID uint64, from, to time.Time) ([]model.Activity, error)
	CategoryBreakdown(ctx context.Context, userID uint64, from, to time.Time) ([]tips.CategoryEmission, error)
}

// OffsetHandler serves the month-to-date offset summary and the
// downloadable monthly PDF report.
type OffsetHandler struct {
	Activities reportActivityStore
	Tips       tips.Store
	Now        func() time.Time
}

func NewOffsetHandler(activities reportActivityStore, store tips.Store) *OffsetHandler {
	return &OffsetHandler{Activities: activities, Tips: store, Now: func() time.Time { return time.Now().UTC() }}
}

// monthStart is the first instant of the month containing now.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// Summary returns offset estimates derived from the current month's
// emissions so far.
func (h *OffsetHandler) Summary(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Now()
	total, count, err := h.Activities.SumRange(ctx, uid, monthStart(now), now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	off := report.Suggestions(total)

	return c.JSON(http.StatusOK, echo.Map{
		"month":           now.Format("January 2006"),
		"totalCO2":        report.Round2(total),
		"activitiesCount": count,
		"offsets": echo.Map{
			"trees":                  off.MonthlyTrees,
			"renewableInvestmentINR": off.RenewableCostINR,
			"yearlyProjection": echo.Map{
				"co2":   report.Round2(off.YearlyCO2),
				"trees": off.YearlyTrees,
			},
			"lifestyle": echo.Map{
				"cyclingDays":  off.CyclingDays,
				"meatFreeDays": off.MeatFreeDays,
			},
		},
	})
}

// Report streams the month-to-date PDF report. The PDF library buffers
// internally and writes on output, so a render error after the header has
// been sent can only terminate the stream.
func (h *OffsetHandler) Report(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := h.Now()
	from := monthStart(now)

	total, _, err := h.Activities.SumRange(ctx, uid, from, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	activities, err := h.Activities.ListRange(ctx, uid, from, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	breakdown, err := h.Activities.CategoryBreakdown(ctx, uid, from, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	selected, err := tips.Personalized(ctx, h.Tips, breakdown)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	data := report.Data{
		MonthName:   now.Format("January 2006"),
		GeneratedAt: now,
		PeriodStart: from,
		TotalCO2:    total,
		Activities:  activities,
		Breakdown:   breakdown,
		Tips:        selected,
		Offset:      report.Suggestions(total),
	}

	filename := fmt.Sprintf("Carbon_Report_%d_%d.pdf", now.Year(), int(now.Month()))
	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)

	// The first byte written commits the 200; until then a render error
	// can still become a plain error response.
	if err := report.WritePDF(c.Response(), data); err != nil {
		log.Printf("report: render for user %d failed: %v", uid, err)
		if !c.Response().Committed {
			return c.String(http.StatusInternalServerError, "failed to generate report")
		}
		return err
	}
	observability.RecordReportGenerated()
	return nil
}
