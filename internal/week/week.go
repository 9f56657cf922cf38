// Package week computes calendar week boundaries and week identifiers.
//
// Two week-start conventions coexist in this application and are kept
// deliberately separate: achievement evaluation (Weekly Champion, the
// dynamic Going Green badge) uses Monday-based weeks, while the weekly
// summary and the leaderboard use Sunday-based weeks. Callers pick the
// function matching their convention; nothing here consults the wall
// clock, every function takes the reference instant explicitly.
package week

import (
	"fmt"
	"time"
)

// Range is a closed week interval. Start is the first day at 00:00:00.000
// and End the last day at 23:59:59.999, both in the location of the
// reference instant.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MondayRange returns the Monday-to-Sunday week containing now.
func MondayRange(now time.Time) Range {
	diff := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		diff = 6
	}
	start := dayStart(now.AddDate(0, 0, -diff))
	return Range{Start: start, End: dayEnd(start.AddDate(0, 0, 6))}
}

// PrevMondayRange returns the fully completed Monday-based week directly
// before the one containing now.
func PrevMondayRange(now time.Time) Range {
	cur := MondayRange(now)
	start := cur.Start.AddDate(0, 0, -7)
	return Range{Start: start, End: dayEnd(start.AddDate(0, 0, 6))}
}

// SundayRange returns the Sunday-to-Saturday week containing now.
func SundayRange(now time.Time) Range {
	start := dayStart(now.AddDate(0, 0, -int(now.Weekday())))
	return Range{Start: start, End: dayEnd(start.AddDate(0, 0, 6))}
}

// Identifier returns the "YYYY-Www" identifier of the Monday-based week
// containing t. The ordinal is derived from the day-of-year offset of the
// week's Monday, so every date from that Monday through the following
// Sunday yields the same string.
func Identifier(t time.Time) string {
	monday := MondayRange(t).Start
	startOfYear := time.Date(monday.Year(), time.January, 1, 0, 0, 0, 0, monday.Location())
	days := int(monday.Sub(startOfYear) / (24 * time.Hour))
	weekNumber := (days+int(startOfYear.Weekday())+1+6) / 7 // ceil((days+wday+1)/7)
	return fmt.Sprintf("%d-W%02d", monday.Year(), weekNumber)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
