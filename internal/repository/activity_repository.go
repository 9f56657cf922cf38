package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ecotrack/carbon-tracker/internal/leaderboard"
	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/tips"
)

// ActivityRepo mirrors the 'activities' table.
//
//	CREATE TABLE activities (
//	  id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	  user_id          BIGINT UNSIGNED NOT NULL REFERENCES users(id),
//	  type             VARCHAR(16) NOT NULL,
//	  travel_mode      VARCHAR(16) NULL,
//	  distance_km      DOUBLE NULL,
//	  usage_kwh        DOUBLE NULL,
//	  diet_type        VARCHAR(16) NULL,
//	  carbon_footprint DOUBLE NOT NULL,
//	  created_at       DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
//	  KEY idx_user_created (user_id, created_at)
//	)
//
// Rows are immutable after insert; created_at is authoritative for all
// week and month windowing.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Create inserts the activity and fills in its generated id.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO activities (user_id, type, travel_mode, distance_km, usage_kwh, diet_type, carbon_footprint, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.UserID, a.Type, a.TravelMode, a.DistanceKM, a.UsageKWH, a.DietType, a.CarbonFootprint, a.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// CountByUser returns the user's lifetime activity count (milestones).
func (r *ActivityRepo) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activities WHERE user_id=?", userID).Scan(&n)
	return n, err
}

// SumRange returns the total footprint and activity count for the user's
// activities with created_at in [from, to].
func (r *ActivityRepo) SumRange(ctx context.Context, userID uint64, from, to time.Time) (float64, int, error) {
	var total float64
	var count int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(carbon_footprint),0), COUNT(*) FROM activities WHERE user_id=? AND created_at BETWEEN ? AND ?",
		userID, from, to).Scan(&total, &count)
	return total, count, err
}

const activityColumns = "id,user_id,type,travel_mode,distance_km,usage_kwh,diet_type,carbon_footprint,created_at"

func scanActivities(rows *sql.Rows) ([]model.Activity, error) {
	defer rows.Close()
	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.TravelMode, &a.DistanceKM,
			&a.UsageKWH, &a.DietType, &a.CarbonFootprint, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByUser returns all of the user's activities, newest first.
func (r *ActivityRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

// ListRange returns the user's activities with created_at in [from, to],
// newest first (monthly report).
func (r *ActivityRepo) ListRange(ctx context.Context, userID uint64, from, to time.Time) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE user_id=? AND created_at BETWEEN ? AND ? ORDER BY created_at DESC, id DESC",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	return scanActivities(rows)
}

// CategoryBreakdown aggregates the user's window per activity type,
// sorted descending by emissions (tip prioritization).
func (r *ActivityRepo) CategoryBreakdown(ctx context.Context, userID uint64, from, to time.Time) ([]tips.CategoryEmission, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT type, COUNT(*), SUM(carbon_footprint)
		 FROM activities WHERE user_id=? AND created_at BETWEEN ? AND ?
		 GROUP BY type ORDER BY SUM(carbon_footprint) DESC`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []tips.CategoryEmission
	for rows.Next() {
		var c tips.CategoryEmission
		if err := rows.Scan(&c.Category, &c.Count, &c.TotalCO2); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LeaderboardRows aggregates every user's activities inside the window
// and joins display name and weekly goal. Rows come back ordered by each
// user's first activity in the window, so the ranker's stable sort keeps
// that order for equal totals.
func (r *ActivityRepo) LeaderboardRows(ctx context.Context, from, to time.Time) ([]leaderboard.Row, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT a.user_id, COALESCE(u.name, u.email), SUM(a.carbon_footprint), COUNT(*), u.weekly_goal
		 FROM activities a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.created_at BETWEEN ? AND ?
		 GROUP BY a.user_id, u.name, u.email, u.weekly_goal
		 ORDER BY MIN(a.created_at) ASC`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []leaderboard.Row
	for rows.Next() {
		var row leaderboard.Row
		if err := rows.Scan(&row.UserID, &row.Name, &row.TotalCO2, &row.ActivityCount, &row.WeeklyGoal); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
