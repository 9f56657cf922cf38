package repository

import (
	"context"
	"database/sql"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
	"github.com/ecotrack/carbon-tracker/internal/model"
)

// AchievementRepo mirrors the 'achievements' table.
//
//	CREATE TABLE achievements (
//	  id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	  user_id     BIGINT UNSIGNED NOT NULL REFERENCES users(id),
//	  title       VARCHAR(64) NOT NULL,
//	  description VARCHAR(255) NOT NULL,
//	  achieved_at DATETIME(3) NOT NULL,
//	  UNIQUE KEY uq_user_title (user_id, title)
//	)
//
// The unique key is what makes awards race-free: two requests crossing the
// same milestone concurrently both pass the existence lookup, but only one
// insert succeeds and the loser gets achievement.ErrDuplicate.
type AchievementRepo struct{ DB *sql.DB }

func NewAchievementRepo(db *sql.DB) *AchievementRepo { return &AchievementRepo{DB: db} }

// ListByUser returns all persisted achievements of the user.
func (r *AchievementRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Achievement, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,title,description,achieved_at FROM achievements WHERE user_id=? ORDER BY achieved_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.AchievedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// HasTitle reports whether the user already holds the badge.
func (r *AchievementRepo) HasTitle(ctx context.Context, userID uint64, title string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM achievements WHERE user_id=? AND title=? LIMIT 1", userID, title).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts the achievement, filling in its generated id. A unique
// key collision on (user_id, title) is reported as
// achievement.ErrDuplicate so the engine can treat it as already awarded.
func (r *AchievementRepo) Create(ctx context.Context, a *model.Achievement) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO achievements (user_id, title, description, achieved_at) VALUES (?,?,?,?)",
		a.UserID, a.Title, a.Description, a.AchievedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return achievement.ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
