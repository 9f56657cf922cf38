package model

import "time"

// Achievement is a permanent badge in the `achievements` table. The title
// acts as a natural dedup key scoped per user: the table carries
// UNIQUE KEY uq_user_title (user_id, title), so at most one row can ever
// exist for a given (user, title) pair regardless of concurrent awards.
// Rows are never updated or deleted once created.
type Achievement struct {
	ID          uint64    // achievements.id
	UserID      uint64    // achievements.user_id
	Title       string    // achievements.title
	Description string    // achievements.description
	AchievedAt  time.Time // achievements.achieved_at
}

// Tip is one actionable suggestion in the `tips` table, keyed by activity
// category ("transport", "electricity", "diet" or "general").
type Tip struct {
	ID       uint64 // tips.id
	Category string // tips.category
	Message  string // tips.message
}
