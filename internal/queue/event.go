// Package queue defines message payloads exchanged over the message broker.
package queue

// AchievementAwardedEvent is published whenever a badge is persisted for a
// user. It carries everything downstream consumers need for logging or
// notifications without querying the primary database.
type AchievementAwardedEvent struct {
	AchievementID uint64 `json:"achievement_id"`
	UserID        uint64 `json:"user_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	AchievedAt    string `json:"achieved_at"`
}
