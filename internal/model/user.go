package model

import "time"

// User represents an application user record as stored in the `users`
// table. Accounts are created in two phases: the send-otp endpoint inserts
// a bare row keyed by email, and registration fills in name and password
// once the email has been verified. The json tags are omitted here because
// these structs are primarily used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Name            – display name, set at registration (nullable before).
//  Email           – unique email address, stored lowercase.
//  PasswordHash    – bcrypt hashed password (nullable until registered).
//  HasLoggedIn     – set on the first successful login; gates the
//                    "First Login" badge.
//  WeeklyGoal      – CO2 ceiling in kg for a calendar week. Nullable: a
//                    missing goal disables goal-based badges entirely.
//  WeeklyGoalSetAt – when the current goal took effect. Redefining the
//                    goal moves this forward and resets the qualifying
//                    window for the dynamic badge.
//  OTP / OTPExpiry – pending one-time code for email verification or
//                    password reset (nullable when none outstanding).
//  IsVerified      – whether the email address has been confirmed.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type User struct {
	ID              uint64     // users.id
	Name            *string    // users.name (nullable)
	Email           string     // users.email
	PasswordHash    *string    // users.password_hash (nullable)
	HasLoggedIn     bool       // users.has_logged_in
	WeeklyGoal      *float64   // users.weekly_goal (nullable, kg CO2)
	WeeklyGoalSetAt *time.Time // users.weekly_goal_set_at (nullable)
	OTP             *string    // users.otp (nullable)
	OTPExpiry       *time.Time // users.otp_expiry (nullable)
	IsVerified      bool       // users.is_verified
	CreatedAt       time.Time  // users.created_at
	UpdatedAt       time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries metadata for expiry and
// revocation. The plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
