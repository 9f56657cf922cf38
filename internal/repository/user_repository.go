package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ecotrack/carbon-tracker/internal/model"
)

// UserRepo mirrors the 'users' table.
//
//	CREATE TABLE users (
//	  id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//	  name               VARCHAR(120) NULL,
//	  email              VARCHAR(255) NOT NULL UNIQUE,
//	  password_hash      VARCHAR(100) NULL,
//	  has_logged_in      TINYINT(1) NOT NULL DEFAULT 0,
//	  weekly_goal        DOUBLE NULL,
//	  weekly_goal_set_at DATETIME(3) NULL,
//	  otp                VARCHAR(6) NULL,
//	  otp_expiry         DATETIME(3) NULL,
//	  is_verified        TINYINT(1) NOT NULL DEFAULT 0,
//	  created_at         DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
//	  updated_at         DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)
//	)
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,has_logged_in,weekly_goal,weekly_goal_set_at,otp,otp_expiry,is_verified,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.HasLoggedIn,
		&u.WeeklyGoal, &u.WeeklyGoalSetAt, &u.OTP, &u.OTPExpiry, &u.IsVerified,
		&u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpsertOTP stores a fresh OTP for the email, creating an unverified user
// row on first contact. Returns the user id.
func (r *UserRepo) UpsertOTP(ctx context.Context, email, otp string, expiry time.Time) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, otp, otp_expiry) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE otp=VALUES(otp), otp_expiry=VALUES(otp_expiry), id=LAST_INSERT_ID(id)`,
		email, otp, expiry)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// MarkVerified marks the email as confirmed and clears the pending OTP.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=1, otp=NULL, otp_expiry=NULL WHERE id=?", id)
	return err
}

// ClearOTP drops the pending OTP without touching verification state,
// used after a password reset completes.
func (r *UserRepo) ClearOTP(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET otp=NULL, otp_expiry=NULL WHERE id=?", id)
	return err
}

// CompleteRegistration sets the display name and password hash on a
// verified user row.
func (r *UserRepo) CompleteRegistration(ctx context.Context, id uint64, name, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, password_hash=? WHERE id=?", name, passwordHash, id)
	return err
}

// SetPassword replaces the password hash (password reset flow).
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// MarkLoggedIn records that the user has logged in at least once.
func (r *UserRepo) MarkLoggedIn(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET has_logged_in=1 WHERE id=?", id)
	return err
}

// SetWeeklyGoal replaces the weekly goal and stamps when it took effect.
// The stamp resets the dynamic badge's qualifying window.
func (r *UserRepo) SetWeeklyGoal(ctx context.Context, id uint64, goal float64, setAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET weekly_goal=?, weekly_goal_set_at=? WHERE id=?", goal, setAt, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports 0 affected rows for no-change updates too, so
		// confirm the row is actually missing before reporting ErrNotFound.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
