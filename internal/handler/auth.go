package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
	"github.com/ecotrack/carbon-tracker/internal/config"
	"github.com/ecotrack/carbon-tracker/internal/mailer"
	"github.com/ecotrack/carbon-tracker/internal/observability"
	"github.com/ecotrack/carbon-tracker/internal/repository"
	"github.com/ecotrack/carbon-tracker/internal/utils"
)

// AuthHandler bundles dependencies for the OTP-based signup flow, login,
// token refresh and password reset.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Mailer *mailer.Mailer
	Engine *achievement.Engine
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m *mailer.Mailer, e *achievement.Engine) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mailer: m, Engine: e}
}

// ----- DTOs -----

type emailReq struct {
	Email string `json:"email"`
}
type verifyOTPReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type resetPasswordReq struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendOTP starts signup: it creates (or refreshes) the pending user row
// keyed by email and mails a 6-digit verification code.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	expiry := time.Now().UTC().Add(time.Duration(h.Cfg.OTPTTLMin) * time.Minute)
	if _, err := h.Users.UpsertOTP(ctx, email, code, expiry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store code failed"})
	}

	if err := h.Mailer.SendOTP(email, code, "verification"); err != nil {
		log.Printf("auth: send verification mail to %s failed: %v", email, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send mail failed"})
	}
	observability.RecordOTPMailSent()

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to email."})
}

// VerifyOTP confirms the emailed code and marks the address verified.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/otp required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired OTP"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !otpMatches(u.OTP, u.OTPExpiry, req.OTP) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired OTP"})
	}

	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully."})
}

// Register completes signup for a verified email: it validates the
// password policy and stores name and hash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	if !utils.ValidPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "password must be at least 8 characters with an uppercase letter, a lowercase letter and a special character",
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email not verified"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email not verified"})
	}
	if u.PasswordHash != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.CompleteRegistration(ctx, u.ID, name, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Registration successful. Please log in."})
}

// Login verifies credentials and returns a token pair. The first
// successful login flips has_logged_in and grants the First Login badge;
// every login re-checks last week's Weekly Champion so users who log
// activities late in a week still get the badge.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == nil || !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	now := time.Now().UTC()
	if !u.HasLoggedIn {
		if err := h.Users.MarkLoggedIn(ctx, u.ID); err != nil {
			log.Printf("auth: mark logged in for user %d failed: %v", u.ID, err)
		}
		if _, err := h.Engine.AwardFirstLogin(ctx, u.ID, now); err != nil {
			log.Printf("auth: first login badge for user %d failed: %v", u.ID, err)
		}
	}
	if _, err := h.Engine.AwardWeeklyChampion(ctx, u.ID, now); err != nil {
		log.Printf("auth: weekly champion check for user %d failed: %v", u.ID, err)
	}

	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Name: name, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates the presented token by hash, revokes it and issues a
// fresh pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Name: name, Email: u.Email},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out."})
}

// ForgotPassword mails a reset code to an existing account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration not completed"})
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}
	expiry := time.Now().UTC().Add(time.Duration(h.Cfg.OTPTTLMin) * time.Minute)
	if _, err := h.Users.UpsertOTP(ctx, email, code, expiry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store code failed"})
	}

	if err := h.Mailer.SendOTP(email, code, "password reset"); err != nil {
		log.Printf("auth: send reset mail to %s failed: %v", email, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send mail failed"})
	}
	observability.RecordOTPMailSent()

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset OTP sent to email."})
}

// VerifyForgotOTP checks a reset code without consuming it, so the client
// can gate the new-password form.
func (h *AuthHandler) VerifyForgotOTP(c echo.Context) error {
	var req verifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/otp required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil || !otpMatches(u.OTP, u.OTPExpiry, req.OTP) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired OTP"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP verified."})
}

// ResetPassword re-verifies the reset code, replaces the password and
// revokes every active session.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.OTP == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/otp/newPassword required"})
	}
	if !utils.ValidPassword(req.NewPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "password must be at least 8 characters with an uppercase letter, a lowercase letter and a special character",
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil || !otpMatches(u.OTP, u.OTPExpiry, req.OTP) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired OTP"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.SetPassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Users.ClearOTP(ctx, u.ID); err != nil {
		log.Printf("auth: clear otp for user %d failed: %v", u.ID, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		log.Printf("auth: revoke sessions for user %d failed: %v", u.ID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful. Please log in."})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := authedUser(c)
	if err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"name":       name,
		"email":      u.Email,
		"weeklyGoal": u.WeeklyGoal,
		"createdAt":  u.CreatedAt,
	})
}

// otpMatches checks a pending code against the stored one and its expiry.
func otpMatches(stored *string, expiry *time.Time, presented string) bool {
	if stored == nil || expiry == nil {
		return false
	}
	return *stored == presented && time.Now().UTC().Before(*expiry)
}
