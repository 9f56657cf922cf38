// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecotrack/carbon-tracker/internal/handler"
	"github.com/ecotrack/carbon-tracker/internal/middleware"
)

// RegisterRoutes registers the unauthenticated infrastructure endpoints:
// the liveness probe and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the signup, login and password-reset endpoints
// under /api/auth. None of them require a session; /api/auth/me is the
// exception and carries its own JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/send-otp", a.SendOTP)
	g.POST("/verify-otp", a.VerifyOTP)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/verify-forgot-otp", a.VerifyForgotOTP)
	g.POST("/reset-password", a.ResetPassword)

	e.GET("/api/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// API groups the middleware applied to every protected /api route.
type API struct {
	JWT       echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterAPI registers the protected application endpoints under /api.
// All of them require a valid access token and pass through the rate
// limiter; the leaderboard additionally sits behind the response cache
// because it aggregates every user's week on each request.
func RegisterAPI(e *echo.Echo, api API,
	activities *handler.ActivityHandler,
	goals *handler.GoalHandler,
	achievements *handler.AchievementHandler,
	offsets *handler.OffsetHandler,
	tips *handler.TipsHandler,
) {
	g := e.Group("/api", api.JWT, api.RateLimit)

	g.POST("/activities", activities.Create)
	g.GET("/activities/my", activities.My)
	g.GET("/activities/weekly-summary", activities.WeeklySummary)
	g.GET("/activities/leaderboard", activities.Leaderboard, api.Cache)

	g.GET("/goals", goals.Get)
	g.POST("/goals", goals.Set)

	g.GET("/achievements", achievements.Get)

	g.GET("/offset/summary", offsets.Summary)
	g.GET("/offset/report", offsets.Report)

	g.GET("/tips", tips.Get)
}
