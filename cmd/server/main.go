package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ecotrack/carbon-tracker/internal/achievement"
	"github.com/ecotrack/carbon-tracker/internal/config"
	"github.com/ecotrack/carbon-tracker/internal/database"
	"github.com/ecotrack/carbon-tracker/internal/handler"
	"github.com/ecotrack/carbon-tracker/internal/mailer"
	"github.com/ecotrack/carbon-tracker/internal/middleware"
	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/observability"
	"github.com/ecotrack/carbon-tracker/internal/queue"
	"github.com/ecotrack/carbon-tracker/internal/repository"
	"github.com/ecotrack/carbon-tracker/internal/router"
	"github.com/ecotrack/carbon-tracker/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	activities := repository.NewActivityRepo(db)
	achievements := repository.NewAchievementRepo(db)
	tipStore := repository.NewTipRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := achievement.NewEngine(users, activities, achievements)
	engine.Awarded = func(a model.Achievement) {
		observability.RecordAchievementAwarded(a.Title)
		ev := queue.AchievementAwardedEvent{
			AchievementID: a.ID,
			UserID:        a.UserID,
			Title:         a.Title,
			Description:   a.Description,
			AchievedAt:    a.AchievedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
		// Broker outages must not fail the request that earned the badge.
		if err := service.PublishAchievementAwarded(context.Background(), ev); err != nil {
			log.Printf("main: publish achievement event failed: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	authH := handler.NewAuthHandler(cfg, users, tokens, mailer.New(), engine)
	activityH := handler.NewActivityHandler(activities, users, engine)
	goalH := handler.NewGoalHandler(users)
	achievementH := handler.NewAchievementHandler(engine)
	offsetH := handler.NewOffsetHandler(activities, tipStore)
	tipsH := handler.NewTipsHandler(activities, tipStore)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAPI(e, router.API{
		JWT:       middleware.JWTAuth(cfg.JWTSecret),
		RateLimit: middleware.NewTokenBucket(rateCfg, rdb),
		Cache:     middleware.NewResponseCache(cacheCfg, rdb),
	}, activityH, goalH, achievementH, offsetH, tipsH)

	go func() {
		if err := queue.StartAchievementConsumer(); err != nil {
			log.Printf("main: achievement consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
