package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	cataloghandlers "github.com/skillforge/elearn-backend/internal/catalog/handlers"
	catalogmodels "github.com/skillforge/elearn-backend/internal/catalog/models"
	"github.com/skillforge/elearn-backend/internal/common/database"
	commonhandlers "github.com/skillforge/elearn-backend/internal/common/handlers"
	"github.com/skillforge/elearn-backend/internal/common/health"
	"github.com/skillforge/elearn-backend/internal/common/middleware"
	gamehandlers "github.com/skillforge/elearn-backend/internal/gamification/handlers"
	gamemodels "github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/pkg/config"
	"github.com/skillforge/elearn-backend/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := migrate(); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Info("starting server",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.String("db_type", cfg.Database.Type))

	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func migrate() error {
	return database.DB.AutoMigrate(
		&database.User{},
		&gamemodels.ProgressRecord{},
		&gamemodels.Achievement{},
		&gamemodels.UserAchievement{},
		&gamemodels.ActivityFeedEntry{},
		&catalogmodels.CatalogItem{},
	)
}

func setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	healthHandler := commonhandlers.NewHealthHandler(health.NewHealthChecker(database.DB, version))
	router.GET("/health", healthHandler.Health)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/health/detailed", healthHandler.Detailed)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	catalog := api.Group("/catalog")
	{
		catalog.GET("", cataloghandlers.GetCatalog)
		catalog.GET("/:contentType/:contentId", cataloghandlers.GetCatalogItem)
		catalog.POST("/seed", cataloghandlers.SeedCatalog)
	}

	api.GET("/achievements", gamehandlers.GetAchievements)
	api.POST("/achievements/seed", gamehandlers.SeedAchievements)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/progress/complete", gamehandlers.CompleteActivity)
		authed.GET("/progress", gamehandlers.GetUserProgress)
		authed.GET("/achievements/user", gamehandlers.GetUserAchievements)
		authed.GET("/profile", gamehandlers.GetGamificationProfile)
		authed.GET("/activity", gamehandlers.GetActivityFeed)
	}

	api.GET("/leaderboard", gamehandlers.GetLeaderboard)

	return router
}
