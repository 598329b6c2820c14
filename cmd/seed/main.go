// Command seed initializes the database schema and loads the starter
// achievement catalog, learning content and a few demo users.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	catalogmodels "github.com/skillforge/elearn-backend/internal/catalog/models"
	catalogrepo "github.com/skillforge/elearn-backend/internal/catalog/repository"
	"github.com/skillforge/elearn-backend/internal/common/database"
	gamemodels "github.com/skillforge/elearn-backend/internal/gamification/models"
	gamerepo "github.com/skillforge/elearn-backend/internal/gamification/repository"
	"github.com/skillforge/elearn-backend/pkg/config"
	"github.com/skillforge/elearn-backend/pkg/logger"
)

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

	err = database.DB.AutoMigrate(
		&database.User{},
		&gamemodels.ProgressRecord{},
		&gamemodels.Achievement{},
		&gamemodels.UserAchievement{},
		&gamemodels.ActivityFeedEntry{},
		&catalogmodels.CatalogItem{},
	)
	if err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	if err := gamerepo.SeedAchievements(); err != nil {
		logger.Error("failed to seed achievements", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("achievement catalog seeded")

	if err := catalogrepo.SeedCatalog(); err != nil {
		logger.Error("failed to seed catalog", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("content catalog seeded")

	if err := seedDemoUsers(); err != nil {
		logger.Error("failed to seed demo users", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("demo users seeded")
}

func seedDemoUsers() error {
	users := []database.User{
		{Username: "demo", Email: "demo@skillforge.dev", DisplayName: "Demo Learner", Level: 1},
		{Username: "ada", Email: "ada@skillforge.dev", DisplayName: "Ada", Level: 1},
		{Username: "linus", Email: "linus@skillforge.dev", DisplayName: "Linus", Level: 1},
	}

	for _, user := range users {
		err := database.DB.Where("username = ?", user.Username).FirstOrCreate(&user).Error
		if err != nil {
			return err
		}
	}
	return nil
}
