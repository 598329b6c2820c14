package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/elearn-backend/internal/common/middleware"
	"github.com/skillforge/elearn-backend/internal/gamification/repository"
	"github.com/skillforge/elearn-backend/internal/gamification/services"
)

// GetAchievements returns the full achievement catalog
// GET /api/v1/achievements
func GetAchievements(c *gin.Context) {
	achievements, err := services.GetAchievementCatalog()
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, achievements)
}

// GetUserAchievements returns the caller's unlocked achievements
// GET /api/v1/achievements/user
func GetUserAchievements(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	achievements, err := services.GetUserAchievements(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, achievements)
}

// SeedAchievements initializes the achievement catalog
// POST /api/v1/achievements/seed
func SeedAchievements(c *gin.Context) {
	if err := repository.SeedAchievements(); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "achievements seeded successfully"})
}
