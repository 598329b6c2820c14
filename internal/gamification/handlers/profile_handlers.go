package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/elearn-backend/internal/common/middleware"
	"github.com/skillforge/elearn-backend/internal/gamification/services"
)

// GetGamificationProfile returns the caller's gamification status
// GET /api/v1/profile
func GetGamificationProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	profile, err := services.GetGamificationProfile(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetLeaderboard returns the top users by experience
// GET /api/v1/leaderboard?limit=10
func GetLeaderboard(c *gin.Context) {
	limit := 10
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	leaderboard, err := services.GetLeaderboard(limit)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// GetActivityFeed returns the caller's recent gamification events
// GET /api/v1/activity?limit=20
func GetActivityFeed(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	limit := 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	feed, err := services.GetActivityFeed(userID, limit)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}
