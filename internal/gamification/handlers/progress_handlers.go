package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/common/middleware"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/services"
)

// currentUserID resolves the authenticated user id from the context.
func currentUserID(c *gin.Context) (uint, error) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return 0, errors.Unauthorized("missing or invalid authentication")
	}

	switch v := userIDValue.(type) {
	case uint:
		return v, nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, errors.Unauthorized("invalid user id")
		}
		return uint(parsed), nil
	default:
		return 0, errors.Unauthorized("invalid user id")
	}
}

// CompleteActivity records one learning-activity submission and returns the
// updated record plus the reward breakdown.
// POST /api/v1/progress/complete
func CompleteActivity(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	var req models.CompleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid request body", err.Error()))
		return
	}

	resp, err := services.CompleteActivity(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUserProgress lists the caller's progress records
// GET /api/v1/progress
func GetUserProgress(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	records, err := services.GetUserProgress(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"progress": records,
		"total":    len(records),
	})
}
