package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/elearn-backend/internal/catalog/models"
	"github.com/skillforge/elearn-backend/internal/catalog/repository"
	"github.com/skillforge/elearn-backend/internal/catalog/services"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/common/middleware"
)

// GetCatalog lists learning content
// GET /api/v1/catalog?content_type=QUIZ&category=go&difficulty=beginner
func GetCatalog(c *gin.Context) {
	var filter models.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid query parameters", err.Error()))
		return
	}

	items, err := services.GetCatalog(filter)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// GetCatalogItem fetches one content item
// GET /api/v1/catalog/:contentType/:contentId
func GetCatalogItem(c *gin.Context) {
	item, err := services.GetCatalogItem(c.Param("contentType"), c.Param("contentId"))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// SeedCatalog initializes the starter content set
// POST /api/v1/catalog/seed
func SeedCatalog(c *gin.Context) {
	if err := repository.SeedCatalog(); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "catalog seeded successfully"})
}
