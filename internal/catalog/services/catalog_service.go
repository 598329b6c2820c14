package services

import (
	"github.com/skillforge/elearn-backend/internal/catalog/models"
	"github.com/skillforge/elearn-backend/internal/catalog/repository"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	gamification "github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/xp"
)

// GetCatalog lists published content, each item annotated with the base XP
// its first completion is worth.
func GetCatalog(filter models.CatalogFilter) ([]models.CatalogItemResponse, error) {
	if filter.ContentType != "" && !gamification.ContentType(filter.ContentType).Valid() {
		return nil, errors.BadRequest("unknown content type: " + filter.ContentType)
	}

	items, err := repository.GetCatalogItems(filter)
	if err != nil {
		return nil, err
	}

	responses := make([]models.CatalogItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, models.CatalogItemResponse{
			CatalogItem: *item,
			XPReward:    xp.BaseReward(item.ContentType),
		})
	}
	return responses, nil
}

// GetCatalogItem fetches one content item by type and slug.
func GetCatalogItem(contentType, contentID string) (*models.CatalogItemResponse, error) {
	ct := gamification.ContentType(contentType)
	if !ct.Valid() {
		return nil, errors.BadRequest("unknown content type: " + contentType)
	}
	if contentID == "" {
		return nil, errors.BadRequest("content id is required")
	}

	item, err := repository.GetCatalogItem(ct, contentID)
	if err != nil {
		return nil, err
	}
	return &models.CatalogItemResponse{
		CatalogItem: *item,
		XPReward:    xp.BaseReward(item.ContentType),
	}, nil
}
