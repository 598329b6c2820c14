package repository

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/skillforge/elearn-backend/internal/catalog/models"
	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	gamification "github.com/skillforge/elearn-backend/internal/gamification/models"
)

// GetCatalogItems lists published catalog items matching the filter.
func GetCatalogItems(filter models.CatalogFilter) ([]*models.CatalogItem, error) {
	var items []*models.CatalogItem

	query := database.DB.Where("published = ?", true)
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	if err := query.Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return nil, errors.Internal("failed to fetch catalog", err.Error())
	}
	return items, nil
}

// GetCatalogItem fetches one item by content type and slug.
func GetCatalogItem(contentType gamification.ContentType, contentID string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := database.DB.Where("content_type = ? AND content_id = ?", contentType, contentID).First(&item).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("catalog item")
		}
		return nil, errors.Internal("failed to fetch catalog item", err.Error())
	}
	return &item, nil
}

// SeedCatalog inserts the starter content set. Existing items are left
// untouched, keyed on (content_type, content_id).
func SeedCatalog() error {
	items := []models.CatalogItem{
		{ContentType: gamification.ContentLesson, ContentID: "go-basics-01", Title: "Variables and Types", Category: "go", Difficulty: "beginner", EstimatedMinutes: 15, SortOrder: 1},
		{ContentType: gamification.ContentLesson, ContentID: "go-basics-02", Title: "Control Flow", Category: "go", Difficulty: "beginner", EstimatedMinutes: 20, SortOrder: 2},
		{ContentType: gamification.ContentLesson, ContentID: "go-basics-03", Title: "Functions and Methods", Category: "go", Difficulty: "beginner", EstimatedMinutes: 25, SortOrder: 3},
		{ContentType: gamification.ContentQuiz, ContentID: "go-basics-quiz", Title: "Go Basics Checkpoint", Category: "go", Difficulty: "beginner", EstimatedMinutes: 10, SortOrder: 4},
		{ContentType: gamification.ContentAssignment, ContentID: "go-basics-project", Title: "Build a CLI Tool", Category: "go", Difficulty: "intermediate", EstimatedMinutes: 60, SortOrder: 5},
		{ContentType: gamification.ContentModule, ContentID: "go-basics", Title: "Go Fundamentals", Category: "go", Difficulty: "beginner", EstimatedMinutes: 130, SortOrder: 6},
		{ContentType: gamification.ContentLesson, ContentID: "sql-intro-01", Title: "Relational Data", Category: "sql", Difficulty: "beginner", EstimatedMinutes: 15, SortOrder: 7},
		{ContentType: gamification.ContentQuiz, ContentID: "sql-intro-quiz", Title: "SQL Intro Checkpoint", Category: "sql", Difficulty: "beginner", EstimatedMinutes: 10, SortOrder: 8},
		{ContentType: gamification.ContentModule, ContentID: "sql-intro", Title: "SQL Introduction", Category: "sql", Difficulty: "beginner", EstimatedMinutes: 45, SortOrder: 9},
	}

	for _, item := range items {
		err := database.DB.Where("content_type = ? AND content_id = ?", item.ContentType, item.ContentID).
			FirstOrCreate(&item).Error
		if err != nil {
			return errors.Internal("failed to seed catalog", err.Error())
		}
	}
	return nil
}
