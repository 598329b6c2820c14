package models

import (
	"time"

	gamification "github.com/skillforge/elearn-backend/internal/gamification/models"
)

// CatalogItem is one piece of learning content a user can complete. The
// ContentID is the stable slug progress records reference.
type CatalogItem struct {
	ID               uint                     `json:"id" gorm:"primaryKey"`
	ContentType      gamification.ContentType `json:"content_type" gorm:"not null;uniqueIndex:idx_catalog_content"`
	ContentID        string                   `json:"content_id" gorm:"not null;uniqueIndex:idx_catalog_content"`
	Title            string                   `json:"title" gorm:"not null"`
	Description      string                   `json:"description"`
	Category         string                   `json:"category"`
	Difficulty       string                   `json:"difficulty" gorm:"default:beginner"`
	EstimatedMinutes int                      `json:"estimated_minutes" gorm:"default:10"`
	SortOrder        int                      `json:"sort_order" gorm:"default:0"`
	Published        bool                     `json:"published" gorm:"default:true"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// CatalogFilter narrows a catalog listing.
type CatalogFilter struct {
	ContentType string `form:"content_type"`
	Category    string `form:"category"`
	Difficulty  string `form:"difficulty"`
}

// CatalogItemResponse is a catalog item annotated with the XP its completion
// is worth.
type CatalogItemResponse struct {
	CatalogItem
	XPReward int `json:"xp_reward"`
}
