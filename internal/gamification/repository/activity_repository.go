package repository

import (
	"gorm.io/gorm"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

// AppendFeedEntry writes one append-only feed record. Entries are never
// mutated after creation.
func AppendFeedEntry(tx *gorm.DB, userID uint, eventType, description, metadata string) error {
	entry := &models.ActivityFeedEntry{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		Metadata:    metadata,
	}

	result := tx.Create(entry)
	if result.Error != nil {
		return errors.Internal("failed to append feed entry", result.Error.Error())
	}
	return nil
}

// GetUserFeed retrieves a user's most recent feed entries.
func GetUserFeed(userID uint, limit int) ([]*models.ActivityFeedEntry, error) {
	var entries []*models.ActivityFeedEntry
	result := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch activity feed", result.Error.Error())
	}
	return entries, nil
}
