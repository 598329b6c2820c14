package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

// GetAchievements retrieves the full catalog in evaluation order.
func GetAchievements() ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	result := database.DB.Order("sort_order ASC, id ASC").Find(&achievements)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch achievements", result.Error.Error())
	}
	return achievements, nil
}

// GetAchievementsByMetric retrieves catalog entries for one metric, in
// evaluation order.
func GetAchievementsByMetric(tx *gorm.DB, metric models.MetricType) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	result := tx.Where("metric = ?", metric).
		Order("sort_order ASC, id ASC").
		Find(&achievements)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch achievements", result.Error.Error())
	}
	return achievements, nil
}

// GetUserAchievements retrieves a user's unlock records with their catalog
// entries.
func GetUserAchievements(userID uint) ([]*models.UserAchievement, error) {
	var achievements []*models.UserAchievement
	result := database.DB.
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("completed_at DESC").
		Find(&achievements)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch user achievements", result.Error.Error())
	}
	return achievements, nil
}

// ClaimAchievement marks an achievement completed for a user at most once.
// The insert relies on the unique (user_id, achievement_id) index with a
// do-nothing conflict clause, and a pre-seeded incomplete row is claimed
// with a guarded update, so two concurrent evaluations can never both win.
// Returns true when this call performed the unlock.
func ClaimAchievement(tx *gorm.DB, userID, achievementID uint, now time.Time) (bool, error) {
	ua := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		Progress:      100,
		Completed:     true,
		CompletedAt:   &now,
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(ua)
	if result.Error != nil {
		return false, errors.Internal("failed to unlock achievement", result.Error.Error())
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// A row already existed. Claim it only if it is still incomplete; the
	// WHERE clause makes the claim atomic.
	result = tx.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND completed = ?", userID, achievementID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
			"progress":     100,
		})
	if result.Error != nil {
		return false, errors.Internal("failed to unlock achievement", result.Error.Error())
	}
	return result.RowsAffected > 0, nil
}

// UpdateAchievementProgress refreshes the 0-100 progress on an existing
// incomplete unlock record. Records are created lazily at unlock time, so a
// missing row is not an error.
func UpdateAchievementProgress(tx *gorm.DB, userID, achievementID uint, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	result := tx.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND completed = ?", userID, achievementID, false).
		UpdateColumn("progress", progress)
	if result.Error != nil {
		return errors.Internal("failed to update achievement progress", result.Error.Error())
	}
	return nil
}

// CreateAchievement adds a catalog entry.
func CreateAchievement(achievement *models.Achievement) (uint, error) {
	result := database.DB.Create(achievement)
	if result.Error != nil {
		return 0, errors.Internal("failed to create achievement", result.Error.Error())
	}
	return achievement.ID, nil
}

// SeedAchievements initializes the fixed achievement catalog.
func SeedAchievements() error {
	achievements := []models.Achievement{
		{Title: "First Steps", Description: "Complete your first module", Icon: "🎯", XPReward: 25, Category: "milestone", Metric: models.MetricModulesCompleted, Target: 1, SortOrder: 1},
		{Title: "Getting Started", Description: "Complete 5 modules", Icon: "🚀", XPReward: 50, Category: "milestone", Metric: models.MetricModulesCompleted, Target: 5, SortOrder: 2},
		{Title: "Course Crusher", Description: "Complete 10 modules", Icon: "🏆", XPReward: 100, Category: "milestone", Metric: models.MetricModulesCompleted, Target: 10, SortOrder: 3},
		{Title: "On Fire", Description: "Keep a 3-day streak", Icon: "🔥", XPReward: 25, Category: "streak", Metric: models.MetricStreakDays, Target: 3, SortOrder: 4},
		{Title: "Blazing", Description: "Keep a 7-day streak", Icon: "🌟", XPReward: 100, Category: "streak", Metric: models.MetricStreakDays, Target: 7, SortOrder: 5},
		{Title: "Unstoppable", Description: "Keep a 30-day streak", Icon: "👑", XPReward: 500, Category: "streak", Metric: models.MetricStreakDays, Target: 30, SortOrder: 6},
		{Title: "Perfect Score", Description: "Score 100% on a quiz", Icon: "💯", XPReward: 50, Category: "perfection", Metric: models.MetricScoreAchieved, Target: 100, SortOrder: 7},
		{Title: "Quiz Rookie", Description: "Play 10 quizzes", Icon: "🎮", XPReward: 30, Category: "engagement", Metric: models.MetricGamesPlayed, Target: 10, SortOrder: 8},
		{Title: "Quiz Veteran", Description: "Play 50 quizzes", Icon: "🕹️", XPReward: 150, Category: "engagement", Metric: models.MetricGamesPlayed, Target: 50, SortOrder: 9},
		{Title: "Hot Hand", Description: "Win 5 quizzes in a row", Icon: "⚡", XPReward: 75, Category: "perfection", Metric: models.MetricWinStreak, Target: 5, SortOrder: 10},
		{Title: "Bookworm", Description: "Study for 60 minutes total", Icon: "📚", XPReward: 40, Category: "engagement", Metric: models.MetricStudyTimeMinutes, Target: 60, SortOrder: 11},
		{Title: "Scholar", Description: "Study for 600 minutes total", Icon: "🎓", XPReward: 200, Category: "engagement", Metric: models.MetricStudyTimeMinutes, Target: 600, SortOrder: 12},
		{Title: "Social Butterfly", Description: "Add 5 friends", Icon: "🦋", XPReward: 30, Category: "social", Metric: models.MetricFriendsAdded, Target: 5, SortOrder: 13},
	}

	for _, achievement := range achievements {
		result := database.DB.FirstOrCreate(&achievement, models.Achievement{Title: achievement.Title})
		if result.Error != nil {
			return result.Error
		}
	}

	return nil
}
