package services

import (
	"time"

	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/repository"
	"github.com/skillforge/elearn-backend/internal/gamification/xp"
)

// GetGamificationProfile returns a user's level, XP, streak and unlocked
// achievements.
func GetGamificationProfile(userID uint) (*models.GamificationProfileResponse, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}

	user, err := repository.GetUser(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := GetUserAchievements(userID)
	if err != nil {
		achievements = make([]models.UserAchievementResponse, 0)
	}

	return &models.GamificationProfileResponse{
		UserID:        user.ID,
		Username:      user.Username,
		Level:         user.Level,
		Experience:    user.Experience,
		XPToNextLevel: xp.ToNextLevel(user.Experience),
		StreakDays:    user.StreakDays,
		LongestStreak: user.LongestStreak,
		Achievements:  achievements,
	}, nil
}

// GetLeaderboard returns the top users by experience.
func GetLeaderboard(limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := repository.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	return &models.LeaderboardResponse{
		Entries:   entries,
		UpdatedAt: time.Now(),
	}, nil
}

// GetActivityFeed returns a user's most recent gamification events.
func GetActivityFeed(userID uint, limit int) ([]*models.ActivityFeedEntry, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return repository.GetUserFeed(userID, limit)
}

// GetUserProgress lists all of a user's progress records.
func GetUserProgress(userID uint) ([]*models.ProgressRecord, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	return repository.GetUserProgress(userID)
}
