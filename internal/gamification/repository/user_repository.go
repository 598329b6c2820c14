package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/xp"
)

// GetUser retrieves a user by id
func GetUser(userID uint) (*database.User, error) {
	var user database.User
	result := database.DB.First(&user, userID)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// CreateUser creates a new user row
func CreateUser(user *database.User) error {
	if user.Level == 0 {
		user.Level = 1
	}
	result := database.DB.Create(user)
	if result.Error != nil {
		return errors.Internal("failed to create user", result.Error.Error())
	}
	return nil
}

// LockUser loads the user row under SELECT ... FOR UPDATE so every
// concurrent completion for the same user serializes on it for the length
// of the transaction. SQLite has no row locks (the whole database write
// lock serializes transactions instead), so the clause is postgres-only.
func LockUser(tx *gorm.DB, userID uint) (*database.User, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user database.User
	result := query.First(&user, userID)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// AddExperience applies an XP delta as an atomic in-database increment and
// re-derives the level from the stored total. Returns the updated user.
func AddExperience(tx *gorm.DB, userID uint, amount int) (*database.User, error) {
	if amount < 0 {
		return nil, errors.Validation("experience award must not be negative", "")
	}

	result := tx.Model(&database.User{}).
		Where("id = ?", userID).
		UpdateColumn("experience", gorm.Expr("experience + ?", amount))
	if result.Error != nil {
		return nil, errors.Internal("failed to award experience", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return nil, errors.NotFound("user")
	}

	var user database.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, errors.Internal("failed to reload user", err.Error())
	}

	level := xp.Level(user.Experience)
	if level != user.Level {
		if err := tx.Model(&database.User{}).
			Where("id = ?", userID).
			UpdateColumn("level", level).Error; err != nil {
			return nil, errors.Internal("failed to update level", err.Error())
		}
		user.Level = level
	}

	return &user, nil
}

// UpdateActivityState stores the streak counters and last-active timestamp
// computed for this submission. The longest streak only ever grows.
func UpdateActivityState(tx *gorm.DB, userID uint, streakDays, longestStreak, winStreak int, lastActive time.Time) error {
	result := tx.Model(&database.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"streak_days":    streakDays,
			"longest_streak": longestStreak,
			"win_streak":     winStreak,
			"last_active_at": lastActive,
		})
	if result.Error != nil {
		return errors.Internal("failed to update activity state", result.Error.Error())
	}
	return nil
}

// GetLeaderboard retrieves the top users by cumulative experience.
func GetLeaderboard(limit int) ([]*models.LeaderboardEntry, error) {
	var users []database.User
	result := database.DB.
		Order("experience DESC, id ASC").
		Limit(limit).
		Find(&users)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch leaderboard", result.Error.Error())
	}

	entries := make([]*models.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = &models.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     u.ID,
			Username:   u.Username,
			Level:      u.Level,
			Experience: u.Experience,
		}
	}
	return entries, nil
}
