package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/repository"
	"github.com/skillforge/elearn-backend/pkg/metrics"
)

// EvaluateMetric scans the achievement catalog for one metric against an
// updated aggregate value and unlocks everything newly satisfied. The
// evaluator only compares; the caller supplies the aggregate. Every
// threshold crossed in a single call is unlocked and returned, in catalog
// order. The unique (user_id, achievement_id) index makes repeated or
// concurrent evaluation of the same value a no-op.
func EvaluateMetric(tx *gorm.DB, userID uint, metric models.MetricType, value int, now time.Time) ([]models.UnlockedAchievement, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	if value < 0 {
		return nil, errors.Validation("metric value must not be negative", "")
	}

	defs, err := repository.GetAchievementsByMetric(tx, metric)
	if err != nil {
		return nil, err
	}

	unlocked := make([]models.UnlockedAchievement, 0)
	for _, def := range defs {
		if value < def.Target {
			// Keep visible partial progress on pre-seeded unlock records.
			if err := repository.UpdateAchievementProgress(tx, userID, def.ID, value*100/def.Target); err != nil {
				return nil, err
			}
			continue
		}

		claimed, err := repository.ClaimAchievement(tx, userID, def.ID, now)
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}

		if def.XPReward > 0 {
			if _, err := repository.AddExperience(tx, userID, def.XPReward); err != nil {
				return nil, err
			}
		}

		metadata := fmt.Sprintf(`{"achievement_id":%d,"metric":%q,"target":%d,"xp_reward":%d}`,
			def.ID, def.Metric, def.Target, def.XPReward)
		if err := repository.AppendFeedEntry(tx, userID, "achievement_unlocked",
			fmt.Sprintf("Unlocked achievement %q", def.Title), metadata); err != nil {
			return nil, err
		}

		metrics.AchievementsUnlockedTotal.WithLabelValues(string(metric)).Inc()
		unlocked = append(unlocked, models.UnlockedAchievement{
			Title:    def.Title,
			XPReward: def.XPReward,
		})
	}

	return unlocked, nil
}

// GetAchievementCatalog returns every achievement definition.
func GetAchievementCatalog() ([]*models.Achievement, error) {
	return repository.GetAchievements()
}

// GetUserAchievements returns a user's completed unlock records.
func GetUserAchievements(userID uint) ([]models.UserAchievementResponse, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}

	records, err := repository.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserAchievementResponse, 0, len(records))
	for _, ua := range records {
		if !ua.Completed || ua.Achievement == nil {
			continue
		}
		responses = append(responses, models.UserAchievementResponse{
			ID:         ua.AchievementID,
			Title:      ua.Achievement.Title,
			Icon:       ua.Achievement.Icon,
			Category:   ua.Achievement.Category,
			XPReward:   ua.Achievement.XPReward,
			UnlockedAt: ua.CompletedAt,
		})
	}
	return responses, nil
}
