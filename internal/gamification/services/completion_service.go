package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/common/validation"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/repository"
	"github.com/skillforge/elearn-backend/internal/gamification/xp"
	"github.com/skillforge/elearn-backend/pkg/metrics"
)

// CompleteActivity runs the full pipeline for one submission: record
// progress, compute and apply the XP award, update streaks, and re-check
// achievement thresholds. Everything happens inside one transaction with
// the user row locked first, so concurrent submissions for the same user
// serialize and a failure in any stage leaves no partial state.
func CompleteActivity(userID uint, req models.CompleteActivityRequest) (*models.CompleteActivityResponse, error) {
	if err := validateSubmission(userID, req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var resp *models.CompleteActivityResponse

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		user, err := repository.LockUser(tx, userID)
		if err != nil {
			return err
		}

		rec, firstCompletion, err := repository.UpsertProgress(tx, userID, req, now)
		if err != nil {
			return err
		}

		// The calendar gap is measured against the last-active timestamp
		// stored before this submission.
		gap := xp.DayGap(user.LastActiveAt, now)

		var award xp.Award
		if firstCompletion {
			award, err = xp.ComputeAward(xp.Activity{
				ContentType:     req.ContentType,
				Score:           req.Score,
				MaxScore:        req.MaxScore,
				FirstCompletion: true,
				DayGap:          gap,
			})
			if err != nil {
				return err
			}
		}

		streak := xp.NextStreak(user.StreakDays, gap)
		longest := user.LongestStreak
		if streak > longest {
			longest = streak
		}

		winStreak := user.WinStreak
		perfectQuiz := req.ContentType == models.ContentQuiz && req.Completed &&
			req.Score != nil && req.MaxScore != nil && *req.MaxScore > 0 &&
			*req.Score == *req.MaxScore
		if req.ContentType == models.ContentQuiz && req.Completed &&
			req.Score != nil && req.MaxScore != nil && *req.MaxScore > 0 {
			if perfectQuiz {
				winStreak++
			} else {
				winStreak = 0
			}
		}

		if award.Total() > 0 {
			if _, err := repository.AddExperience(tx, userID, award.Total()); err != nil {
				return err
			}
			metrics.XPAwardedTotal.WithLabelValues(string(req.ContentType)).Add(float64(award.Total()))
		}

		if err := repository.UpdateActivityState(tx, userID, streak, longest, winStreak, now); err != nil {
			return err
		}

		if firstCompletion {
			metadata := fmt.Sprintf(`{"content_type":%q,"content_id":%q,"xp_earned":%d}`,
				req.ContentType, req.ContentID, award.Total())
			if err := repository.AppendFeedEntry(tx, userID, "activity_completed",
				fmt.Sprintf("Completed %s %s", strings.ToLower(string(req.ContentType)), req.ContentID),
				metadata); err != nil {
				return err
			}
		}

		newAchievements, err := evaluateAggregates(tx, userID, req, firstCompletion, streak, winStreak, now)
		if err != nil {
			return err
		}

		// Achievement rewards also feed the total, so the level-up check
		// runs against the final stored experience.
		final, err := repository.LockUser(tx, userID)
		if err != nil {
			return err
		}
		levelUp := xp.Level(final.Experience) > xp.Level(user.Experience)
		if levelUp {
			metadata := fmt.Sprintf(`{"level":%d,"experience":%d}`, final.Level, final.Experience)
			if err := repository.AppendFeedEntry(tx, userID, "level_up",
				fmt.Sprintf("Reached level %d", final.Level), metadata); err != nil {
				return err
			}
			metrics.LevelUpsTotal.Inc()
		}

		resp = &models.CompleteActivityResponse{
			Progress:        rec,
			XPEarned:        award.Total(),
			LevelUp:         levelUp,
			NewAchievements: newAchievements,
			StreakBonus:     award.StreakBonus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// validateSubmission rejects malformed input before any storage is touched.
// Negative values are errors, never clamped.
func validateSubmission(userID uint, req models.CompleteActivityRequest) error {
	if userID == 0 {
		return errors.BadRequest("invalid user ID")
	}
	if req.ContentType == "" {
		return errors.Validation("content_type is required", "")
	}
	if !req.ContentType.Valid() {
		return errors.BadRequest(fmt.Sprintf("unknown content type: %s", req.ContentType))
	}
	if req.ContentID == "" {
		return errors.Validation("content_id is required", "")
	}
	if err := validation.ValidateIntRange(req.ProgressPercent, 0, 100); err != nil {
		return errors.Validation("invalid progress_percent", err.Error())
	}
	if err := validation.ValidateNonNegative("time_spent", req.TimeSpent); err != nil {
		return errors.Validation(err.Error(), "")
	}
	if req.Score != nil {
		if err := validation.ValidateNonNegative("score", *req.Score); err != nil {
			return errors.Validation(err.Error(), "")
		}
	}
	if req.MaxScore != nil {
		if err := validation.ValidateNonNegative("max_score", *req.MaxScore); err != nil {
			return errors.Validation(err.Error(), "")
		}
	}
	return nil
}

// evaluateAggregates recomputes the aggregates this submission can move and
// hands each one to the achievement evaluator. The evaluator itself never
// computes aggregates.
func evaluateAggregates(tx *gorm.DB, userID uint, req models.CompleteActivityRequest, firstCompletion bool, streak, winStreak int, now time.Time) ([]models.UnlockedAchievement, error) {
	unlocked := make([]models.UnlockedAchievement, 0)

	check := func(metric models.MetricType, value int) error {
		batch, err := EvaluateMetric(tx, userID, metric, value, now)
		if err != nil {
			return err
		}
		unlocked = append(unlocked, batch...)
		return nil
	}

	if firstCompletion && req.ContentType == models.ContentModule {
		modules, err := repository.CountCompleted(tx, userID, models.ContentModule)
		if err != nil {
			return nil, err
		}
		if err := check(models.MetricModulesCompleted, modules); err != nil {
			return nil, err
		}
	}

	if err := check(models.MetricStreakDays, streak); err != nil {
		return nil, err
	}

	if req.ContentType == models.ContentQuiz && req.Completed {
		if req.Score != nil && req.MaxScore != nil && *req.MaxScore > 0 {
			if err := check(models.MetricScoreAchieved, *req.Score*100 / *req.MaxScore); err != nil {
				return nil, err
			}
		}
		games, err := repository.CountCompleted(tx, userID, models.ContentQuiz)
		if err != nil {
			return nil, err
		}
		if err := check(models.MetricGamesPlayed, games); err != nil {
			return nil, err
		}
		if winStreak > 0 {
			if err := check(models.MetricWinStreak, winStreak); err != nil {
				return nil, err
			}
		}
	}

	seconds, err := repository.SumTimeSpent(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := check(models.MetricStudyTimeMinutes, seconds/60); err != nil {
		return nil, err
	}

	return unlocked, nil
}
