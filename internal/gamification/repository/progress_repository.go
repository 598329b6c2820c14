package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skillforge/elearn-backend/internal/common/database"
	apperrors "github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

// GetProgress loads the record for one (user, content type, content id)
// triple, or nil when the user has not touched the content item yet.
func GetProgress(tx *gorm.DB, userID uint, contentType models.ContentType, contentID string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	result := tx.Where("user_id = ? AND content_type = ? AND content_id = ?",
		userID, contentType, contentID).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to fetch progress", result.Error.Error())
	}
	return &rec, nil
}

// UpsertProgress records one submission. Time spent accumulates, the attempt
// count always increments, score/max score are replaced with the submitted
// values, and CompletedAt is written exactly once, on the transition into
// COMPLETED. The returned bool reports that transition (first completion).
func UpsertProgress(tx *gorm.DB, userID uint, req models.CompleteActivityRequest, now time.Time) (*models.ProgressRecord, bool, error) {
	rec, err := GetProgress(tx, userID, req.ContentType, req.ContentID)
	if err != nil {
		return nil, false, err
	}

	if rec == nil {
		rec = &models.ProgressRecord{
			UserID:           userID,
			ContentType:      req.ContentType,
			ContentID:        req.ContentID,
			Status:           models.StatusInProgress,
			ProgressPercent:  req.ProgressPercent,
			TimeSpentSeconds: req.TimeSpent,
			Score:            req.Score,
			MaxScore:         req.MaxScore,
			AttemptCount:     1,
			FirstAttemptAt:   now,
			LastAttemptAt:    now,
		}
		if req.Completed {
			rec.Status = models.StatusCompleted
			rec.ProgressPercent = 100
			rec.CompletedAt = &now
		}
		if result := tx.Create(rec); result.Error != nil {
			return nil, false, apperrors.Internal("failed to create progress", result.Error.Error())
		}
		return rec, req.Completed, nil
	}

	first := req.Completed && rec.Status != models.StatusCompleted

	rec.TimeSpentSeconds += req.TimeSpent
	rec.AttemptCount++
	rec.LastAttemptAt = now
	rec.Score = req.Score
	rec.MaxScore = req.MaxScore
	rec.ProgressPercent = req.ProgressPercent
	if req.Completed {
		rec.Status = models.StatusCompleted
		rec.ProgressPercent = 100
		if rec.CompletedAt == nil {
			rec.CompletedAt = &now
		}
	} else if rec.Status != models.StatusCompleted {
		rec.Status = models.StatusInProgress
	}

	if result := tx.Save(rec); result.Error != nil {
		return nil, false, apperrors.Internal("failed to update progress", result.Error.Error())
	}
	return rec, first, nil
}

// GetUserProgress lists all progress records for a user.
func GetUserProgress(userID uint) ([]*models.ProgressRecord, error) {
	var records []*models.ProgressRecord
	result := database.DB.
		Where("user_id = ?", userID).
		Order("last_attempt_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch progress records", result.Error.Error())
	}
	return records, nil
}

// CountCompleted counts COMPLETED records of one content type for a user.
func CountCompleted(tx *gorm.DB, userID uint, contentType models.ContentType) (int, error) {
	var count int64
	result := tx.Model(&models.ProgressRecord{}).
		Where("user_id = ? AND content_type = ? AND status = ?",
			userID, contentType, models.StatusCompleted).
		Count(&count)
	if result.Error != nil {
		return 0, apperrors.Internal("failed to count completions", result.Error.Error())
	}
	return int(count), nil
}

// SumTimeSpent totals the study time across all of a user's records, in
// seconds.
func SumTimeSpent(tx *gorm.DB, userID uint) (int, error) {
	var total *int64
	result := tx.Model(&models.ProgressRecord{}).
		Where("user_id = ?", userID).
		Select("SUM(time_spent_seconds)").
		Scan(&total)
	if result.Error != nil {
		return 0, apperrors.Internal("failed to sum study time", result.Error.Error())
	}
	if total == nil {
		return 0, nil
	}
	return int(*total), nil
}
