package models

import (
	"time"
)

// ========== ENUMS ==========

// ContentType identifies the kind of learning content an activity belongs to.
type ContentType string

const (
	ContentLesson     ContentType = "LESSON"
	ContentQuiz       ContentType = "QUIZ"
	ContentAssignment ContentType = "ASSIGNMENT"
	ContentModule     ContentType = "MODULE"
)

// Valid reports whether ct is one of the known content types.
func (ct ContentType) Valid() bool {
	switch ct {
	case ContentLesson, ContentQuiz, ContentAssignment, ContentModule:
		return true
	}
	return false
}

// CompletionStatus is the lifecycle state of a progress record.
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "NOT_STARTED"
	StatusInProgress CompletionStatus = "IN_PROGRESS"
	StatusCompleted  CompletionStatus = "COMPLETED"
)

// MetricType is a stable identifier for the aggregate an achievement
// thresholds against. Replaces title-string matching in the rule table.
type MetricType string

const (
	MetricModulesCompleted MetricType = "modules_completed"
	MetricStreakDays       MetricType = "streak_days"
	MetricScoreAchieved    MetricType = "score_achieved"
	MetricGamesPlayed      MetricType = "games_played"
	MetricWinStreak        MetricType = "win_streak"
	MetricStudyTimeMinutes MetricType = "study_time_minutes"
	MetricFriendsAdded     MetricType = "friends_added"
)

// ========== PERSISTED MODELS ==========

// ProgressRecord is one row per (user, content type, content id).
// TimeSpentSeconds and AttemptCount only ever grow; CompletedAt is set on the
// transition into COMPLETED and never changed afterwards.
type ProgressRecord struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"uniqueIndex:idx_progress_user_content;not null" json:"user_id"`
	ContentType ContentType `gorm:"uniqueIndex:idx_progress_user_content;not null;size:16" json:"content_type"`
	ContentID   string      `gorm:"uniqueIndex:idx_progress_user_content;not null;size:128" json:"content_id"`

	Status           CompletionStatus `gorm:"not null;default:NOT_STARTED;size:16" json:"status"`
	ProgressPercent  int              `gorm:"not null;default:0" json:"progress_percent"`
	TimeSpentSeconds int              `gorm:"not null;default:0" json:"time_spent_seconds"`
	// Latest submitted values, last-write-wins.
	Score    *int `json:"score,omitempty"`
	MaxScore *int `json:"max_score,omitempty"`

	AttemptCount   int        `gorm:"not null;default:0" json:"attempt_count"`
	FirstAttemptAt time.Time  `json:"first_attempt_at"`
	LastAttemptAt  time.Time  `json:"last_attempt_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Achievement is one entry of the immutable rule catalog: unlock when the
// named metric reaches Target.
type Achievement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"unique;not null" json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	XPReward    int        `gorm:"not null;default:0" json:"xp_reward"`
	Category    string     `json:"category"`
	Metric      MetricType `gorm:"index;not null;size:32" json:"metric"`
	Target      int        `gorm:"not null" json:"target"`
	// Evaluation order within the catalog.
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAchievement is the unlock record. The unique index on
// (user_id, achievement_id) is what makes unlocks at-most-once under
// concurrent evaluation.
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID uint         `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	Achievement   *Achievement `json:"achievement,omitempty"`
	Progress      int          `gorm:"not null;default:0" json:"progress"` // 0-100
	Completed     bool         `gorm:"not null;default:false" json:"completed"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ActivityFeedEntry is an append-only audit record of a gamification event.
type ActivityFeedEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	EventType   string    `gorm:"not null;size:32" json:"event_type"` // "activity_completed", "level_up", "achievement_unlocked"
	Description string    `json:"description"`
	Metadata    string    `json:"metadata,omitempty"` // JSON blob for display
	CreatedAt   time.Time `json:"created_at"`
}

// ========== REQUEST/RESPONSE TYPES ==========

// CompleteActivityRequest is the body of a progress submission.
type CompleteActivityRequest struct {
	ContentType     ContentType `json:"content_type" binding:"required"`
	ContentID       string      `json:"content_id" binding:"required"`
	ProgressPercent int         `json:"progress_percent" binding:"min=0,max=100"`
	TimeSpent       int         `json:"time_spent" binding:"min=0"` // seconds
	Score           *int        `json:"score,omitempty"`
	MaxScore        *int        `json:"max_score,omitempty"`
	Completed       bool        `json:"completed"`
}

// UnlockedAchievement is the slice element of new_achievements in the
// completion response.
type UnlockedAchievement struct {
	Title    string `json:"title"`
	XPReward int    `json:"xp_reward"`
}

// CompleteActivityResponse is everything the engine exposes for one
// submission: the updated record plus the reward breakdown.
type CompleteActivityResponse struct {
	Progress        *ProgressRecord       `json:"progress"`
	XPEarned        int                   `json:"xp_earned"`
	LevelUp         bool                  `json:"level_up"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
	StreakBonus     int                   `json:"streak_bonus"`
}

// GamificationProfileResponse returns user's gamification status
type GamificationProfileResponse struct {
	UserID        uint                      `json:"user_id"`
	Username      string                    `json:"username"`
	Level         int                       `json:"level"`
	Experience    int                       `json:"experience"`
	XPToNextLevel int                       `json:"xp_to_next_level"`
	StreakDays    int                       `json:"streak_days"`
	LongestStreak int                       `json:"longest_streak"`
	Achievements  []UserAchievementResponse `json:"achievements"`
}

// UserAchievementResponse returns unlocked achievement data
type UserAchievementResponse struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Icon       string     `json:"icon"`
	Category   string     `json:"category"`
	XPReward   int        `json:"xp_reward"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// LeaderboardEntry represents a position in the experience leaderboard
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

// LeaderboardResponse returns ranked users
type LeaderboardResponse struct {
	Entries   []*LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time           `json:"updated_at"`
}
