package database

import (
	"time"
)

// User carries identity plus mutable gamification state. Experience is the
// cumulative XP total; Level is always derived from it (100 XP per level).
// Both are only written inside the completion transaction, never from
// handler-level read-modify-write.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"unique;not null" json:"username"`
	Email       string `gorm:"unique;not null" json:"email"`
	DisplayName string `json:"display_name"`

	Experience int `gorm:"not null;default:0" json:"experience"`
	Level      int `gorm:"not null;default:1" json:"level"`
	// Consecutive calendar days with at least one qualifying activity.
	StreakDays    int `gorm:"not null;default:0" json:"streak_days"`
	LongestStreak int `gorm:"not null;default:0" json:"longest_streak"`
	// Consecutive perfect quiz scores.
	WinStreak    int        `gorm:"not null;default:0" json:"win_streak"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
