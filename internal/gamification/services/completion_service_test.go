package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
	"github.com/skillforge/elearn-backend/internal/gamification/repository"
)

func intPtr(v int) *int { return &v }

// setupTestDB opens a fresh in-memory database for one test. The DSN is
// keyed on the test name so parallel packages never share state, and
// cache=shared keeps every pooled connection on the same database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.DB.AutoMigrate(
		&database.User{},
		&models.ProgressRecord{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityFeedEntry{},
	))
	require.NoError(t, repository.SeedAchievements())
	t.Cleanup(func() { _ = database.Close() })
}

func createTestUser(t *testing.T, username string) *database.User {
	t.Helper()
	user := &database.User{Username: username, Email: username + "@test.dev"}
	require.NoError(t, repository.CreateUser(user))
	return user
}

func TestCompleteActivityFirstCompletion(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "fresh")

	resp, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "go-basics-01",
		TimeSpent:   300,
		Completed:   true,
	})
	require.NoError(t, err)

	// No prior activity: base 10 plus the daily login bonus, no streak bonus.
	assert.Equal(t, 15, resp.XPEarned)
	assert.Equal(t, 0, resp.StreakBonus)
	assert.False(t, resp.LevelUp)
	assert.Empty(t, resp.NewAchievements)

	require.NotNil(t, resp.Progress)
	assert.Equal(t, models.StatusCompleted, resp.Progress.Status)
	assert.Equal(t, 100, resp.Progress.ProgressPercent)
	assert.Equal(t, 1, resp.Progress.AttemptCount)
	assert.Equal(t, 300, resp.Progress.TimeSpentSeconds)
	require.NotNil(t, resp.Progress.CompletedAt)

	updated, err := repository.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Experience)
	assert.Equal(t, 1, updated.Level)
	assert.Equal(t, 1, updated.StreakDays)
	require.NotNil(t, updated.LastActiveAt)

	feed, err := repository.GetUserFeed(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "activity_completed", feed[0].EventType)
}

func TestCompleteActivityRepeatSubmission(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "repeat")

	first, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentQuiz,
		ContentID:   "go-basics-quiz",
		TimeSpent:   120,
		Score:       intPtr(3),
		MaxScore:    intPtr(5),
		Completed:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, first.XPEarned) // base 25 + daily 5, no perfect bonus

	second, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentQuiz,
		ContentID:   "go-basics-quiz",
		TimeSpent:   90,
		Score:       intPtr(5),
		MaxScore:    intPtr(5),
		Completed:   true,
	})
	require.NoError(t, err)

	// A repeat completion earns no activity XP however good the score.
	assert.Equal(t, 0, second.XPEarned)

	// The record keeps accumulating.
	assert.Equal(t, 2, second.Progress.AttemptCount)
	assert.Equal(t, 210, second.Progress.TimeSpentSeconds)
	assert.Equal(t, 5, *second.Progress.Score)

	// CompletedAt marks the first completion and never moves.
	require.NotNil(t, second.Progress.CompletedAt)
	assert.WithinDuration(t, *first.Progress.CompletedAt, *second.Progress.CompletedAt, time.Second)

	// Achievements still evaluate on repeats: the perfect retake unlocks
	// Perfect Score even though the activity itself pays nothing.
	require.Len(t, second.NewAchievements, 1)
	assert.Equal(t, "Perfect Score", second.NewAchievements[0].Title)
	assert.Equal(t, 50, second.NewAchievements[0].XPReward)

	updated, err := repository.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Experience) // 30 activity + 50 achievement
	assert.Equal(t, 1, updated.WinStreak)
}

func TestCompleteActivityBatchUnlock(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "builder")

	// Five modules already completed, recorded before the engine existed,
	// so no unlock rows exist yet.
	now := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		require.NoError(t, database.DB.Create(&models.ProgressRecord{
			UserID:          user.ID,
			ContentType:     models.ContentModule,
			ContentID:       fmt.Sprintf("legacy-module-%d", i),
			Status:          models.StatusCompleted,
			ProgressPercent: 100,
			AttemptCount:    1,
			FirstAttemptAt:  now,
			LastAttemptAt:   now,
			CompletedAt:     &now,
		}).Error)
	}

	resp, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentModule,
		ContentID:   "go-basics",
		Completed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 105, resp.XPEarned) // base 100 + daily 5

	// Six completed modules cross two thresholds at once; both unlock in
	// catalog order in the same response.
	require.Len(t, resp.NewAchievements, 2)
	assert.Equal(t, "First Steps", resp.NewAchievements[0].Title)
	assert.Equal(t, "Getting Started", resp.NewAchievements[1].Title)

	// Achievement rewards count toward the level-up check: 105 + 25 + 50.
	assert.True(t, resp.LevelUp)

	updated, err := repository.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, updated.Experience)
	assert.Equal(t, 2, updated.Level)
}

func TestCompleteActivityUnlocksAtMostOnce(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "once")

	first, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentModule,
		ContentID:   "go-basics",
		Completed:   true,
	})
	require.NoError(t, err)
	require.Len(t, first.NewAchievements, 1)
	assert.Equal(t, "First Steps", first.NewAchievements[0].Title)

	second, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentModule,
		ContentID:   "sql-intro",
		Completed:   true,
	})
	require.NoError(t, err)

	for _, a := range second.NewAchievements {
		assert.NotEqual(t, "First Steps", a.Title, "an unlocked achievement must never unlock again")
	}

	unlocked, err := GetUserAchievements(user.ID)
	require.NoError(t, err)
	titles := make(map[string]int)
	for _, a := range unlocked {
		titles[a.Title]++
	}
	assert.Equal(t, 1, titles["First Steps"])
}

func TestCompleteActivityStreakExtension(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "streaker")

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, database.DB.Model(&database.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak_days":    2,
			"last_active_at": yesterday,
		}).Error)

	resp, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "go-basics-02",
		Completed:   true,
	})
	require.NoError(t, err)

	// Consecutive day: base 10 + streak 20 + daily 5.
	assert.Equal(t, 35, resp.XPEarned)
	assert.Equal(t, 20, resp.StreakBonus)

	updated, err := repository.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StreakDays)
	assert.Equal(t, 3, updated.LongestStreak)

	// Reaching a 3-day streak unlocks On Fire.
	require.Len(t, resp.NewAchievements, 1)
	assert.Equal(t, "On Fire", resp.NewAchievements[0].Title)
}

func TestCompleteActivityIncompleteSubmission(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "partial")

	resp, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType:     models.ContentLesson,
		ContentID:       "go-basics-03",
		ProgressPercent: 40,
		TimeSpent:       180,
	})
	require.NoError(t, err)

	// Progress without completion earns nothing but is still recorded.
	assert.Equal(t, 0, resp.XPEarned)
	assert.Equal(t, models.StatusInProgress, resp.Progress.Status)
	assert.Equal(t, 40, resp.Progress.ProgressPercent)
	assert.Nil(t, resp.Progress.CompletedAt)

	// The streak and last-active state still advance.
	updated, err := repository.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.StreakDays)
	require.NotNil(t, updated.LastActiveAt)
}

func TestCompleteActivityRejectsInvalidInput(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "strict")

	cases := []struct {
		name string
		req  models.CompleteActivityRequest
	}{
		{"unknown content type", models.CompleteActivityRequest{ContentType: "PODCAST", ContentID: "x"}},
		{"missing content id", models.CompleteActivityRequest{ContentType: models.ContentLesson}},
		{"negative time spent", models.CompleteActivityRequest{ContentType: models.ContentLesson, ContentID: "x", TimeSpent: -1}},
		{"progress above 100", models.CompleteActivityRequest{ContentType: models.ContentLesson, ContentID: "x", ProgressPercent: 120}},
		{"negative score", models.CompleteActivityRequest{ContentType: models.ContentQuiz, ContentID: "x", Score: intPtr(-5)}},
		{"negative max score", models.CompleteActivityRequest{ContentType: models.ContentQuiz, ContentID: "x", MaxScore: intPtr(-5)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompleteActivity(user.ID, tc.req)
			assert.Error(t, err)
		})
	}

	_, err := CompleteActivity(0, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "x",
	})
	assert.Error(t, err)

	_, err = CompleteActivity(9999, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "x",
	})
	assert.Error(t, err, "unknown user must be rejected")
}

func TestCompleteActivityStudyTimeAccumulates(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "bookworm")

	// 59 minutes across two lessons: still short of the Bookworm target.
	resp, err := CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "lesson-a",
		TimeSpent:   30 * 60,
		Completed:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.NewAchievements)

	resp, err = CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "lesson-b",
		TimeSpent:   29 * 60,
		Completed:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.NewAchievements)

	// One more minute crosses the hour.
	resp, err = CompleteActivity(user.ID, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "lesson-c",
		TimeSpent:   60,
		Completed:   true,
	})
	require.NoError(t, err)
	require.Len(t, resp.NewAchievements, 1)
	assert.Equal(t, "Bookworm", resp.NewAchievements[0].Title)
}
