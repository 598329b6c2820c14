package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/elearn-backend/internal/common/database"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

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
	t.Cleanup(func() { _ = database.Close() })
}

func intPtr(v int) *int { return &v }

func TestUpsertProgressCreatesThenAccumulates(t *testing.T) {
	setupTestDB(t)
	now := time.Now().UTC()

	rec, first, err := UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType:     models.ContentLesson,
		ContentID:       "lesson-1",
		ProgressPercent: 50,
		TimeSpent:       60,
	}, now)
	require.NoError(t, err)
	assert.False(t, first, "an incomplete submission is never a first completion")
	assert.Equal(t, models.StatusInProgress, rec.Status)
	assert.Equal(t, 1, rec.AttemptCount)
	assert.Nil(t, rec.CompletedAt)

	later := now.Add(time.Hour)
	rec, first, err = UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType:     models.ContentLesson,
		ContentID:       "lesson-1",
		ProgressPercent: 80,
		TimeSpent:       120,
		Completed:       true,
	}, later)
	require.NoError(t, err)
	assert.True(t, first, "completing an in-progress record is the first completion")
	assert.Equal(t, models.StatusCompleted, rec.Status)
	assert.Equal(t, 100, rec.ProgressPercent, "completion forces full progress")
	assert.Equal(t, 2, rec.AttemptCount)
	assert.Equal(t, 180, rec.TimeSpentSeconds)
	require.NotNil(t, rec.CompletedAt)
	firstCompletedAt := *rec.CompletedAt

	rec, first, err = UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentLesson,
		ContentID:   "lesson-1",
		TimeSpent:   30,
		Completed:   true,
	}, later.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, first, "a repeat completion is not a first completion")
	assert.Equal(t, 3, rec.AttemptCount)
	assert.Equal(t, 210, rec.TimeSpentSeconds)
	assert.WithinDuration(t, firstCompletedAt, *rec.CompletedAt, time.Second)
}

func TestUpsertProgressScoreLastWriteWins(t *testing.T) {
	setupTestDB(t)
	now := time.Now().UTC()

	_, _, err := UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentQuiz,
		ContentID:   "quiz-1",
		Score:       intPtr(8),
		MaxScore:    intPtr(10),
		Completed:   true,
	}, now)
	require.NoError(t, err)

	rec, _, err := UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentQuiz,
		ContentID:   "quiz-1",
		Score:       intPtr(6),
		MaxScore:    intPtr(10),
		Completed:   true,
	}, now.Add(time.Minute))
	require.NoError(t, err)

	// Latest submission wins even when it is worse.
	assert.Equal(t, 6, *rec.Score)
}

func TestUpsertProgressIsolatesContentItems(t *testing.T) {
	setupTestDB(t)
	now := time.Now().UTC()

	_, _, err := UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentLesson, ContentID: "lesson-1", Completed: true,
	}, now)
	require.NoError(t, err)
	_, _, err = UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentQuiz, ContentID: "lesson-1", Completed: true,
	}, now)
	require.NoError(t, err)
	_, _, err = UpsertProgress(database.DB, 2, models.CompleteActivityRequest{
		ContentType: models.ContentLesson, ContentID: "lesson-1", Completed: true,
	}, now)
	require.NoError(t, err)

	records, err := GetUserProgress(1)
	require.NoError(t, err)
	assert.Len(t, records, 2, "the same slug under different content types is distinct")

	records, err = GetUserProgress(2)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCountCompletedAndSumTimeSpent(t *testing.T) {
	setupTestDB(t)
	now := time.Now().UTC()

	_, _, err := UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentModule, ContentID: "mod-1", TimeSpent: 600, Completed: true,
	}, now)
	require.NoError(t, err)
	_, _, err = UpsertProgress(database.DB, 1, models.CompleteActivityRequest{
		ContentType: models.ContentModule, ContentID: "mod-2", TimeSpent: 300,
	}, now)
	require.NoError(t, err)

	count, err := CountCompleted(database.DB, 1, models.ContentModule)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "in-progress records do not count")

	total, err := SumTimeSpent(database.DB, 1)
	require.NoError(t, err)
	assert.Equal(t, 900, total)

	// A user with no records sums to zero, not an error.
	total, err = SumTimeSpent(database.DB, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
