package xp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

func intPtr(v int) *int { return &v }

func TestLevel(t *testing.T) {
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(99))
	assert.Equal(t, 2, Level(100))
	assert.Equal(t, 2, Level(140))
	assert.Equal(t, 3, Level(250))
	assert.Equal(t, 11, Level(1000))

	// Corrupt input never produces a level below 1.
	assert.Equal(t, 1, Level(-50))
}

func TestLevelIsMonotonic(t *testing.T) {
	prev := Level(0)
	for exp := 1; exp <= 1000; exp++ {
		level := Level(exp)
		require.GreaterOrEqual(t, level, prev, "level dropped at %d XP", exp)
		prev = level
	}
}

func TestToNextLevel(t *testing.T) {
	assert.Equal(t, 100, ToNextLevel(0))
	assert.Equal(t, 5, ToNextLevel(95))
	assert.Equal(t, 100, ToNextLevel(100))
	assert.Equal(t, 60, ToNextLevel(140))
}

func TestProgressInLevel(t *testing.T) {
	assert.Equal(t, 0, ProgressInLevel(0))
	assert.Equal(t, 95, ProgressInLevel(95))
	assert.Equal(t, 0, ProgressInLevel(100))
	assert.Equal(t, 40, ProgressInLevel(140))
}

func TestApplyCrossesLevelBoundary(t *testing.T) {
	// 95 XP + 45 XP = 140 XP: level 1 -> 2.
	newExp, newLevel, leveledUp, err := Apply(95, 45)
	require.NoError(t, err)
	assert.Equal(t, 140, newExp)
	assert.Equal(t, 2, newLevel)
	assert.True(t, leveledUp)

	// Staying inside the level is not a level-up.
	_, _, leveledUp, err = Apply(10, 45)
	require.NoError(t, err)
	assert.False(t, leveledUp)

	// Landing exactly on the boundary is.
	newExp, newLevel, leveledUp, err = Apply(95, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, newExp)
	assert.Equal(t, 2, newLevel)
	assert.True(t, leveledUp)
}

func TestApplyIsOrderIndependent(t *testing.T) {
	a, _, _, err := Apply(0, 30)
	require.NoError(t, err)
	a, _, _, err = Apply(a, 20)
	require.NoError(t, err)

	b, _, _, err := Apply(0, 20)
	require.NoError(t, err)
	b, _, _, err = Apply(b, 30)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 50, a)
}

func TestApplyRejectsNegative(t *testing.T) {
	_, _, _, err := Apply(-1, 10)
	assert.Error(t, err)

	_, _, _, err = Apply(10, -1)
	assert.Error(t, err)
}

func TestComputeAwardBaseRewards(t *testing.T) {
	for contentType, want := range map[models.ContentType]int{
		models.ContentLesson:     10,
		models.ContentQuiz:       25,
		models.ContentAssignment: 50,
		models.ContentModule:     100,
	} {
		award, err := ComputeAward(Activity{
			ContentType:     contentType,
			FirstCompletion: true,
			DayGap:          0,
		})
		require.NoError(t, err)
		assert.Equal(t, want, award.Total(), "base reward for %s", contentType)
	}
}

func TestComputeAwardRepeatCompletionEarnsNothing(t *testing.T) {
	award, err := ComputeAward(Activity{
		ContentType:     models.ContentQuiz,
		Score:           intPtr(10),
		MaxScore:        intPtr(10),
		FirstCompletion: false,
		DayGap:          1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, award.Total())
}

func TestComputeAwardPerfectScoreBonus(t *testing.T) {
	award, err := ComputeAward(Activity{
		ContentType:     models.ContentQuiz,
		Score:           intPtr(10),
		MaxScore:        intPtr(10),
		FirstCompletion: true,
		DayGap:          0,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, award.PerfectBonus)
	assert.Equal(t, 40, award.Total())

	// An imperfect score earns no bonus.
	award, err = ComputeAward(Activity{
		ContentType:     models.ContentQuiz,
		Score:           intPtr(9),
		MaxScore:        intPtr(10),
		FirstCompletion: true,
		DayGap:          0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, award.PerfectBonus)

	// The perfect bonus is quiz-only.
	award, err = ComputeAward(Activity{
		ContentType:     models.ContentAssignment,
		Score:           intPtr(10),
		MaxScore:        intPtr(10),
		FirstCompletion: true,
		DayGap:          0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, award.PerfectBonus)

	// A zero max score can never be perfect.
	award, err = ComputeAward(Activity{
		ContentType:     models.ContentQuiz,
		Score:           intPtr(0),
		MaxScore:        intPtr(0),
		FirstCompletion: true,
		DayGap:          0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, award.PerfectBonus)
}

func TestComputeAwardDayGapBonuses(t *testing.T) {
	// Same day: no daily or streak bonus.
	award, err := ComputeAward(Activity{ContentType: models.ContentLesson, FirstCompletion: true, DayGap: 0})
	require.NoError(t, err)
	assert.Equal(t, 10, award.Total())

	// Consecutive day: streak and daily bonuses stack.
	award, err = ComputeAward(Activity{ContentType: models.ContentLesson, FirstCompletion: true, DayGap: 1})
	require.NoError(t, err)
	assert.Equal(t, 20, award.StreakBonus)
	assert.Equal(t, 5, award.DailyBonus)
	assert.Equal(t, 35, award.Total())

	// Lapsed streak: only the daily bonus.
	award, err = ComputeAward(Activity{ContentType: models.ContentLesson, FirstCompletion: true, DayGap: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, award.StreakBonus)
	assert.Equal(t, 5, award.DailyBonus)
	assert.Equal(t, 15, award.Total())
}

func TestComputeAwardRejectsInvalidInput(t *testing.T) {
	_, err := ComputeAward(Activity{ContentType: "PODCAST", FirstCompletion: true})
	assert.Error(t, err)

	_, err = ComputeAward(Activity{ContentType: models.ContentQuiz, Score: intPtr(-1), FirstCompletion: true})
	assert.Error(t, err)

	_, err = ComputeAward(Activity{ContentType: models.ContentQuiz, MaxScore: intPtr(-1), FirstCompletion: true})
	assert.Error(t, err)

	_, err = ComputeAward(Activity{ContentType: models.ContentQuiz, FirstCompletion: true, DayGap: -1})
	assert.Error(t, err)
}

func TestNextStreak(t *testing.T) {
	assert.Equal(t, 5, NextStreak(5, 0), "same day keeps the streak")
	assert.Equal(t, 1, NextStreak(0, 0), "a new streak starts at 1")
	assert.Equal(t, 6, NextStreak(5, 1), "consecutive day extends")
	assert.Equal(t, 1, NextStreak(5, 2), "a missed day resets")
	assert.Equal(t, 1, NextStreak(30, 14))
}

func TestDayGap(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	sameDay := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DayGap(&sameDay, now))

	// Calendar days, not 24-hour windows: late yesterday to early today is
	// still a gap of one.
	lateYesterday := time.Date(2026, 3, 9, 23, 50, 0, 0, time.UTC)
	assert.Equal(t, 1, DayGap(&lateYesterday, now))

	lastWeek := time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, 7, DayGap(&lastWeek, now))

	assert.Equal(t, 2, DayGap(nil, now), "no prior activity behaves like a lapsed streak")

	future := now.Add(48 * time.Hour)
	assert.Equal(t, 0, DayGap(&future, now), "clock skew never goes negative")
}
