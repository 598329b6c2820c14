// Package xp is the pure XP/level calculator. It performs no I/O; the
// completion service is responsible for applying computed deltas to
// persisted state exactly once.
package xp

import (
	"time"

	"github.com/skillforge/elearn-backend/internal/common/errors"
	"github.com/skillforge/elearn-backend/internal/gamification/models"
)

// XPPerLevel is the fixed level width.
const XPPerLevel = 100

// Bonus amounts.
const (
	PerfectScoreBonus = 15
	StreakBonus       = 20
	DailyLoginBonus   = 5
)

// baseRewards maps content type to base XP for a first completion.
var baseRewards = map[models.ContentType]int{
	models.ContentLesson:     10,
	models.ContentQuiz:       25,
	models.ContentAssignment: 50,
	models.ContentModule:     100,
}

// BaseReward returns the base XP a first completion of the given content
// type is worth, or 0 for an unknown type.
func BaseReward(contentType models.ContentType) int {
	return baseRewards[contentType]
}

// Level converts cumulative experience to a level. Level 1 starts at 0 XP
// and every level is XPPerLevel wide.
func Level(experience int) int {
	if experience < 0 {
		return 1
	}
	return experience/XPPerLevel + 1
}

// ProgressInLevel returns how far into the current level the experience
// total is, as a percentage.
func ProgressInLevel(experience int) int {
	if experience < 0 {
		return 0
	}
	return (experience % XPPerLevel) * 100 / XPPerLevel
}

// ToNextLevel returns the XP still needed to reach the next level.
func ToNextLevel(experience int) int {
	if experience < 0 {
		return XPPerLevel
	}
	return XPPerLevel - experience%XPPerLevel
}

// Activity is the context of one submission, as seen by the calculator.
// FirstCompletion is the consolidated state-transition check (previous
// status was not COMPLETED and this call completes the activity); no reward
// is computed without it. DayGap is the whole-day calendar gap between the
// submission and the user's previous activity: 0 same day, 1 consecutive
// day, larger values for a lapsed streak. A user with no prior activity
// reports a gap larger than one day.
type Activity struct {
	ContentType     models.ContentType
	Score           *int
	MaxScore        *int
	FirstCompletion bool
	DayGap          int
}

// Award is the additive breakdown of XP for one activity.
type Award struct {
	Base         int `json:"base"`
	PerfectBonus int `json:"perfect_bonus"`
	StreakBonus  int `json:"streak_bonus"`
	DailyBonus   int `json:"daily_bonus"`
}

// Total sums all award components.
func (a Award) Total() int {
	return a.Base + a.PerfectBonus + a.StreakBonus + a.DailyBonus
}

// ComputeAward derives the XP award for one activity. Invalid (negative)
// inputs are rejected rather than clamped so corrupt values never reach the
// cumulative total.
func ComputeAward(act Activity) (Award, error) {
	if !act.ContentType.Valid() {
		return Award{}, errors.BadRequest("unknown content type")
	}
	if act.Score != nil && *act.Score < 0 {
		return Award{}, errors.Validation("score must not be negative", "")
	}
	if act.MaxScore != nil && *act.MaxScore < 0 {
		return Award{}, errors.Validation("max_score must not be negative", "")
	}
	if act.DayGap < 0 {
		return Award{}, errors.Validation("day gap must not be negative", "")
	}

	if !act.FirstCompletion {
		return Award{}, nil
	}

	award := Award{Base: baseRewards[act.ContentType]}

	if act.ContentType == models.ContentQuiz &&
		act.Score != nil && act.MaxScore != nil &&
		*act.MaxScore > 0 && *act.Score == *act.MaxScore {
		award.PerfectBonus = PerfectScoreBonus
	}

	if act.DayGap == 1 {
		award.StreakBonus = StreakBonus
	}
	if act.DayGap >= 1 {
		award.DailyBonus = DailyLoginBonus
	}

	return award, nil
}

// Apply adds an award to a cumulative total and derives the new level.
func Apply(current int, award int) (newExperience, newLevel int, leveledUp bool, err error) {
	if current < 0 {
		return 0, 0, false, errors.Validation("experience must not be negative", "")
	}
	if award < 0 {
		return 0, 0, false, errors.Validation("award must not be negative", "")
	}

	newExperience = current + award
	newLevel = Level(newExperience)
	leveledUp = newLevel > Level(current)
	return newExperience, newLevel, leveledUp, nil
}

// NextStreak returns the consecutive-day streak after an activity with the
// given calendar gap. Same day leaves the streak alone (but a brand-new
// streak still starts at 1); a gap of exactly one day extends it; anything
// longer resets to 1.
func NextStreak(current int, dayGap int) int {
	switch {
	case dayGap == 0:
		if current < 1 {
			return 1
		}
		return current
	case dayGap == 1:
		return current + 1
	default:
		return 1
	}
}

// DayGap computes the whole-day calendar gap between two instants in UTC.
// A nil previous timestamp (no prior activity) reports a gap of two days so
// the daily-login bonus applies without extending a streak.
func DayGap(last *time.Time, now time.Time) int {
	if last == nil {
		return 2
	}
	lastDay := last.UTC().Truncate(24 * time.Hour)
	nowDay := now.UTC().Truncate(24 * time.Hour)
	gap := int(nowDay.Sub(lastDay).Hours() / 24)
	if gap < 0 {
		return 0
	}
	return gap
}
