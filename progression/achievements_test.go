package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatalogCountersAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Catalog {
		assert.True(t, def.Counter.Valid(), "achievement %s references unknown counter %q", def.Code, def.Counter)
		assert.False(t, seen[def.Code], "duplicate achievement code %q", def.Code)
		seen[def.Code] = true
	}
}

func TestEvaluateAchievements_SinglePass(t *testing.T) {
	state := NewState()
	state.Counters.QuestsCompleted = 1

	newly := state.EvaluateAchievements(map[string]bool{})
	assert.Len(t, newly, 1)
	assert.Equal(t, "beginner-hunter", newly[0].Code)
}

func TestEvaluateAchievements_Idempotent(t *testing.T) {
	state := NewState()
	state.Counters.BooksRead = 5

	earned := map[string]bool{}
	first := state.EvaluateAchievements(earned)
	assert.Len(t, first, 1)
	for _, def := range first {
		earned[def.Code] = true
	}

	// Second call with unchanged counters reports nothing
	second := state.EvaluateAchievements(earned)
	assert.Empty(t, second)
}

func TestEvaluateAchievements_AllQualifyingInOnePass(t *testing.T) {
	state := NewState()
	state.Counters.QuestsCompleted = 12
	state.Counters.MeditationStreak = 7

	newly := state.EvaluateAchievements(map[string]bool{})

	codes := make([]string, len(newly))
	for i, def := range newly {
		codes[i] = def.Code
	}
	// Both quest tiers plus the meditation streak, in catalog order
	assert.Equal(t, []string{"beginner-hunter", "dedicated-hunter", "meditation-master"}, codes)
}

func TestQuestCompletionYieldsAllNotifications(t *testing.T) {
	// A single completion that crosses a level boundary and two achievement
	// thresholds must surface every notification, not just the first.
	state := NewState()
	state.XP = 950
	state.Counters.QuestsCompleted = 9

	levelRes, err := state.GrantXP(100)
	assert.NoError(t, err)
	assert.True(t, levelRes.LeveledUp)

	assert.NoError(t, state.RecordActivity(CounterQuestsCompleted, 1))
	newly := state.EvaluateAchievements(map[string]bool{})
	assert.Len(t, newly, 2) // beginner + dedicated

	notifications := CollectNotifications(levelRes, newly)
	assert.Len(t, notifications, 3)
	assert.Equal(t, "levelup", notifications[0].Type)
	assert.Equal(t, "achievement", notifications[1].Type)
	assert.Equal(t, "achievement", notifications[2].Type)
}

func TestSnapshot_MidLevel(t *testing.T) {
	state := NewState()
	state.XP = 1750
	state.Level = 2
	state.Rank = RankForLevel(2)

	snap := state.Snapshot(nil)
	assert.Equal(t, 2, snap.Level)
	assert.False(t, snap.AtMaxLevel)
	assert.Equal(t, int64(750), snap.XPToNextLevel)
	// 1750 sits halfway between the 1000 and 2500 thresholds
	assert.InDelta(t, 50.0, snap.XPProgressPercent, 0.01)
}

func TestSnapshot_AtMaxLevel(t *testing.T) {
	state := NewState()
	state.XP = 40000
	state.Level = MaxLevel
	state.Rank = RankForLevel(MaxLevel)

	// Must not divide by zero past the last threshold
	snap := state.Snapshot(nil)
	assert.True(t, snap.AtMaxLevel)
	assert.Equal(t, int64(0), snap.XPToNextLevel)
	assert.Equal(t, 100.0, snap.XPProgressPercent)
}

func TestSnapshot_CarriesEarnedAchievements(t *testing.T) {
	state := NewState()
	earnedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	snap := state.Snapshot([]EarnedRef{{Code: "bookworm", Title: "Bookworm", EarnedAt: earnedAt}})
	assert.Len(t, snap.Achievements, 1)
	assert.Equal(t, "bookworm", snap.Achievements[0].Code)
	assert.Equal(t, earnedAt, snap.Achievements[0].EarnedAt)
}
