package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{2499, 2},
		{2500, 3},
		{5000, 4},
		{8000, 5},
		{12000, 6},
		{17000, 7},
		{23000, 8},
		{30000, 9},
		{37999, 9},
		{38000, 10},
		{1000000, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 1
	for xp := int64(0); xp <= 40000; xp += 250 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level regressed at xp=%d", xp)
		prev = level
	}
}

func TestRankForLevel(t *testing.T) {
	assert.Equal(t, "E-Rank Hunter", RankForLevel(1))
	assert.Equal(t, "E-Rank Hunter", RankForLevel(2))
	assert.Equal(t, "D-Rank Hunter", RankForLevel(3))
	assert.Equal(t, "D-Rank Hunter", RankForLevel(4))
	assert.Equal(t, "C-Rank Hunter", RankForLevel(5))
	assert.Equal(t, "B-Rank Hunter", RankForLevel(7))
	assert.Equal(t, "A-Rank Hunter", RankForLevel(9))
	assert.Equal(t, "S-Rank Hunter", RankForLevel(10))

	// Rank stays at the top past the last defined requirement
	assert.Equal(t, "S-Rank Hunter", RankForLevel(42))
}

func TestGrantXP_RejectsNegative(t *testing.T) {
	state := NewState()
	_, err := state.GrantXP(-10)
	assert.ErrorIs(t, err, ErrNegativeXP)

	// Nothing partially applied
	assert.Equal(t, int64(0), state.XP)
	assert.Equal(t, 1, state.Level)
}

func TestGrantXP_NoLevelUp(t *testing.T) {
	state := NewState()
	res, err := state.GrantXP(500)
	assert.NoError(t, err)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, int64(500), state.XP)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, "E-Rank Hunter", state.Rank)
}

func TestGrantXP_LevelUpAndRankUp(t *testing.T) {
	state := NewState()
	state.XP = 2400
	state.Level = 2

	// 2400 + 200 = 2600 → level 3 → D-Rank
	res, err := state.GrantXP(200)
	assert.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.NewLevel)
	assert.Equal(t, "D-Rank Hunter", res.NewRank)
	assert.True(t, res.RankedUp)
	assert.Equal(t, "D-Rank Hunter", state.Rank)
}

func TestGrantXP_MultipleLevelsInOneGrant(t *testing.T) {
	state := NewState()

	// 0 → 5200 crosses levels 2, 3 and 4 at once
	res, err := state.GrantXP(5200)
	assert.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 4, res.NewLevel)

	// Core stats grew by one point per level gained
	assert.Equal(t, 13, state.Stats.Strength)
	assert.Equal(t, 13, state.Stats.Discipline)
}

func TestGrantXP_ZeroIsValidNoOp(t *testing.T) {
	state := NewState()
	res, err := state.GrantXP(0)
	assert.NoError(t, err)
	assert.False(t, res.LeveledUp)
}

func TestRecordActivity(t *testing.T) {
	state := NewState()

	assert.NoError(t, state.RecordActivity(CounterBooksRead, 1))
	assert.NoError(t, state.RecordActivity(CounterBooksRead, 1))
	assert.Equal(t, int64(2), state.Counters.BooksRead)

	err := state.RecordActivity(Counter("push_ups"), 1)
	assert.ErrorIs(t, err, ErrUnknownCounter)
}

func TestUpdateLoginStreak_FirstLogin(t *testing.T) {
	state := NewState()
	today := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	streak := state.UpdateLoginStreak(today)
	assert.Equal(t, 1, streak)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *state.LastActiveDate)
}

func TestUpdateLoginStreak_ConsecutiveDay(t *testing.T) {
	state := NewState()
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	state.LastActiveDate = &yesterday
	state.LoginStreak = 2

	streak := state.UpdateLoginStreak(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, streak)
}

func TestUpdateLoginStreak_SameDayIsNoOp(t *testing.T) {
	state := NewState()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	state.LastActiveDate = &today
	state.LoginStreak = 4

	// Safe to invoke multiple times per day
	assert.Equal(t, 4, state.UpdateLoginStreak(today.Add(9*time.Hour)))
	assert.Equal(t, 4, state.UpdateLoginStreak(today.Add(20*time.Hour)))
	assert.Equal(t, 4, state.LoginStreak)
}

func TestUpdateLoginStreak_GapResets(t *testing.T) {
	state := NewState()
	threeDaysAgo := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	state.LastActiveDate = &threeDaysAgo
	state.LoginStreak = 5

	streak := state.UpdateLoginStreak(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, streak)
}

func TestUpdateLoginStreak_FutureDateIsNoOp(t *testing.T) {
	state := NewState()
	future := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	state.LastActiveDate = &future
	state.LoginStreak = 3

	streak := state.UpdateLoginStreak(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, streak)

	// Corrupted date is left alone, not overwritten backwards
	assert.Equal(t, future, *state.LastActiveDate)
}
