package models

import (
	"testing"

	"hunter-progression-system/progression"

	"github.com/stretchr/testify/assert"
)

func TestAchievementTypeFromDef(t *testing.T) {
	def, ok := progression.CatalogByCode("bookworm")
	assert.True(t, ok)

	row := AchievementTypeFromDef(def)
	assert.Equal(t, "bookworm", row.Code)
	assert.Equal(t, "Bookworm", row.Title)
	assert.Equal(t, string(progression.CounterBooksRead), row.Counter)
	assert.Equal(t, int64(5), row.Threshold)
}

func TestProgressStateRoundTrip(t *testing.T) {
	prog := UserProgress{UserID: "u1"}
	prog.ApplyState(progression.NewState())

	assert.Equal(t, 1, prog.Level)
	assert.Equal(t, "E-Rank Hunter", prog.Rank)
	assert.Equal(t, 10, prog.Strength)

	state := prog.ToState()
	_, err := state.GrantXP(1200)
	assert.NoError(t, err)
	prog.ApplyState(state)

	assert.Equal(t, int64(1200), prog.XP)
	assert.Equal(t, 2, prog.Level)
	assert.Equal(t, 11, prog.Willpower)
}
