package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeCounter(t *testing.T) {
	assert.Equal(t, "Books Read", HumanizeCounter("books_read"))
	assert.Equal(t, "Meditation Streak", HumanizeCounter("meditation_streak"))
	assert.Equal(t, "Quests Completed", HumanizeCounter("quests_completed"))
}
