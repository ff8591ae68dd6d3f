package services

import (
	"fmt"
	"testing"
	"time"

	"hunter-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own named in-memory database so tests
// cannot see each other's rows.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.UserProgress{},
		&models.AchievementType{},
		&models.EarnedAchievement{},
		&models.Quest{},
		&models.Habit{},
	))
	return db
}

func seedHunter(t *testing.T, db *gorm.DB) (*ProgressionService, string) {
	t.Helper()

	svc := NewProgressionService(db)
	require.NoError(t, svc.SeedAchievementCatalog())

	userID := uuid.NewString()
	_, err := svc.EnsureProgressRecord(userID)
	require.NoError(t, err)
	return svc, userID
}

func TestCompleteQuest_GrantsXPExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	svc, userID := seedHunter(t, db)

	quest := models.Quest{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      "Clear the E-Rank Gate",
		Slug:       "clear-the-e-rank-gate",
		Difficulty: "E",
		XPReward:   100,
		QuestType:  "daily",
	}
	require.NoError(t, db.Create(&quest).Error)

	first, err := svc.CompleteQuest(userID, quest.ID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, int64(100), first.XPGained)

	// The first quest completion also unlocks the first quest achievement
	require.Len(t, first.Notifications, 1)
	assert.Equal(t, "achievement", first.Notifications[0].Type)

	// Replay is a signaled no-op: zero XP, nothing announced
	second, err := svc.CompleteQuest(userID, quest.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Zero(t, second.XPGained)
	assert.Empty(t, second.Notifications)

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", userID).First(&prog).Error)
	assert.Equal(t, int64(100), prog.XP)
	assert.Equal(t, int64(1), prog.QuestsCompleted)

	snap, err := svc.GetProgressSnapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), snap.XP)
	require.Len(t, snap.Achievements, 1)
	assert.Equal(t, "beginner-hunter", snap.Achievements[0].Code)
}

func TestTrackHabit_SameDayIsNoOp(t *testing.T) {
	db := openTestDB(t)
	progSvc, userID := seedHunter(t, db)
	habitSvc := NewHabitService(db, progSvc)

	habit := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "Morning meditation",
		Frequency: "daily",
	}
	require.NoError(t, db.Create(&habit).Error)

	day1 := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	first, err := habitSvc.Track(userID, habit.ID, day1)
	require.NoError(t, err)
	assert.False(t, first.AlreadyTracked)
	assert.Equal(t, 1, first.CurrentStreak)
	assert.Equal(t, int64(30), first.XPGained)

	// Same calendar day: no streak change, no XP
	replay, err := habitSvc.Track(userID, habit.ID, day1.Add(10*time.Hour))
	require.NoError(t, err)
	assert.True(t, replay.AlreadyTracked)
	assert.Equal(t, 1, replay.CurrentStreak)
	assert.Zero(t, replay.XPGained)

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", userID).First(&prog).Error)
	assert.Equal(t, int64(30), prog.XP)
	assert.Equal(t, int64(1), prog.HabitsCompleted)

	// The next day continues the streak
	next, err := habitSvc.Track(userID, habit.ID, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, next.AlreadyTracked)
	assert.Equal(t, 2, next.CurrentStreak)
	assert.Equal(t, 2, next.BestStreak)
}

func TestGetProgressSnapshot_DoesNotWrite(t *testing.T) {
	db := openTestDB(t)
	svc := NewProgressionService(db)
	require.NoError(t, svc.SeedAchievementCatalog())

	_, err := svc.GetProgressSnapshot("no-such-hunter")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The read must not have created a progress row
	var count int64
	require.NoError(t, db.Model(&models.UserProgress{}).Count(&count).Error)
	assert.Zero(t, count)
}
