package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"hunter-progression-system/models"

	"gorm.io/gorm"
)

// StreakSweeper resets lapsed habit streaks. A daily habit streak lapses
// once a full calendar day passes without a completion; the sweep zeroes
// current_streak while best_streak keeps the high-water mark.
type StreakSweeper struct {
	DB *gorm.DB
}

func NewStreakSweeper(db *gorm.DB) *StreakSweeper {
	return &StreakSweeper{DB: db}
}

// SweepOnce resets every daily habit whose last completion is older than
// yesterday. Habits never completed keep their zero streak untouched.
func (s *StreakSweeper) SweepOnce(ctx context.Context, now time.Time) (int64, error) {
	yesterday := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	result := s.DB.WithContext(ctx).
		Model(&models.Habit{}).
		Where("frequency = ?", "daily").
		Where("current_streak > 0").
		Where("last_completed IS NOT NULL AND last_completed < ?", yesterday).
		Update("current_streak", 0)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset lapsed habit streaks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// PollStreaks runs the sweep on a fixed interval until the context is done.
func PollStreaks(ctx context.Context, sweeper *StreakSweeper, pollInterval time.Duration) {
	log.Println("Starting habit streak sweeper...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Habit streak sweeper stopped.")
			return
		case <-ticker.C:
			reset, err := sweeper.SweepOnce(ctx, time.Now())
			if err != nil {
				log.Printf("❌ Streak sweep failed: %v", err)
				continue
			}
			if reset > 0 {
				log.Printf("💤 Reset %d lapsed habit streak(s)", reset)
			}
		}
	}
}
