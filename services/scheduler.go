// services/scheduler.go
package services

import (
	"log"
	"time"

	"hunter-progression-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartQuestScheduler runs the periodic quest sweeps: expiring quests whose
// deadline has passed, and re-opening daily quests each midnight.
func (s *QuestService) StartQuestScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: expire overdue open quests
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var quests []models.Quest
			now := time.Now()
			err := s.DB.Where("completed = ? AND expired = ? AND deadline IS NOT NULL AND deadline <= ?",
				false, false, now).
				Find(&quests).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, q := range quests {
				q.Expired = true
				if err := s.DB.Save(&q).Error; err != nil {
					log.Printf("[Scheduler] Failed to expire quest %s: %v", q.ID, err)
				} else {
					log.Printf("⌛ Quest expired: %s", q.Title)
				}
			}
		}),
	)

	// At midnight: re-open completed daily quests for the new day
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			res := s.DB.Model(&models.Quest{}).
				Where("quest_type = ? AND completed = ?", "daily", true).
				Updates(map[string]interface{}{
					"completed":    false,
					"completed_at": nil,
				})
			if res.Error != nil {
				log.Printf("[Scheduler] Failed to reset daily quests: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🌅 Reset %d daily quest(s) for the new day", res.RowsAffected)
			}
		}),
	)
}
