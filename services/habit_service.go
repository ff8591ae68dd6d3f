package services

import (
	"errors"
	"time"

	"hunter-progression-system/models"
	"hunter-progression-system/progression"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewHabitService(db *gorm.DB, progression *ProgressionService) *HabitService {
	return &HabitService{DB: db, Progression: progression}
}

var validFrequencies = map[string]bool{"daily": true, "weekly": true, "monthly": true}

// CreateHabit registers a recurring habit for the hunter.
func (s *HabitService) CreateHabit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description"`
		Frequency   string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if !validFrequencies[req.Frequency] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "frequency must be daily, weekly or monthly"})
	}

	habit := models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	if err := s.DB.Create(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create habit", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

// GetHabits lists the hunter's habits with their streaks.
func (s *HabitService) GetHabits(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var habits []models.Habit
	if err := s.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list habits", "cause": err.Error()})
	}
	return c.JSON(habits)
}

// DeleteHabit removes a habit (soft delete).
func (s *HabitService) DeleteHabit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	res := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Habit{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete habit", "cause": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "habit not found"})
	}
	return c.JSON(fiber.Map{"message": "habit deleted"})
}

// HabitTrackResult reports one tracking attempt. AlreadyTracked marks the
// same-day replay: no streak change, no XP.
type HabitTrackResult struct {
	AlreadyTracked bool                       `json:"already_tracked"`
	CurrentStreak  int                        `json:"current_streak"`
	BestStreak     int                        `json:"best_streak"`
	XPGained       int64                      `json:"xp_gained"`
	Notifications  []progression.Notification `json:"notifications"`
}

// Track records one habit completion: advances the per-habit streak, bumps
// the habits_completed counter and grants the habit XP. The same-day check,
// the streak save and the XP grant run in one transaction with the habit
// row locked, so two concurrent tracks cannot both count.
func (s *HabitService) Track(userID, habitID string, now time.Time) (*HabitTrackResult, error) {
	var result *HabitTrackResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", habitID, userID).
			First(&habit).Error
		if err != nil {
			return err
		}

		today := progression.DayOf(now)
		yesterday := today.AddDate(0, 0, -1)

		if habit.LastCompleted != nil && !habit.LastCompleted.Before(today) {
			result = &HabitTrackResult{
				AlreadyTracked: true,
				CurrentStreak:  habit.CurrentStreak,
				BestStreak:     habit.BestStreak,
			}
			return nil
		}

		// Streak continues only when the previous completion was yesterday
		if habit.LastCompleted == nil || habit.LastCompleted.Before(yesterday) {
			habit.CurrentStreak = 1
		} else {
			habit.CurrentStreak++
		}
		if habit.CurrentStreak > habit.BestStreak {
			habit.BestStreak = habit.CurrentStreak
		}
		habit.LastCompleted = &now
		if err := tx.Save(&habit).Error; err != nil {
			return err
		}

		activity, err := s.Progression.applyInTx(tx, userID,
			progression.CounterHabitsCompleted, 1, s.Progression.Weights.HabitXP,
			"habit_"+habit.ID)
		if err != nil {
			return err
		}

		result = &HabitTrackResult{
			CurrentStreak: habit.CurrentStreak,
			BestStreak:    habit.BestStreak,
			XPGained:      activity.XPGained,
			Notifications: activity.Notifications,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TrackHabit is the HTTP face of Track. Tracking the same habit twice in a
// day is a signaled no-op, never an error.
func (s *HabitService) TrackHabit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	result, err := s.Track(userID, id, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "habit not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to track habit", "cause": err.Error()})
	}

	if result.AlreadyTracked {
		return c.JSON(fiber.Map{
			"success":        false,
			"message":        "habit already tracked today",
			"current_streak": result.CurrentStreak,
			"best_streak":    result.BestStreak,
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "habit tracked successfully",
		"current_streak": result.CurrentStreak,
		"best_streak":    result.BestStreak,
		"xp_gained":      result.XPGained,
		"notifications":  result.Notifications,
	})
}
