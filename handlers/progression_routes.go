// handlers/progression_routes.go
package handlers

import (
	"errors"
	"fmt"

	"hunter-progression-system/middleware"
	"hunter-progression-system/models"
	"hunter-progression-system/progression"
	"hunter-progression-system/services"
	"hunter-progression-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Current progress view: level, rank, xp bar, stats, counters, achievements
	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		snapshot, err := progressionService.GetProgressSnapshot(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "progress record not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(snapshot)
	})

	secured.Get("/user/progress/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		earned, err := progressionService.GetEarnedAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load achievements",
				"cause": err.Error(),
			})
		}

		response := make([]fiber.Map, len(earned))
		for i, ea := range earned {
			response[i] = fiber.Map{
				"id":          ea.ID,
				"code":        ea.AchievementType.Code,
				"title":       ea.AchievementType.Title,
				"description": ea.AchievementType.Description,
				"category":    ea.AchievementType.Category,
				"icon":        ea.AchievementType.Icon,
				"earned_at":   ea.EarnedAt,
			}
		}
		return c.JSON(response)
	})

	// Full catalog, for the achievements page
	secured.Get("/achievements/catalog", func(c *fiber.Ctx) error {
		return c.JSON(progression.Catalog)
	})

	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		top, err := progressionService.GetLeaderboard(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
				"cause": err.Error(),
			})
		}

		response := make([]fiber.Map, len(top))
		for i, prog := range top {
			response[i] = fiber.Map{
				"rank_position": i + 1,
				"user_id":       prog.UserID,
				"xp":            prog.XP,
				"level":         prog.Level,
				"rank":          prog.Rank,
			}
		}
		return c.JSON(response)
	})

	// Activity endpoints: each increments its counter, grants the activity
	// XP and reports every resulting notification in one response.
	type activityRoute struct {
		path    string
		counter progression.Counter
		xp      func(w progression.XPWeights) int64
	}
	routes := []activityRoute{
		{"/activities/meditation", progression.CounterMeditationStreak, func(w progression.XPWeights) int64 { return w.MeditationXP }},
		{"/activities/book", progression.CounterBooksRead, func(w progression.XPWeights) int64 { return w.BookXP }},
		{"/activities/habit", progression.CounterHabitsCompleted, func(w progression.XPWeights) int64 { return w.HabitXP }},
		{"/activities/goal", progression.CounterGoalsAchieved, func(w progression.XPWeights) int64 { return w.GoalXP }},
	}
	for _, route := range routes {
		counter := route.counter
		xp := route.xp(progressionService.Weights)

		secured.Post(route.path, func(c *fiber.Ctx) error {
			userID := c.Locals("user_id").(string)

			result, err := progressionService.ProcessActivity(userID, counter, 1, xp, string(counter))
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to record activity",
					"cause": err.Error(),
				})
			}

			snapshot, err := progressionService.GetProgressSnapshot(userID)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to load progress",
					"cause": err.Error(),
				})
			}

			return c.JSON(fiber.Map{
				"success":       true,
				"message":       fmt.Sprintf("%s +1", utils.HumanizeCounter(string(counter))),
				"xp_gained":     result.XPGained,
				"notifications": result.Notifications,
				"progress":      snapshot,
			})
		})
	}

	// Admin endpoints
	adminGroup := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.XP < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "xp must be non-negative",
			})
		}

		result, err := progressionService.GrantXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message":       "XP granted successfully",
			"user_id":       req.UserID,
			"xp":            req.XP,
			"notifications": result.Notifications,
		})
	})

	adminGroup.Get("/achievements/catalog", func(c *fiber.Ctx) error {
		var types []models.AchievementType
		if err := progressionService.DB.Order("created_at ASC").Find(&types).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load catalog",
				"cause": err.Error(),
			})
		}
		return c.JSON(types)
	})
}
