// handlers/quest_routes.go
package handlers

import (
	"hunter-progression-system/middleware"
	"hunter-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService) {
	// 🔐 All quest routes are per-user, so everything goes through user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/quests", questService.CreateQuest)
	secured.Get("/quests", questService.GetQuests)
	secured.Get("/quests/:id", questService.GetQuestByID)
	secured.Put("/quests/:id", questService.UpdateQuest)
	secured.Patch("/quests/:id", questService.UpdateQuest)
	secured.Delete("/quests/:id", questService.DeleteQuest)

	// Completion is the XP-bearing operation; it is idempotent per quest
	secured.Post("/quests/:id/complete", questService.CompleteQuest)
}
