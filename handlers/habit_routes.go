// handlers/habit_routes.go
package handlers

import (
	"hunter-progression-system/middleware"
	"hunter-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHabitRoutes(app *fiber.App, habitService *services.HabitService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/habits", habitService.CreateHabit)
	secured.Get("/habits", habitService.GetHabits)
	secured.Delete("/habits/:id", habitService.DeleteHabit)

	// Tracking bumps the streak once per calendar day and feeds the counter
	secured.Post("/habits/:id/track", habitService.TrackHabit)
}
