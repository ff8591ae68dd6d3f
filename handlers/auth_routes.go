// handlers/auth_routes.go
package handlers

import (
	"hunter-progression-system/middleware"
	"hunter-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// 🔓 Public routes: registration and login issue their own tokens
	app.Post("/auth/register", authService.Register)
	app.Post("/auth/login", authService.Login)

	// 🔐 Profile routes: require user context
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/profile", authService.GetProfile)
	secured.Put("/user/profile", authService.UpdateProfile)
	secured.Patch("/user/profile", authService.UpdateProfile)
	secured.Post("/user/avatar", authService.UploadAvatar)
}
