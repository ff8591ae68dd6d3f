// handlers/reward_routes.go
package handlers

import (
	"hunter-progression-system/middleware"
	"hunter-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, rewardService *services.RewardService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/rewards", rewardService.GetAvailableRewards)
	secured.Get("/user/rewards", rewardService.GetMyRewards)
	secured.Post("/rewards/:id/claim", rewardService.ClaimReward)

	// SSE stream: EventSource cannot set headers, so the token rides the query string
	app.Get("/user/rewards/stream", middleware.SSEAuthMiddleware(), rewardService.StreamRewardsSSE)

	// Admin catalog management
	adminGroup := app.Group("/admin", middleware.UserContextMiddleware(), middleware.AdminOnlyMiddleware())

	adminGroup.Post("/rewards", rewardService.CreateReward)
	adminGroup.Put("/rewards/:id", rewardService.UpdateReward)
	adminGroup.Patch("/rewards/:id", rewardService.UpdateReward)
	adminGroup.Delete("/rewards/:id", rewardService.DeleteReward)
}
