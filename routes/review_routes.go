package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func ReviewRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/reviews/:sessionId", handlers.ListReviewsBySession)
	api.Post("/reviews", middleware.Protected(), middleware.RoleRequired(models.RoleStudent), handlers.CreateReview)
}
