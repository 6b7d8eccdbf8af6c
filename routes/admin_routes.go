package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/admin-stats", middleware.Protected(), middleware.RoleRequired(models.RoleAdmin), handlers.GetAdminStats)
}
