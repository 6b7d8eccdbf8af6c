package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/jwt", handlers.IssueToken)
	api.Post("/auth/admin/login", handlers.AdminLogin)
}
