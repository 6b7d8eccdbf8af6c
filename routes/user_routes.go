package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/users", handlers.CreateUser)
	api.Get("/users/role/:email", handlers.GetUserRole)

	admin := api.Group("/users", middleware.Protected(), middleware.RoleRequired(models.RoleAdmin))
	admin.Get("", handlers.ListUsers)
	admin.Patch("/role/:email", handlers.UpdateUserRole)
}
