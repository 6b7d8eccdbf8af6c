package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func MaterialRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/materials/session/:sessionId", middleware.Protected(), handlers.ListMaterialsBySession)

	tutor := api.Group("/materials", middleware.Protected(), middleware.RoleRequired(models.RoleTutor))
	tutor.Post("", handlers.CreateMaterial)
	tutor.Get("/tutor/:email", handlers.ListMaterialsByTutor)
	tutor.Put("/:id", handlers.UpdateMaterial)
	tutor.Delete("/:id", handlers.DeleteMaterial)
}
