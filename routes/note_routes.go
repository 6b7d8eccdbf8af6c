package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func NoteRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notes := api.Group("/notes", middleware.Protected(), middleware.RoleRequired(models.RoleStudent))
	notes.Post("", handlers.CreateNote)
	notes.Get("/:email", handlers.ListNotes)
	notes.Put("/:id", handlers.UpdateNote)
	notes.Delete("/:id", handlers.DeleteNote)
}
