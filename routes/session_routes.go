package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/tutors", handlers.ListSessions)
	api.Get("/tutor", handlers.SearchSessions)

	api.Get("/tutors/owner/:email", middleware.Protected(), middleware.RoleRequired(models.RoleTutor), handlers.ListSessionsByOwner)
	api.Post("/tutors", middleware.Protected(), middleware.RoleRequired(models.RoleTutor), handlers.CreateSession)
	api.Put("/tutors/:id", middleware.Protected(), middleware.RoleRequired(models.RoleAdmin), handlers.TransitionSession)

	// Admin-or-owner is decided in the handler; the route only requires a
	// verified token.
	api.Delete("/tutors/:id", middleware.Protected(), handlers.DeleteSession)
}
