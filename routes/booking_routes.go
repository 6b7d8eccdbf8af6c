package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	studentOnly := middleware.RoleRequired(models.RoleStudent)
	api.Post("/booked", middleware.Protected(), studentOnly, handlers.CreateBooking)
	api.Get("/viewBooked", middleware.Protected(), studentOnly, handlers.ListBookings)
	api.Get("/booked/:id/receipt", middleware.Protected(), studentOnly, handlers.GetBookingReceipt)
}
