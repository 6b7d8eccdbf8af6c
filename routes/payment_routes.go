package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studyhive/study_hive/handlers"
	"github.com/studyhive/study_hive/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/create-payment-intent", middleware.Protected(), handlers.CreatePaymentIntent)
}
