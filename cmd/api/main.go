package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/jobs"
	"github.com/studyhive/study_hive/notifications"
	"github.com/studyhive/study_hive/routes"
	"github.com/studyhive/study_hive/utils"
	"github.com/studyhive/study_hive/websocket"
)

func main() {
	database.ConnectDB()
	database.SeedAdmin()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("0 8 * * *", jobs.SendPendingReviewDigest)
	c.Start()
	log.Println("✅ Cron job for review digest scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "studyHive",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  utils.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "studyHive is running",
		})
	})

	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.SessionRoutes(app)
	routes.MaterialRoutes(app)
	routes.BookingRoutes(app)
	routes.ReviewRoutes(app)
	routes.NoteRoutes(app)
	routes.RejectionRoutes(app)
	routes.PaymentRoutes(app)
	routes.AdminRoutes(app)
	routes.UploadRoutes(app)
	routes.NotificationRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Shutdown hook: the store client release path must stay reachable.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("🔥 Server shutdown failed: %v", err)
		}
	}()

	port := config.ConfigOr("PORT", "5000")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}

	c.Stop()
	database.Disconnect()
}
