package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

// GetAdminStats returns document counts for the admin dashboard.
func GetAdminStats(c *fiber.Ctx) error {
	ctx, cancel := database.OpCtx()
	defer cancel()

	userCount, err := database.Users().CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.Upstream("Failed to count users", err)
	}

	bookingCount, err := database.Bookings().CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.Upstream("Failed to count bookings", err)
	}

	materialCount, err := database.Materials().CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.Upstream("Failed to count materials", err)
	}

	pendingCount, err := database.Sessions().CountDocuments(ctx, bson.M{"status": models.SessionPending})
	if err != nil {
		return utils.Upstream("Failed to count pending sessions", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"users":           userCount,
		"bookings":        bookingCount,
		"materials":       materialCount,
		"pendingSessions": pendingCount,
	})
}
