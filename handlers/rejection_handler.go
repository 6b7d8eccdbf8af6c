package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

type CreateRejectionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

func CreateRejection(c *fiber.Ctx) error {
	var req CreateRejectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	count, err := database.Sessions().CountDocuments(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return utils.Upstream("Failed to verify session", err)
	}
	if count == 0 {
		return utils.NotFound("Session not found.")
	}

	rejection := models.Rejection{
		SessionID:  sessionID,
		Reason:     req.Reason,
		AdminEmail: middleware.ClaimEmail(c),
		CreatedAt:  time.Now(),
	}

	result, err := database.Rejections().InsertOne(ctx, rejection)
	if err != nil {
		return utils.Upstream("Failed to record rejection", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Rejection recorded.",
		"insertedId": result.InsertedID,
	})
}

func ListRejectionsBySession(c *fiber.Ctx) error {
	sessionID, err := primitive.ObjectIDFromHex(c.Params("sessionId"))
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Rejections().Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return utils.Upstream("Failed to list rejections", err)
	}

	rejections := []models.Rejection{}
	if err := cursor.All(ctx, &rejections); err != nil {
		return utils.Upstream("Failed to decode rejections", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": rejections})
}
