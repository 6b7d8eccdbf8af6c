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

type CreateReviewRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReview stores a student's one-off review; reviews are never
// edited or deleted afterwards.
func CreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
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

	review := models.Review{
		SessionID:    sessionID,
		StudentEmail: middleware.ClaimEmail(c),
		Rating:       req.Rating,
		Comment:      req.Comment,
		CreatedAt:    time.Now(),
	}

	result, err := database.Reviews().InsertOne(ctx, review)
	if err != nil {
		return utils.Upstream("Failed to create review", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Review added successfully.",
		"insertedId": result.InsertedID,
	})
}

func ListReviewsBySession(c *fiber.Ctx) error {
	sessionID, err := primitive.ObjectIDFromHex(c.Params("sessionId"))
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Reviews().Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return utils.Upstream("Failed to list reviews", err)
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return utils.Upstream("Failed to decode reviews", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}
