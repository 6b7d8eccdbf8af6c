package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

type MaterialRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Link      string `json:"link" validate:"required,url"`
	ImageURL  string `json:"imageUrl" validate:"omitempty,url"`
}

func CreateMaterial(c *fiber.Ctx) error {
	var req MaterialRequest
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

	// Soft reference: the session must exist at write time, but deleting
	// it later will not remove this material.
	count, err := database.Sessions().CountDocuments(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return utils.Upstream("Failed to verify session", err)
	}
	if count == 0 {
		return utils.NotFound("Session not found.")
	}

	material := models.Material{
		SessionID:  sessionID,
		TutorEmail: middleware.ClaimEmail(c),
		Title:      req.Title,
		Link:       req.Link,
		ImageURL:   req.ImageURL,
		CreatedAt:  time.Now(),
	}

	result, err := database.Materials().InsertOne(ctx, material)
	if err != nil {
		return utils.Upstream("Failed to create material", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Material added successfully.",
		"insertedId": result.InsertedID,
	})
}

func ListMaterialsBySession(c *fiber.Ctx) error {
	sessionID, err := primitive.ObjectIDFromHex(c.Params("sessionId"))
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Materials().Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return utils.Upstream("Failed to list materials", err)
	}

	materials := []models.Material{}
	if err := cursor.All(ctx, &materials); err != nil {
		return utils.Upstream("Failed to decode materials", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": materials})
}

func ListMaterialsByTutor(c *fiber.Ctx) error {
	email := c.Params("email")

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Materials().Find(ctx, bson.M{"tutorEmail": email})
	if err != nil {
		return utils.Upstream("Failed to list materials", err)
	}

	materials := []models.Material{}
	if err := cursor.All(ctx, &materials); err != nil {
		return utils.Upstream("Failed to decode materials", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": materials})
}

func loadOwnedMaterial(c *fiber.Ctx) (*models.Material, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, utils.Validation("Invalid material id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	var material models.Material
	err = database.Materials().FindOne(ctx, bson.M{"_id": id}).Decode(&material)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("Material not found.")
	}
	if err != nil {
		return nil, utils.Upstream("Failed to look up material", err)
	}

	if material.TutorEmail != middleware.ClaimEmail(c) {
		return nil, utils.Forbidden("Forbidden Access! You may only manage your own materials.")
	}
	return &material, nil
}

type UpdateMaterialRequest struct {
	Title    string `json:"title" validate:"required"`
	Link     string `json:"link" validate:"required,url"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

func UpdateMaterial(c *fiber.Ctx) error {
	material, err := loadOwnedMaterial(c)
	if err != nil {
		return err
	}

	var req UpdateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	_, err = database.Materials().UpdateOne(ctx,
		bson.M{"_id": material.ID},
		bson.M{"$set": bson.M{"title": req.Title, "link": req.Link, "imageUrl": req.ImageURL}},
	)
	if err != nil {
		return utils.Upstream("Failed to update material", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Material updated successfully."})
}

func DeleteMaterial(c *fiber.Ctx) error {
	material, err := loadOwnedMaterial(c)
	if err != nil {
		return err
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	if _, err := database.Materials().DeleteOne(ctx, bson.M{"_id": material.ID}); err != nil {
		return utils.Upstream("Failed to delete material", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Material deleted successfully."})
}
