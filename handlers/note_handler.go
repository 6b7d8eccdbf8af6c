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

type NoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func CreateNote(c *fiber.Ctx) error {
	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	now := time.Now()
	note := models.Note{
		StudentEmail: middleware.ClaimEmail(c),
		Title:        req.Title,
		Content:      req.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	result, err := database.Notes().InsertOne(ctx, note)
	if err != nil {
		return utils.Upstream("Failed to create note", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Note added successfully.",
		"insertedId": result.InsertedID,
	})
}

func ListNotes(c *fiber.Ctx) error {
	email := c.Params("email")
	if email != middleware.ClaimEmail(c) {
		return utils.Forbidden("Forbidden Access! You may only view your own notes.")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Notes().Find(ctx, bson.M{"studentEmail": email})
	if err != nil {
		return utils.Upstream("Failed to list notes", err)
	}

	notes := []models.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return utils.Upstream("Failed to decode notes", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": notes})
}

func loadOwnedNote(c *fiber.Ctx) (*models.Note, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, utils.Validation("Invalid note id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	var note models.Note
	err = database.Notes().FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("Note not found.")
	}
	if err != nil {
		return nil, utils.Upstream("Failed to look up note", err)
	}

	if note.StudentEmail != middleware.ClaimEmail(c) {
		return nil, utils.Forbidden("Forbidden Access! You may only manage your own notes.")
	}
	return &note, nil
}

func UpdateNote(c *fiber.Ctx) error {
	note, err := loadOwnedNote(c)
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	_, err = database.Notes().UpdateOne(ctx,
		bson.M{"_id": note.ID},
		bson.M{"$set": bson.M{"title": req.Title, "content": req.Content, "updatedAt": time.Now()}},
	)
	if err != nil {
		return utils.Upstream("Failed to update note", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Note updated successfully."})
}

func DeleteNote(c *fiber.Ctx) error {
	note, err := loadOwnedNote(c)
	if err != nil {
		return err
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	if _, err := database.Notes().DeleteOne(ctx, bson.M{"_id": note.ID}); err != nil {
		return utils.Upstream("Failed to delete note", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Note deleted successfully."})
}
