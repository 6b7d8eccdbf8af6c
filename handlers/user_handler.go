package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
	Role  string `json:"role" validate:"omitempty,oneof=student tutor admin"`
}

// CreateUser stores a user on first registration; repeated registrations
// with the same email leave the stored document untouched.
func CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	count, err := database.Users().CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		return utils.Upstream("Failed to check for existing user", err)
	}
	if count > 0 {
		return c.JSON(fiber.Map{"success": false, "message": "User already exists."})
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Photo:     req.Photo,
		Role:      role,
		CreatedAt: time.Now(),
	}

	result, err := database.Users().InsertOne(ctx, user)
	if err != nil {
		return utils.Upstream("Failed to create user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "User added successfully.",
		"insertedId": result.InsertedID,
	})
}

func GetUserRole(c *fiber.Ctx) error {
	email := c.Params("email")

	ctx, cancel := database.OpCtx()
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("User not found.")
	}
	if err != nil {
		return utils.Upstream("Failed to look up user", err)
	}

	return c.JSON(fiber.Map{"success": true, "role": user.Role})
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student tutor admin"`
}

// UpdateUserRole is admin-guarded at the route level.
func UpdateUserRole(c *fiber.Ctx) error {
	email := c.Params("email")

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	result, err := database.Users().UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": req.Role}},
	)
	if err != nil {
		return utils.Upstream("Failed to update role", err)
	}
	if result.MatchedCount == 0 {
		return utils.NotFound("User not found.")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Role updated successfully."})
}

func ListUsers(c *fiber.Ctx) error {
	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Users().Find(ctx, bson.M{})
	if err != nil {
		return utils.Upstream("Failed to list users", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return utils.Upstream("Failed to decode users", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": users})
}
