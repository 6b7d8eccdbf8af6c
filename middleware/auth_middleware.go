package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"success": false, "message": "Invalid or expired JWT"})
}

// ClaimEmail pulls the email claim the token was minted with.
func ClaimEmail(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// ForbiddenMessage is the role-specific rejection line the guard emits.
func ForbiddenMessage(role string) string {
	label := role
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return fmt.Sprintf("Forbidden Access! %s Only Actions!", label)
}

// RoleRequired gates a handler on the caller's stored role. The stored
// role is re-read on every call; claims alone are not trusted for role
// checks, since an admin may have changed the role after the token was
// minted.
func RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := ClaimEmail(c)
		if email == "" {
			return utils.Forbidden(ForbiddenMessage(role))
		}

		ctx, cancel := database.OpCtx()
		defer cancel()

		var user models.User
		err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.Forbidden(ForbiddenMessage(role))
		}
		if err != nil {
			return utils.Upstream("Failed to verify access", err)
		}

		if user.Role != role {
			return utils.Forbidden(ForbiddenMessage(role))
		}
		return c.Next()
	}
}
