package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

var validate = validator.New()

const tokenLifetime = time.Hour

type TokenRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
	Role  string `json:"role"`
}

func signClaims(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

// IssueToken mints a short-lived token embedding the caller-supplied
// claims. Role checks never trust these claims alone: guarded routes
// re-read the stored role.
func IssueToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	claims := jwt.MapClaims{
		"name":  req.Name,
		"email": req.Email,
		"photo": req.Photo,
		"role":  req.Role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}

	t, err := signClaims(claims)
	if err != nil {
		return utils.Upstream("Failed to create token", err)
	}

	return c.JSON(fiber.Map{"success": true, "token": t})
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin verifies the seeded admin's password before minting a token.
func AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return utils.Upstream("Failed to look up user", err)
	}

	if user.Password == "" || user.Role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	claims := jwt.MapClaims{
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}

	t, err := signClaims(claims)
	if err != nil {
		return utils.Upstream("Failed to create token", err)
	}

	return c.JSON(fiber.Map{"success": true, "token": t})
}
