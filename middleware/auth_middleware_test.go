package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

func TestForbiddenMessage(t *testing.T) {
	tests := []struct {
		role     string
		expected string
	}{
		{"admin", "Forbidden Access! Admin Only Actions!"},
		{"student", "Forbidden Access! Student Only Actions!"},
		{"tutor", "Forbidden Access! Tutor Only Actions!"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ForbiddenMessage(tt.role))
	}
}

func guardToken(t testing.TB, email string) string {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestRoleRequiredChecksStoredRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	adminOnly := func(mt *mtest.T) (*http.Response, error) {
		app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
		app.Get("/admin-only", Protected(), RoleRequired(models.RoleAdmin), func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		})

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+guardToken(mt.T, "caller@example.com"))
		return app.Test(req)
	}

	storedUser := func(role string) bson.D {
		return bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "caller@example.com"},
			{Key: "role", Value: role},
		}
	}

	mt.Run("passes when the stored role matches", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyHive.users", mtest.FirstBatch, storedUser(models.RoleAdmin)))

		resp, err := adminOnly(mt)
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)
	})

	mt.Run("rejects a mismatched stored role", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyHive.users", mtest.FirstBatch, storedUser(models.RoleStudent)))

		resp, err := adminOnly(mt)
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusForbidden, resp.StatusCode)

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(mt, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(mt, body.Success)
		assert.Equal(mt, ForbiddenMessage(models.RoleAdmin), body.Error.Message)
	})

	mt.Run("rejects a caller with no stored account", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyHive.users", mtest.FirstBatch))

		resp, err := adminOnly(mt)
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusForbidden, resp.StatusCode)
	})

	mt.Run("reports a store failure instead of denying", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized on studyHive",
			Name:    "Unauthorized",
		}))

		resp, err := adminOnly(mt)
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusBadGateway, resp.StatusCode)
	})
}
