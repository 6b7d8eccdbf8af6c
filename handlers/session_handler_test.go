package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
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
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/utils"
)

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		name       string
		search     string
		sortBy     string
		order      string
		wantFilter bson.M
		wantSort   bson.D
	}{
		{
			name:       "defaults to fee ascending with no filter",
			wantFilter: bson.M{},
			wantSort:   bson.D{{Key: "registrationFee", Value: 1}},
		},
		{
			name:       "case-insensitive substring match on title",
			search:     "bio",
			wantFilter: bson.M{"title": bson.M{"$regex": "bio", "$options": "i"}},
			wantSort:   bson.D{{Key: "registrationFee", Value: 1}},
		},
		{
			name:       "descending fee sort",
			search:     "bio",
			sortBy:     "registrationFee",
			order:      "desc",
			wantFilter: bson.M{"title": bson.M{"$regex": "bio", "$options": "i"}},
			wantSort:   bson.D{{Key: "registrationFee", Value: -1}},
		},
		{
			name:       "custom sort field",
			sortBy:     "title",
			order:      "asc",
			wantFilter: bson.M{},
			wantSort:   bson.D{{Key: "title", Value: 1}},
		},
		{
			name:       "regex metacharacters are matched literally",
			search:     "c++ (advanced)",
			wantFilter: bson.M{"title": bson.M{"$regex": `c\+\+ \(advanced\)`, "$options": "i"}},
			wantSort:   bson.D{{Key: "registrationFee", Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, sort := SearchQuery(tt.search, tt.sortBy, tt.order)
			assert.Equal(t, tt.wantFilter, filter)
			assert.Equal(t, tt.wantSort, sort)
		})
	}
}

func sessionApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Put("/tutors/:id", TransitionSession)
	app.Delete("/tutors/:id", middleware.Protected(), DeleteSession)
	return app
}

func sessionToken(t testing.TB, email string) string {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func transitionRequest(id, query, body string) *http.Request {
	target := "/tutors/" + id
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func storedSession(id primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: "tutor@example.com"},
		{Key: "name", Value: "Tunde Bello"},
		{Key: "title", Value: "Biology"},
		{Key: "status", Value: status},
		{Key: "registrationFee", Value: 50.0},
	}
}

func TestTransitionSessionMissingID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown id is not found by default", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		resp, err := sessionApp().Test(transitionRequest(primitive.NewObjectID().Hex(), "", `{"status":"approved","registrationFee":50}`))
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusNotFound, resp.StatusCode)

		upsertVal, lookupErr := mt.GetStartedEvent().Command.LookupErr("updates", "0", "upsert")
		require.NoError(mt, lookupErr)
		assert.False(mt, upsertVal.Boolean())
	})

	mt.Run("upsert is an explicit opt-in", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
				bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
			),
			mtest.CreateCursorResponse(0, "studyHive.tutors", mtest.FirstBatch, storedSession(id, models.SessionApproved)),
		)

		resp, err := sessionApp().Test(transitionRequest(id.Hex(), "upsert=true", `{"status":"approved","registrationFee":50}`))
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		upsertVal, lookupErr := mt.GetStartedEvent().Command.LookupErr("updates", "0", "upsert")
		require.NoError(mt, lookupErr)
		assert.True(mt, upsertVal.Boolean())
	})
}

func TestTransitionSessionRepeatable(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("repeating a decision issues the same partial update", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		id := primitive.NewObjectID()
		app := sessionApp()

		for i := 0; i < 2; i++ {
			mt.AddMockResponses(
				mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1 - i}),
				mtest.CreateCursorResponse(0, "studyHive.tutors", mtest.FirstBatch, storedSession(id, models.SessionApproved)),
			)
			resp, err := app.Test(transitionRequest(id.Hex(), "", `{"status":"approved","registrationFee":50}`))
			require.NoError(mt, err)
			assert.Equal(mt, fiber.StatusOK, resp.StatusCode)
		}

		var sets []bson.Raw
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName != "update" {
				continue
			}
			sets = append(sets, evt.Command.Lookup("updates", "0", "u", "$set").Document())
		}
		require.Len(mt, sets, 2)
		assert.Equal(mt, sets[0], sets[1])
		assert.Equal(mt, "approved", sets[0].Lookup("status").StringValue())
		assert.Equal(mt, 50.0, sets[0].Lookup("registrationFee").Double())
	})
}

func TestTransitionSessionRejectionRecordedOnce(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("replayed rejection keeps a single rejection record", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		id := primitive.NewObjectID()
		app := sessionApp()
		body := `{"status":"rejected","registrationFee":0,"reason":"Description too vague"}`

		// First rejection: nothing recorded yet, one insert.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, "studyHive.tutors", mtest.FirstBatch, storedSession(id, models.SessionRejected)),
			mtest.CreateCursorResponse(0, "studyHive.rejections", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)
		resp, err := app.Test(transitionRequest(id.Hex(), "", body))
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		// Replayed rejection: the record already exists, no second insert.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "studyHive.tutors", mtest.FirstBatch, storedSession(id, models.SessionRejected)),
			mtest.CreateCursorResponse(0, "studyHive.rejections", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)
		resp, err = app.Test(transitionRequest(id.Hex(), "", body))
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		inserts := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "insert" && evt.Command.Lookup("insert").StringValue() == "rejections" {
				inserts++
			}
		}
		assert.Equal(mt, 1, inserts)
	})
}

func TestDeleteSessionLeavesReferencingDocuments(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("delete touches only the sessions collection", func(mt *mtest.T) {
		database.DB = mt.Client.Database("studyHive")
		id := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "studyHive.users", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "email", Value: "admin@example.com"},
				{Key: "role", Value: models.RoleAdmin},
			}),
			mtest.CreateCursorResponse(0, "studyHive.tutors", mtest.FirstBatch, storedSession(id, models.SessionApproved)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodDelete, "/tutors/"+id.Hex(), nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(mt.T, "admin@example.com"))
		resp, err := sessionApp().Test(req)
		require.NoError(mt, err)
		assert.Equal(mt, fiber.StatusOK, resp.StatusCode)

		// Materials, bookings, and reviews referencing the session must be
		// left in place: exactly one delete, aimed at sessions.
		deletes := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName != "delete" {
				continue
			}
			deletes++
			assert.Equal(mt, "tutors", evt.Command.Lookup("delete").StringValue())
		}
		assert.Equal(mt, 1, deletes)
	})
}
