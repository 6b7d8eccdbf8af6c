package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/notifications"
	"github.com/studyhive/study_hive/utils"
	"github.com/studyhive/study_hive/websocket"
)

// CreateSession stores the tutor's payload verbatim, forcing ownership to
// the authenticated tutor and the initial status to pending when the
// payload carries none. Fee correctness is checked at payment time, not
// here.
func CreateSession(c *fiber.Ctx) error {
	var payload bson.M
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return utils.Validation("Cannot parse JSON")
	}

	payload["email"] = middleware.ClaimEmail(c)
	if _, ok := payload["status"]; !ok {
		payload["status"] = models.SessionPending
	}
	payload["createdAt"] = time.Now()

	ctx, cancel := database.OpCtx()
	defer cancel()

	result, err := database.Sessions().InsertOne(ctx, payload)
	if err != nil {
		return utils.Upstream("Failed to create session", err)
	}

	title, _ := payload["title"].(string)
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		websocket.Notify(&websocket.SessionEvent{
			Type:       websocket.EventSessionSubmitted,
			SessionID:  id.Hex(),
			Title:      title,
			TutorEmail: payload["email"].(string),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Session submitted for review.",
		"insertedId": result.InsertedID,
	})
}

func ListSessions(c *fiber.Ctx) error {
	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Sessions().Find(ctx, bson.M{})
	if err != nil {
		return utils.Upstream("Failed to list sessions", err)
	}

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return utils.Upstream("Failed to decode sessions", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sessions})
}

// SearchQuery turns the search/sortBy/order query params into a store
// filter and sort document. Title matching is a case-insensitive
// substring match; sorting defaults to registrationFee ascending.
func SearchQuery(search, sortBy, order string) (bson.M, bson.D) {
	filter := bson.M{}
	if search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	sortField := sortBy
	if sortField == "" {
		sortField = "registrationFee"
	}

	direction := 1
	if order == "desc" {
		direction = -1
	}

	return filter, bson.D{{Key: sortField, Value: direction}}
}

func SearchSessions(c *fiber.Ctx) error {
	filter, sort := SearchQuery(c.Query("search"), c.Query("sortBy"), c.Query("order"))

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Sessions().Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return utils.Upstream("Failed to search sessions", err)
	}

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return utils.Upstream("Failed to decode sessions", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sessions})
}

func ListSessionsByOwner(c *fiber.Ctx) error {
	email := c.Params("email")

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Sessions().Find(ctx, bson.M{"email": email})
	if err != nil {
		return utils.Upstream("Failed to list sessions", err)
	}

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return utils.Upstream("Failed to decode sessions", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sessions})
}

type TransitionRequest struct {
	Status          string  `json:"status" validate:"required,oneof=pending approved rejected"`
	RegistrationFee float64 `json:"registrationFee" validate:"gte=0"`
	Reason          string  `json:"reason"`
}

// TransitionSession applies the admin's review decision as a partial
// update. A missing id is an error unless the caller explicitly opts in
// to upsert semantics with ?upsert=true.
func TransitionSession(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.Validation(err.Error())
	}

	upsert := c.Query("upsert") == "true"

	ctx, cancel := database.OpCtx()
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":          req.Status,
		"registrationFee": req.RegistrationFee,
	}}

	result, err := database.Sessions().UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(upsert))
	if err != nil {
		return utils.Upstream("Failed to update session", err)
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return utils.NotFound("Session not found.")
	}

	var session models.Session
	if err := database.Sessions().FindOne(ctx, bson.M{"_id": id}).Decode(&session); err == nil {
		if req.Status == models.SessionRejected && req.Reason != "" {
			// Repeated transitions must not accrete duplicate rejection
			// records for the same decision.
			count, err := database.Rejections().CountDocuments(ctx, bson.M{"sessionId": id, "reason": req.Reason})
			if err != nil {
				return utils.Upstream("Failed to record rejection", err)
			}
			if count == 0 {
				rejection := models.Rejection{
					SessionID:  id,
					Reason:     req.Reason,
					AdminEmail: middleware.ClaimEmail(c),
					CreatedAt:  time.Now(),
				}
				if _, err := database.Rejections().InsertOne(ctx, rejection); err != nil {
					return utils.Upstream("Failed to record rejection", err)
				}
			}
		}
		notifyDecision(session, req.Status, req.Reason)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Session updated successfully."})
}

func notifyDecision(session models.Session, status, reason string) {
	eventType := ""
	switch status {
	case models.SessionApproved:
		eventType = websocket.EventSessionApproved
		go notifications.SendEmail(
			session.TutorName,
			session.TutorEmail,
			"Your Session has been Approved!",
			fmt.Sprintf("<h1>Congratulations!</h1><p>Your session <b>%s</b> has been approved and is now visible to students.</p>", session.Title),
		)
	case models.SessionRejected:
		eventType = websocket.EventSessionRejected
		body := fmt.Sprintf("<h1>Session Update</h1><p>Your session <b>%s</b> was not approved at this time.</p>", session.Title)
		if reason != "" {
			body += fmt.Sprintf("<p>Reason: %s</p>", reason)
		}
		go notifications.SendEmail(session.TutorName, session.TutorEmail, "Update on Your Session", body)
	default:
		return
	}

	websocket.Notify(&websocket.SessionEvent{
		Type:       eventType,
		SessionID:  session.ID.Hex(),
		Title:      session.Title,
		TutorEmail: session.TutorEmail,
		Status:     status,
		Reason:     reason,
	})
}

// DeleteSession allows an admin or the owning tutor to remove a session.
// Materials, bookings, and reviews referencing it are left in place.
func DeleteSession(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Validation("Invalid session id")
	}

	email := middleware.ClaimEmail(c)

	ctx, cancel := database.OpCtx()
	defer cancel()

	var caller models.User
	err = database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&caller)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.Forbidden("Forbidden Access! Only admins or the owning tutor may delete a session.")
	}
	if err != nil {
		return utils.Upstream("Failed to verify access", err)
	}

	var session models.Session
	err = database.Sessions().FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("Session not found.")
	}
	if err != nil {
		return utils.Upstream("Failed to look up session", err)
	}

	if caller.Role != models.RoleAdmin && session.TutorEmail != email {
		return utils.Forbidden("Forbidden Access! Only admins or the owning tutor may delete a session.")
	}

	if _, err := database.Sessions().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return utils.Upstream("Failed to delete session", err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Session deleted successfully."})
}
