package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/middleware"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/notifications"
	"github.com/studyhive/study_hive/services"
	"github.com/studyhive/study_hive/utils"
)

type CreateBookingRequest struct {
	SessionID       string `json:"sessionId" validate:"required"`
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// CreateBooking records a student's purchase once payment has been
// confirmed client-side. Bookings are write-once; the receipt PDF and
// confirmation email run in the background.
func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
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

	var session models.Session
	err = database.Sessions().FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("Session not found.")
	}
	if err != nil {
		return utils.Upstream("Failed to look up session", err)
	}

	reference, err := utils.GenerateUniqueBookingReference(ctx, database.Bookings())
	if err != nil {
		return utils.Upstream("Failed to generate booking reference", err)
	}

	booking := models.Booking{
		SessionID:       sessionID,
		SessionTitle:    session.Title,
		TutorEmail:      session.TutorEmail,
		StudentEmail:    middleware.ClaimEmail(c),
		RegistrationFee: session.RegistrationFee,
		PaymentIntentID: req.PaymentIntentID,
		Reference:       reference,
		CreatedAt:       time.Now(),
	}

	result, err := database.Bookings().InsertOne(ctx, booking)
	if err != nil {
		return utils.Upstream("Failed to create booking", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = id
	}

	go services.GenerateBookingReceipt(booking)
	go notifications.SendEmail(
		"",
		booking.StudentEmail,
		"Your Booking is Confirmed!",
		fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your booking for <b>%s</b> is confirmed.</p><p>Reference: <b>%s</b></p>", booking.SessionTitle, booking.Reference),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Booking confirmed.",
		"reference": reference,
	})
}

func ListBookings(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		email = middleware.ClaimEmail(c)
	}
	if email != middleware.ClaimEmail(c) {
		return utils.Forbidden("Forbidden Access! You may only view your own bookings.")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	cursor, err := database.Bookings().Find(ctx, bson.M{"studentEmail": email})
	if err != nil {
		return utils.Upstream("Failed to list bookings", err)
	}

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return utils.Upstream("Failed to decode bookings", err)
	}

	return c.JSON(fiber.Map{"success": true, "data": bookings})
}

// GetBookingReceipt returns the receipt URL once the background
// generation has finished.
func GetBookingReceipt(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.Validation("Invalid booking id")
	}

	ctx, cancel := database.OpCtx()
	defer cancel()

	var booking models.Booking
	err = database.Bookings().FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NotFound("Booking not found.")
	}
	if err != nil {
		return utils.Upstream("Failed to look up booking", err)
	}

	if booking.StudentEmail != middleware.ClaimEmail(c) {
		return utils.Forbidden("Forbidden Access! You may only view your own receipts.")
	}
	if booking.ReceiptURL == "" {
		return utils.NotFound("Receipt not ready yet.")
	}

	return c.JSON(fiber.Map{"success": true, "receiptUrl": booking.ReceiptURL})
}
