package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a student's purchase of a session. Bookings are written
// once and never updated through the API; only the async receipt upload
// fills in ReceiptURL afterwards.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID       primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	SessionTitle    string             `bson:"sessionTitle" json:"sessionTitle"`
	TutorEmail      string             `bson:"tutorEmail" json:"tutorEmail"`
	StudentEmail    string             `bson:"studentEmail" json:"studentEmail"`
	RegistrationFee float64            `bson:"registrationFee" json:"registrationFee"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Reference       string             `bson:"reference" json:"reference"`
	ReceiptURL      string             `bson:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
