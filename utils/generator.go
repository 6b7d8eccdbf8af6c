package utils

import (
	"context"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const bookingReferenceLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomBookingReference builds an "SH-XXXXXXXX" code. Uniqueness is the
// caller's problem; see GenerateUniqueBookingReference.
func RandomBookingReference() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, bookingReferenceLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return "SH-" + string(b)
}

func GenerateUniqueBookingReference(ctx context.Context, bookings *mongo.Collection) (string, error) {
	for {
		reference := RandomBookingReference()

		count, err := bookings.CountDocuments(ctx, bson.M{"reference": reference})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return reference, nil
		}
	}
}
