package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Material struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	TutorEmail string             `bson:"tutorEmail" json:"tutorEmail"`
	Title      string             `bson:"title" json:"title"`
	Link       string             `bson:"link" json:"link"`
	ImageURL   string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
