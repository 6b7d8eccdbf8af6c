package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rejection keeps the admin's stated reason for turning a session down,
// looked up by the session it refers to.
type Rejection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	Reason     string             `bson:"reason" json:"reason"`
	AdminEmail string             `bson:"adminEmail,omitempty" json:"adminEmail,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
