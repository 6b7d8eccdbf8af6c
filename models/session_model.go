package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SessionPending  = "pending"
	SessionApproved = "approved"
	SessionRejected = "rejected"
)

// Session is a tutoring offering (the "tutors" collection). Creators may
// attach fields beyond the declared ones; Extra keeps them intact through
// the store round-trip.
type Session struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TutorEmail      string             `bson:"email" json:"email"`
	TutorName       string             `bson:"name,omitempty" json:"name,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Photo           string             `bson:"photo,omitempty" json:"photo,omitempty"`
	RegistrationFee float64            `bson:"registrationFee" json:"registrationFee"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`

	Extra bson.M `bson:",inline" json:"-"`
}

// MarshalJSON lifts the extra fields to the top level so a session reads
// back over the API with the same shape it was submitted with.
func (s Session) MarshalJSON() ([]byte, error) {
	type sessionAlias Session
	base, err := json.Marshal(sessionAlias(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]interface{}, len(s.Extra)+8)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
