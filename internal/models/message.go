package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseMessage is an append-only note on a case. Never updated or deleted;
// displayed oldest first.
type CaseMessage struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID     primitive.ObjectID `json:"case_id" bson:"case_id" validate:"required"`
	SenderID   primitive.ObjectID `json:"sender_id" bson:"sender_id" validate:"required"`
	SenderRole Role               `json:"sender_role" bson:"sender_role" validate:"required"`
	Body       string             `json:"body" bson:"body" validate:"required"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
