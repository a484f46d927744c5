package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// User is a directory entry from the identity service. The engine reads it for
// role lookup and notification contacts; account management lives elsewhere.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName    string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName     string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone"`
	CountryCode  string             `json:"country_code" bson:"country_code"`
	Role         Role               `json:"role" bson:"role" validate:"required"`
	Status       UserStatus         `json:"status" bson:"status" default:"active"`
	LastActiveAt *time.Time         `json:"last_active_at" bson:"last_active_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
