package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the already-authenticated caller handed to the engine by the auth
// middleware. Role is normalized (never private_host) by the time it gets
// here. IP and user agent ride along for the audit trail.
type Actor struct {
	ID        primitive.ObjectID `json:"id"`
	Role      Role               `json:"role"`
	IPAddress string             `json:"-"`
	UserAgent string             `json:"-"`
}
