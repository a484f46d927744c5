package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// Booking is a read-only directory entry; the rental flow that creates and
// mutates bookings lives outside this service.
type Booking struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingNumber   string             `json:"booking_number" bson:"booking_number"`
	RenterID        primitive.ObjectID `json:"renter_id" bson:"renter_id"`
	DealerID        primitive.ObjectID `json:"dealer_id" bson:"dealer_id"`
	VehicleID       primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	Status          BookingStatus      `json:"status" bson:"status"`
	StartDate       time.Time          `json:"start_date" bson:"start_date"`
	EndDate         time.Time          `json:"end_date" bson:"end_date"`
	TotalAmount     float64            `json:"total_amount" bson:"total_amount"`
	Currency        string             `json:"currency" bson:"currency"`
	PaymentIntentID string             `json:"payment_intent_id" bson:"payment_intent_id"`
	CanceledAt      *time.Time         `json:"canceled_at" bson:"canceled_at"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
