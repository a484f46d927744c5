package interfaces

import (
	"context"

	"gorent/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingRepository reads the booking directory maintained by the rental
// service. The resolution engine never writes to it.
type BookingRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}
