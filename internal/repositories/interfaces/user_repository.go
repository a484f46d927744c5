package interfaces

import (
	"context"

	"gorent/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository reads identity directory entries for role lookup and
// notification contacts.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
