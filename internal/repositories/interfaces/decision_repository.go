package interfaces

import (
	"context"

	"gorent/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecisionRepository is the append-only decision ledger. Decisions are never
// updated or deleted once written.
type DecisionRepository interface {
	Create(ctx context.Context, decision *models.Decision) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Decision, error)
	ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]*models.Decision, error)
}
