package interfaces

import (
	"context"

	"gorent/internal/models"
	"gorent/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseRepository interface {
	// Case CRUD
	Create(ctx context.Context, c *models.Case) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error)
	GetByNumber(ctx context.Context, caseNumber string) (*models.Case, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, filter *models.CaseFilter, params *utils.PaginationParams) ([]*models.Case, int64, error)

	// Status operations. UpdateStatusFrom is a single-document conditional
	// update: it only succeeds while the stored status still equals from,
	// so a concurrent writer is detected instead of overwritten.
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.CaseStatus) error

	// Messages (append-only)
	CreateMessage(ctx context.Context, message *models.CaseMessage) error
	ListMessages(ctx context.Context, caseID primitive.ObjectID) ([]*models.CaseMessage, error)
	CountMessagesByRole(ctx context.Context, caseID primitive.ObjectID, role models.Role) (int64, error)

	// Evidence (append-only)
	CreateEvidence(ctx context.Context, evidence *models.Evidence) error
	ListEvidence(ctx context.Context, caseID primitive.ObjectID) ([]*models.Evidence, error)
}
