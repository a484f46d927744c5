package interfaces

import (
	"context"

	"gorent/internal/models"
	"gorent/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AuditLog, error)

	// Actor and resource tracking
	GetByActorID(ctx context.Context, actorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	GetByAction(ctx context.Context, action models.AuditAction, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	GetResourceHistory(ctx context.Context, resource, resourceID string, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
}
