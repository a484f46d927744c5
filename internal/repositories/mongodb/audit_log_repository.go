package mongodb

import (
	"context"
	"fmt"
	"time"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type auditLogRepository struct {
	collection *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) interfaces.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection("audit_logs"),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.ID = primitive.NewObjectID()
	auditLog.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, auditLog)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

func (r *auditLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AuditLog, error) {
	var auditLog models.AuditLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&auditLog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("audit log %s: %w", id.Hex(), workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}

	return &auditLog, nil
}

func (r *auditLogRepository) GetByActorID(ctx context.Context, actorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return r.findWithFilter(ctx, bson.M{"actor_id": actorID}, params)
}

func (r *auditLogRepository) GetByAction(ctx context.Context, action models.AuditAction, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return r.findWithFilter(ctx, bson.M{"action": action}, params)
}

func (r *auditLogRepository) GetResourceHistory(ctx context.Context, resource, resourceID string, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return r.findWithFilter(ctx, bson.M{
		"resource":    resource,
		"resource_id": resourceID,
	}, params)
}

func (r *auditLogRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return r.findWithFilter(ctx, bson.M{}, params)
}

func (r *auditLogRepository) findWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	if params.Search != "" {
		searchFields := []string{"resource", "action", "notes"}
		filter = bson.M{
			"$and": []bson.M{
				filter,
				params.GetSearchFilter(searchFields),
			},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	opts := params.GetSortOptions()
	// Audit trails read newest first.
	if params.Sort == "created_at" || params.Sort == "" {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*models.AuditLog
	for cursor.Next(ctx) {
		var log models.AuditLog
		if err := cursor.Decode(&log); err != nil {
			return nil, 0, fmt.Errorf("failed to decode audit log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, total, nil
}
