package mongodb

import (
	"context"
	"fmt"
	"time"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/workflow"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type decisionRepository struct {
	collection *mongo.Collection
}

func NewDecisionRepository(db *mongo.Database) interfaces.DecisionRepository {
	return &decisionRepository{
		collection: db.Collection("case_decisions"),
	}
}

func (r *decisionRepository) Create(ctx context.Context, decision *models.Decision) error {
	if decision.ID.IsZero() {
		decision.ID = primitive.NewObjectID()
	}
	decision.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, decision)
	if err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}

	return nil
}

func (r *decisionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Decision, error) {
	var decision models.Decision
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&decision)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("decision %s: %w", id.Hex(), workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	return &decision, nil
}

func (r *decisionRepository) ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]*models.Decision, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find decisions: %w", err)
	}
	defer cursor.Close(ctx)

	var decisions []*models.Decision
	for cursor.Next(ctx) {
		var d models.Decision
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode decision: %w", err)
		}
		decisions = append(decisions, &d)
	}

	return decisions, nil
}
