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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type caseRepository struct {
	collection *mongo.Collection
	messages   *mongo.Collection
	evidence   *mongo.Collection
	cache      CacheService
}

func NewCaseRepository(db *mongo.Database, cache CacheService) interfaces.CaseRepository {
	return &caseRepository{
		collection: db.Collection("cases"),
		messages:   db.Collection("case_messages"),
		evidence:   db.Collection("case_evidence"),
		cache:      cache,
	}
}

// Case CRUD

func (r *caseRepository) Create(ctx context.Context, c *models.Case) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}

	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	cacheKey := utils.CacheCasePrefix + id.Hex()
	if r.cache != nil {
		var cached models.Case
		if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var c models.Case
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("case %s: %w", id.Hex(), workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	// Cache cases that are still moving; terminal ones are read rarely.
	if r.cache != nil && !c.Status.IsTerminal() {
		r.cache.Set(ctx, cacheKey, &c, utils.CaseCacheTTL)
	}

	return &c, nil
}

func (r *caseRepository) GetByNumber(ctx context.Context, caseNumber string) (*models.Case, error) {
	var c models.Case
	err := r.collection.FindOne(ctx, bson.M{"case_number": caseNumber}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("case %s: %w", caseNumber, workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get case by number: %w", err)
	}

	return &c, nil
}

func (r *caseRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("case %s: %w", id.Hex(), workflow.ErrNotFound)
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *caseRepository) List(ctx context.Context, filter *models.CaseFilter, params *utils.PaginationParams) ([]*models.Case, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.Kind != "" {
			query["kind"] = filter.Kind
		}
		if filter.Status != "" {
			query["status"] = filter.Status
		}
		if filter.BookingID != nil {
			query["booking_id"] = *filter.BookingID
		}
		if filter.OpenedByID != nil {
			query["opened_by_id"] = *filter.OpenedByID
		}
		if filter.CounterpartyID != nil {
			query["counterparty_id"] = *filter.CounterpartyID
		}
		if filter.ParticipantID != nil {
			query["$or"] = []bson.M{
				{"opened_by_id": *filter.ParticipantID},
				{"counterparty_id": *filter.ParticipantID},
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	opts := params.GetSortOptions()
	// Case listings are newest first regardless of the requested sort field.
	if params.Sort == "created_at" || params.Sort == "" {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find cases: %w", err)
	}
	defer cursor.Close(ctx)

	var cases []*models.Case
	for cursor.Next(ctx) {
		var c models.Case
		if err := cursor.Decode(&c); err != nil {
			return nil, 0, fmt.Errorf("failed to decode case: %w", err)
		}
		cases = append(cases, &c)
	}

	return cases, total, nil
}

// Status operations

func (r *caseRepository) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.CaseStatus) error {
	now := time.Now()
	updates := bson.M{
		"status":     to,
		"updated_at": now,
	}

	switch to {
	case models.CaseStatusResolved:
		updates["resolved_at"] = now
	case models.CaseStatusClosed:
		updates["closed_at"] = now
	}

	// Conditional on the previously observed status: a concurrent writer
	// makes MatchedCount zero and the caller revalidates instead of
	// clobbering the other decision.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update case status: %w", err)
	}
	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr == nil && count == 0 {
			return fmt.Errorf("case %s: %w", id.Hex(), workflow.ErrNotFound)
		}
		return workflow.ErrStatusConflict
	}

	r.invalidate(ctx, id)
	return nil
}

// Messages

func (r *caseRepository) CreateMessage(ctx context.Context, message *models.CaseMessage) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	_, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to create case message: %w", err)
	}

	return nil
}

func (r *caseRepository) ListMessages(ctx context.Context, caseID primitive.ObjectID) ([]*models.CaseMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find case messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.CaseMessage
	for cursor.Next(ctx) {
		var m models.CaseMessage
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode case message: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, nil
}

func (r *caseRepository) CountMessagesByRole(ctx context.Context, caseID primitive.ObjectID, role models.Role) (int64, error) {
	count, err := r.messages.CountDocuments(ctx, bson.M{
		"case_id":     caseID,
		"sender_role": role.Normalize(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count case messages: %w", err)
	}

	return count, nil
}

// Evidence

func (r *caseRepository) CreateEvidence(ctx context.Context, evidence *models.Evidence) error {
	if evidence.ID.IsZero() {
		evidence.ID = primitive.NewObjectID()
	}
	evidence.CreatedAt = time.Now()

	_, err := r.evidence.InsertOne(ctx, evidence)
	if err != nil {
		return fmt.Errorf("failed to create evidence: %w", err)
	}

	return nil
}

func (r *caseRepository) ListEvidence(ctx context.Context, caseID primitive.ObjectID) ([]*models.Evidence, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.evidence.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find evidence: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*models.Evidence
	for cursor.Next(ctx) {
		var e models.Evidence
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode evidence: %w", err)
		}
		items = append(items, &e)
	}

	return items, nil
}

func (r *caseRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheCasePrefix+id.Hex())
	}
}
