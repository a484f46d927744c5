package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
	Down        func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	// Create migrations collection if it doesn't exist
	err := m.createMigrationsCollection()
	if err != nil {
		return err
	}

	// Get current version
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	// Run migrations
	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			err := migration.Up(m.db)
			if err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			err = m.updateVersion(migration.Version)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d completed successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) Down(targetVersion int) error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version <= currentVersion && migration.Version > targetVersion {
			log.Printf("Reverting migration %d: %s", migration.Version, migration.Description)

			err := migration.Down(m.db)
			if err != nil {
				return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
			}

			previousVersion := targetVersion
			if i > 0 {
				previousVersion = m.migrations[i-1].Version
			}

			err = m.updateVersion(previousVersion)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d reverted successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, name := range collections {
		if name == "migrations" {
			return nil
		}
	}

	return m.db.CreateCollection(ctx, "migrations")
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create cases collection with indexes",
			Up: func(db *mongo.Database) error {
				return createCasesIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("cases").Drop(context.Background())
			},
		},
		{
			Version:     2,
			Description: "Create case_messages collection with indexes",
			Up: func(db *mongo.Database) error {
				return createCaseMessagesIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("case_messages").Drop(context.Background())
			},
		},
		{
			Version:     3,
			Description: "Create case_evidence collection with indexes",
			Up: func(db *mongo.Database) error {
				return createCaseEvidenceIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("case_evidence").Drop(context.Background())
			},
		},
		{
			Version:     4,
			Description: "Create case_decisions collection with indexes",
			Up: func(db *mongo.Database) error {
				return createCaseDecisionsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("case_decisions").Drop(context.Background())
			},
		},
		{
			Version:     5,
			Description: "Create audit_logs collection with indexes",
			Up: func(db *mongo.Database) error {
				return createAuditLogsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("audit_logs").Drop(context.Background())
			},
		},
	}
}

func createCasesIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("cases")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "case_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "opened_by_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "counterparty_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "kind", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createCaseMessagesIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("case_messages")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "sender_role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "sender_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createCaseEvidenceIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("case_evidence")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "storage_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createCaseDecisionsIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("case_decisions")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "decided_by_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createAuditLogsIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("audit_logs")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "actor_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "action", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
