package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Evidence points at an uploaded artifact. The engine records the storage key
// only; bytes go through the object store directly. Append-only, like messages.
type Evidence struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID       primitive.ObjectID `json:"case_id" bson:"case_id" validate:"required"`
	UploaderID   primitive.ObjectID `json:"uploader_id" bson:"uploader_id" validate:"required"`
	UploaderRole Role               `json:"uploader_role" bson:"uploader_role" validate:"required"`
	StorageKey   string             `json:"storage_key" bson:"storage_key" validate:"required"`
	FileName     string             `json:"file_name" bson:"file_name"`
	ContentType  string             `json:"content_type" bson:"content_type"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// FileDescriptor is what a caller sends when it wants to attach a file.
type FileDescriptor struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

// UploadDescriptor tells the caller where to PUT the bytes.
type UploadDescriptor struct {
	EvidenceID  primitive.ObjectID `json:"evidence_id"`
	StorageKey  string             `json:"storage_key"`
	UploadURL   string             `json:"upload_url"`
	ContentType string             `json:"content_type"`
	ExpiresAt   time.Time          `json:"expires_at"`
}
