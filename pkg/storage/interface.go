package storage

import (
	"context"
	"time"
)

// StorageProvider is the evidence object-store port. Callers upload bytes
// directly against a presigned URL; the engine itself never streams file
// content.
type StorageProvider interface {
	IssueUploadURL(ctx context.Context, key, contentType string, expiration time.Duration) (string, error)
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
}
