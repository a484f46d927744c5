package services

import (
	"context"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
)

// AuditService is the outbound audit port. Record never fails the caller:
// the business mutation already succeeded or failed on its own terms, so an
// emission failure is logged and swallowed.
type AuditService interface {
	Record(ctx context.Context, entry *models.AuditLog)
}

type auditService struct {
	auditRepo interfaces.AuditLogRepository
	logger    *logger.Logger
}

func NewAuditService(auditRepo interfaces.AuditLogRepository, log *logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    log,
	}
}

func (s *auditService) Record(ctx context.Context, entry *models.AuditLog) {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"action":      entry.Action,
			"resource":    entry.Resource,
			"resource_id": entry.ResourceID,
		}).Error("Failed to emit audit record")
	}
}
