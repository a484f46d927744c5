package services

import (
	"context"
	"fmt"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
	"gorent/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService tells the parties about case activity over SMS. Every
// call is best-effort: a delivery failure is logged and never surfaced.
type NotificationService interface {
	NotifyCaseOpened(ctx context.Context, c *models.Case)
	NotifyDecision(ctx context.Context, c *models.Case, decision *models.Decision)
}

type notificationService struct {
	smsProvider sms.SMSProvider
	userRepo    interfaces.UserRepository
	logger      *logger.Logger
}

func NewNotificationService(smsProvider sms.SMSProvider, userRepo interfaces.UserRepository, log *logger.Logger) NotificationService {
	return &notificationService{
		smsProvider: smsProvider,
		userRepo:    userRepo,
		logger:      log,
	}
}

func (s *notificationService) NotifyCaseOpened(ctx context.Context, c *models.Case) {
	if s.smsProvider == nil {
		return
	}

	body := fmt.Sprintf(
		"A %s (%s) was opened against your booking. Please respond within 48 hours or it will be escalated for review.",
		c.Kind, c.CaseNumber,
	)
	s.sendTo(ctx, c.CounterpartyID, c, body)
}

func (s *notificationService) NotifyDecision(ctx context.Context, c *models.Case, decision *models.Decision) {
	if s.smsProvider == nil {
		return
	}

	body := fmt.Sprintf(
		"Your case %s has been decided: %s. New status: %s.",
		c.CaseNumber, decision.Value, decision.ResultingStatus,
	)
	s.sendTo(ctx, c.OpenedByID, c, body)
	s.sendTo(ctx, c.CounterpartyID, c, body)
}

func (s *notificationService) sendTo(ctx context.Context, userID primitive.ObjectID, c *models.Case, body string) {
	if userID.IsZero() {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithCaseID(c.ID).Warn("Could not load user for case notification")
		return
	}
	if user.Phone == "" {
		return
	}

	_, err = s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
		To:      user.CountryCode + user.Phone,
		Message: body,
		Type:    "transactional",
	})
	if err != nil {
		s.logger.WithError(err).WithCaseID(c.ID).Warn("Failed to send case notification SMS")
	}
}
