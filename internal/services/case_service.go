package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/workflow"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseService is the workflow orchestrator. One instance runs the dispute
// workflow, another the complaint workflow; both are the same implementation
// configured by a workflow.Definition.
type CaseService interface {
	OpenCase(ctx context.Context, actor *models.Actor, req *models.OpenCaseRequest) (*models.Case, error)
	GetCase(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID) (*models.CaseDetail, error)
	GetCaseByNumber(ctx context.Context, actor *models.Actor, caseNumber string) (*models.CaseDetail, error)
	ListCases(ctx context.Context, actor *models.Actor, filter *models.CaseFilter, params *utils.PaginationParams) ([]*models.Case, int64, error)
	AddMessage(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.AddMessageRequest) (*models.CaseMessage, error)
	AddEvidence(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.AddEvidenceRequest) ([]*models.UploadDescriptor, error)
	SubmitDraft(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.SubmitDraftRequest) (*models.Case, error)
	Decide(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.DecideRequest) (*models.Decision, error)
	Override(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.OverrideRequest) (*models.Decision, error)
}

// TransactionRunner executes fn inside a single mongo transaction. The
// decision insert and its status change commit or abort together.
type TransactionRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RefundPolicy carries the configured refund fractions. The engine never
// interprets policy itself; it multiplies the booking total by whatever
// operations configured.
type RefundPolicy struct {
	PartialRefundFraction float64
	FeeWaiverFraction     float64
}

type caseService struct {
	def          *workflow.Definition
	tx           TransactionRunner
	caseRepo     interfaces.CaseRepository
	decisionRepo interfaces.DecisionRepository
	bookingRepo  interfaces.BookingRepository
	audit        AuditService
	notifier     NotificationService
	refunds      payment.RefundProvider
	store        storage.StorageProvider
	refundPolicy RefundPolicy
	logger       *logger.Logger
	now          func() time.Time
}

// NewDisputeService builds the renter-opened dispute workflow service.
func NewDisputeService(
	tx TransactionRunner,
	caseRepo interfaces.CaseRepository,
	decisionRepo interfaces.DecisionRepository,
	bookingRepo interfaces.BookingRepository,
	audit AuditService,
	notifier NotificationService,
	refunds payment.RefundProvider,
	store storage.StorageProvider,
	refundPolicy RefundPolicy,
	log *logger.Logger,
) CaseService {
	return newCaseService(workflow.Dispute(), tx, caseRepo, decisionRepo, bookingRepo, audit, notifier, refunds, store, refundPolicy, log)
}

// NewComplaintService builds the dealer-opened complaint workflow service.
func NewComplaintService(
	tx TransactionRunner,
	caseRepo interfaces.CaseRepository,
	decisionRepo interfaces.DecisionRepository,
	bookingRepo interfaces.BookingRepository,
	audit AuditService,
	notifier NotificationService,
	refunds payment.RefundProvider,
	store storage.StorageProvider,
	refundPolicy RefundPolicy,
	log *logger.Logger,
) CaseService {
	return newCaseService(workflow.Complaint(), tx, caseRepo, decisionRepo, bookingRepo, audit, notifier, refunds, store, refundPolicy, log)
}

func newCaseService(
	def *workflow.Definition,
	tx TransactionRunner,
	caseRepo interfaces.CaseRepository,
	decisionRepo interfaces.DecisionRepository,
	bookingRepo interfaces.BookingRepository,
	audit AuditService,
	notifier NotificationService,
	refunds payment.RefundProvider,
	store storage.StorageProvider,
	refundPolicy RefundPolicy,
	log *logger.Logger,
) CaseService {
	return &caseService{
		def:          def,
		tx:           tx,
		caseRepo:     caseRepo,
		decisionRepo: decisionRepo,
		bookingRepo:  bookingRepo,
		audit:        audit,
		notifier:     notifier,
		refunds:      refunds,
		store:        store,
		refundPolicy: refundPolicy,
		logger:       log,
		now:          time.Now,
	}
}

func (s *caseService) OpenCase(ctx context.Context, actor *models.Actor, req *models.OpenCaseRequest) (*models.Case, error) {
	bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
	if err != nil {
		return nil, workflow.ErrNotFound
	}

	if actor.Role.Normalize() != s.def.OpenerRole {
		s.auditAttempt(ctx, actor, models.AuditActionCaseCreate, utils.ResourceCase, req.BookingID, nil, nil, "", workflow.ErrForbidden)
		return nil, workflow.ErrForbidden
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionCaseCreate, utils.ResourceCase, req.BookingID, nil, nil, "", workflow.ErrNotFound)
		return nil, workflow.ErrNotFound
	}

	if err := s.checkEligibility(actor, booking); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionCaseCreate, utils.ResourceCase, req.BookingID, nil, nil, "", err)
		return nil, err
	}

	counterpartyID := booking.DealerID
	if s.def.OpenerRole == models.RoleDealer {
		counterpartyID = booking.RenterID
	}

	now := s.now()
	c := &models.Case{
		CaseNumber:     utils.GenerateCaseNumber(s.numberPrefix()),
		Kind:           s.def.Kind,
		BookingID:      booking.ID,
		OpenedByID:     actor.ID,
		OpenedByRole:   actor.Role.Normalize(),
		CounterpartyID: counterpartyID,
		Category:       req.Category,
		Summary:        req.Summary,
		Status:         s.def.Initial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionCaseCreate, utils.ResourceCase, req.BookingID, nil, nil, "", err)
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.auditAttempt(ctx, actor, models.AuditActionCaseCreate, utils.ResourceCase, c.ID.Hex(), nil, map[string]interface{}{
		"case_number": c.CaseNumber,
		"booking_id":  c.BookingID.Hex(),
		"category":    c.Category,
		"status":      c.Status,
	}, "", nil)

	// Drafts stay private until submitted; the counterparty hears about a
	// dispute immediately.
	if c.Status != models.CaseStatusDraft {
		s.notifier.NotifyCaseOpened(ctx, c)
	}

	s.logger.WithCaseID(c.ID).WithField("case_number", c.CaseNumber).Info("Case opened")
	return c, nil
}

func (s *caseService) GetCase(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID) (*models.CaseDetail, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return s.caseDetail(ctx, actor, c)
}

// GetCaseByNumber resolves a case by its human-facing number, the form
// support agents see on tickets and e-mail threads.
func (s *caseService) GetCaseByNumber(ctx context.Context, actor *models.Actor, caseNumber string) (*models.CaseDetail, error) {
	c, err := s.caseRepo.GetByNumber(ctx, caseNumber)
	if err != nil {
		return nil, workflow.ErrNotFound
	}
	if c.Kind != s.def.Kind {
		return nil, workflow.ErrNotFound
	}
	return s.caseDetail(ctx, actor, c)
}

func (s *caseService) caseDetail(ctx context.Context, actor *models.Actor, c *models.Case) (*models.CaseDetail, error) {
	if err := s.checkVisibility(actor, c); err != nil {
		return nil, err
	}

	s.reconcile(ctx, c)

	messages, err := s.caseRepo.ListMessages(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list case messages: %w", err)
	}
	evidence, err := s.caseRepo.ListEvidence(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list case evidence: %w", err)
	}
	decisions, err := s.decisionRepo.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list case decisions: %w", err)
	}

	return &models.CaseDetail{
		Case:      c,
		Messages:  messages,
		Evidence:  evidence,
		Decisions: decisions,
	}, nil
}

func (s *caseService) ListCases(ctx context.Context, actor *models.Actor, filter *models.CaseFilter, params *utils.PaginationParams) ([]*models.Case, int64, error) {
	if filter == nil {
		filter = &models.CaseFilter{}
	}
	filter.Kind = s.def.Kind
	if !actor.Role.IsAdminTier() {
		filter.ParticipantID = &actor.ID
	}
	return s.caseRepo.List(ctx, filter, params)
}

func (s *caseService) AddMessage(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.AddMessageRequest) (*models.CaseMessage, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(actor, c); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionMessageAdd, utils.ResourceMessage, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	s.reconcile(ctx, c)

	if c.Status.IsTerminal() {
		s.auditAttempt(ctx, actor, models.AuditActionMessageAdd, utils.ResourceMessage, caseID.Hex(), nil, nil, "", workflow.ErrCaseClosed)
		return nil, workflow.ErrCaseClosed
	}

	message := &models.CaseMessage{
		CaseID:     c.ID,
		SenderID:   actor.ID,
		SenderRole: actor.Role.Normalize(),
		Body:       req.Body,
		CreatedAt:  s.now(),
	}
	if err := s.caseRepo.CreateMessage(ctx, message); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionMessageAdd, utils.ResourceMessage, caseID.Hex(), nil, nil, "", err)
		return nil, fmt.Errorf("failed to create case message: %w", err)
	}

	s.auditAttempt(ctx, actor, models.AuditActionMessageAdd, utils.ResourceMessage, message.ID.Hex(), nil, map[string]interface{}{
		"case_id": c.ID.Hex(),
	}, "", nil)

	// The one message-driven transition: first counterparty response pulls
	// an open dispute into awaiting_response.
	if target, ok := s.def.MessageAdvanceTarget(c.Status, actor.Role); ok {
		if err := s.caseRepo.UpdateStatusFrom(ctx, c.ID, c.Status, target); err != nil {
			// A concurrent writer already moved the case; the message
			// itself stands.
			if !errors.Is(err, workflow.ErrStatusConflict) {
				s.logger.WithError(err).WithCaseID(c.ID).Error("Failed to advance case on message")
			}
		} else {
			s.auditAttempt(ctx, actor, models.AuditActionStatusChange, utils.ResourceCase, c.ID.Hex(),
				map[string]interface{}{"status": c.Status},
				map[string]interface{}{"status": target},
				"counterparty responded", nil)
			c.Status = target
		}
	}

	return message, nil
}

func (s *caseService) AddEvidence(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.AddEvidenceRequest) ([]*models.UploadDescriptor, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(actor, c); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	s.reconcile(ctx, c)

	if c.Status.IsTerminal() {
		s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, nil, "", workflow.ErrCaseClosed)
		return nil, workflow.ErrCaseClosed
	}
	if len(req.Files) > utils.MaxEvidencePerCall {
		err := fmt.Errorf("at most %d evidence files per request", utils.MaxEvidencePerCall)
		s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	now := s.now()
	descriptors := make([]*models.UploadDescriptor, 0, len(req.Files))
	for _, file := range req.Files {
		evidenceID := primitive.NewObjectID()
		key := fmt.Sprintf("cases/%s/evidence/%s_%s", c.ID.Hex(), evidenceID.Hex(), file.FileName)

		uploadURL, err := s.store.IssueUploadURL(ctx, key, file.ContentType, utils.UploadURLExpiry)
		if err != nil {
			s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, nil, "", err)
			return nil, fmt.Errorf("failed to issue upload URL: %w", err)
		}

		evidence := &models.Evidence{
			ID:           evidenceID,
			CaseID:       c.ID,
			UploaderID:   actor.ID,
			UploaderRole: actor.Role.Normalize(),
			StorageKey:   key,
			FileName:     file.FileName,
			ContentType:  file.ContentType,
			CreatedAt:    now,
		}
		if err := s.caseRepo.CreateEvidence(ctx, evidence); err != nil {
			s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, nil, "", err)
			return nil, fmt.Errorf("failed to create evidence record: %w", err)
		}

		descriptors = append(descriptors, &models.UploadDescriptor{
			EvidenceID:  evidenceID,
			StorageKey:  key,
			UploadURL:   uploadURL,
			ContentType: file.ContentType,
			ExpiresAt:   now.Add(utils.UploadURLExpiry),
		})
	}

	s.auditAttempt(ctx, actor, models.AuditActionEvidenceAdd, utils.ResourceEvidence, caseID.Hex(), nil, map[string]interface{}{
		"case_id": c.ID.Hex(),
		"count":   len(descriptors),
	}, "", nil)

	return descriptors, nil
}

func (s *caseService) SubmitDraft(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.SubmitDraftRequest) (*models.Case, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.OpenedByID != actor.ID {
		s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, caseID.Hex(), nil, nil, "", workflow.ErrForbidden)
		return nil, workflow.ErrForbidden
	}
	if c.Status != models.CaseStatusDraft {
		s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, caseID.Hex(), nil, nil, "", workflow.ErrAlreadySubmitted)
		return nil, workflow.ErrAlreadySubmitted
	}
	if !req.AcceptPolicy {
		s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, caseID.Hex(), nil, nil, "", workflow.ErrPolicyNotAccepted)
		return nil, workflow.ErrPolicyNotAccepted
	}

	if err := s.caseRepo.Update(ctx, c.ID, map[string]interface{}{"policy_accepted": true}); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, caseID.Hex(), nil, nil, "", err)
		return nil, fmt.Errorf("failed to record policy acceptance: %w", err)
	}
	if err := s.caseRepo.UpdateStatusFrom(ctx, c.ID, models.CaseStatusDraft, models.CaseStatusSubmitted); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, caseID.Hex(), nil, nil, "", err)
		if errors.Is(err, workflow.ErrStatusConflict) {
			return nil, workflow.ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to submit complaint: %w", err)
	}

	c.PolicyAccepted = true
	c.Status = models.CaseStatusSubmitted
	c.UpdatedAt = s.now()

	s.auditAttempt(ctx, actor, models.AuditActionDraftSubmit, utils.ResourceCase, c.ID.Hex(),
		map[string]interface{}{"status": models.CaseStatusDraft},
		map[string]interface{}{"status": models.CaseStatusSubmitted},
		"", nil)

	s.notifier.NotifyCaseOpened(ctx, c)
	s.logger.WithCaseID(c.ID).Info("Complaint submitted")
	return c, nil
}

func (s *caseService) Decide(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.DecideRequest) (*models.Decision, error) {
	if !actor.Role.IsAdminTier() {
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", workflow.ErrForbidden)
		return nil, workflow.ErrForbidden
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", workflow.ErrEmptyNotes)
		return nil, workflow.ErrEmptyNotes
	}

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	s.reconcile(ctx, c)

	target, err := s.def.ResolutionTarget(req.Value)
	if err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}
	// A terminal case accepts no further decisions, including a repeat close.
	if c.Status.IsTerminal() {
		err := &workflow.InvalidTransitionError{From: c.Status, To: target}
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}
	if err := s.def.ValidateTransition(c.Status, target); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	decision := &models.Decision{
		CaseID:          c.ID,
		DecidedByID:     actor.ID,
		DecidedByRole:   actor.Role.Normalize(),
		Value:           string(req.Value),
		Notes:           notes,
		PreviousStatus:  c.Status,
		ResultingStatus: target,
		CreatedAt:       s.now(),
	}
	if err := s.commitDecision(ctx, c, decision); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	s.auditAttempt(ctx, actor, models.AuditActionDecision, utils.ResourceDecision, decision.ID.Hex(),
		map[string]interface{}{"status": decision.PreviousStatus},
		map[string]interface{}{"status": decision.ResultingStatus, "value": decision.Value, "case_id": c.ID.Hex()},
		notes, nil)

	s.notifier.NotifyDecision(ctx, c, decision)
	s.maybeRefund(ctx, c, decision)

	s.logger.WithCaseID(c.ID).WithField("value", decision.Value).Info("Decision recorded")
	return decision, nil
}

func (s *caseService) Override(ctx context.Context, actor *models.Actor, caseID primitive.ObjectID, req *models.OverrideRequest) (*models.Decision, error) {
	if !actor.Role.CanOverride() {
		s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, caseID.Hex(), nil, nil, "", workflow.ErrForbidden)
		return nil, workflow.ErrForbidden
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, caseID.Hex(), nil, nil, "", workflow.ErrEmptyNotes)
		return nil, workflow.ErrEmptyNotes
	}

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	target, err := s.def.OverrideTarget(req.Value)
	if err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	// Overrides exist to reopen or re-seal a sealed case; a live case takes
	// ordinary decisions instead.
	if !c.Status.IsTerminal() {
		err := &workflow.InvalidTransitionError{From: c.Status, To: target}
		s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	decision := &models.Decision{
		CaseID:          c.ID,
		DecidedByID:     actor.ID,
		DecidedByRole:   actor.Role.Normalize(),
		Value:           string(req.Value),
		Notes:           notes,
		IsOverride:      true,
		PreviousStatus:  c.Status,
		ResultingStatus: target,
		CreatedAt:       s.now(),
	}
	if err := s.commitDecision(ctx, c, decision); err != nil {
		s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, caseID.Hex(), nil, nil, "", err)
		return nil, err
	}

	s.auditAttempt(ctx, actor, models.AuditActionOverride, utils.ResourceDecision, decision.ID.Hex(),
		map[string]interface{}{"status": decision.PreviousStatus},
		map[string]interface{}{"status": decision.ResultingStatus, "value": decision.Value, "case_id": c.ID.Hex()},
		notes, nil)

	s.notifier.NotifyDecision(ctx, c, decision)
	s.maybeRefund(ctx, c, decision)

	s.logger.WithCaseID(c.ID).WithField("value", decision.Value).Warn("Override recorded")
	return decision, nil
}

// commitDecision writes the decision row and the status change as one unit.
// If the conditional status update loses a race the whole transaction aborts,
// so no decision is ever left pointing at a status it did not produce.
func (s *caseService) commitDecision(ctx context.Context, c *models.Case, decision *models.Decision) error {
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		if err := s.decisionRepo.Create(ctx, decision); err != nil {
			return fmt.Errorf("failed to create decision: %w", err)
		}
		return s.caseRepo.UpdateStatusFrom(ctx, c.ID, decision.PreviousStatus, decision.ResultingStatus)
	})
	if err != nil {
		return err
	}
	c.Status = decision.ResultingStatus
	c.UpdatedAt = s.now()
	return nil
}

// reconcile applies the response-window rule before the caller acts on the
// case. Failures here never fail the surrounding request; a stalled case
// will be picked up by the next touch.
func (s *caseService) reconcile(ctx context.Context, c *models.Case) {
	counterpartyMessages, err := s.caseRepo.CountMessagesByRole(ctx, c.ID, c.CounterpartyRole())
	if err != nil {
		s.logger.WithError(err).WithCaseID(c.ID).Error("Failed to count counterparty messages")
		return
	}

	target, ok := workflow.Reconcile(s.def, c, counterpartyMessages, s.now())
	if !ok {
		return
	}

	if err := s.caseRepo.UpdateStatusFrom(ctx, c.ID, c.Status, target); err != nil {
		// Lost the race to another request doing the same reconciliation.
		if !errors.Is(err, workflow.ErrStatusConflict) {
			s.logger.WithError(err).WithCaseID(c.ID).Error("Failed to auto-escalate case")
		}
		return
	}

	previous := c.Status
	c.Status = target
	c.UpdatedAt = s.now()

	s.audit.Record(ctx, &models.AuditLog{
		Action:     models.AuditActionAutoTransition,
		Resource:   utils.ResourceCase,
		ResourceID: c.ID.Hex(),
		OldValues:  map[string]interface{}{"status": previous},
		NewValues:  map[string]interface{}{"status": target},
		Notes:      "response window expired",
		Success:    true,
		CreatedAt:  s.now(),
	})
	s.logger.WithCaseID(c.ID).WithField("from", previous).WithField("to", target).Info("Case auto-escalated")
}

func (s *caseService) loadCase(ctx context.Context, caseID primitive.ObjectID) (*models.Case, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, workflow.ErrNotFound
	}
	// Each service only serves its own kind; a dispute id sent to the
	// complaint surface does not exist as far as that surface is concerned.
	if c.Kind != s.def.Kind {
		return nil, workflow.ErrNotFound
	}
	return c, nil
}

// checkVisibility gates participation: the two parties and admin-tier actors
// see the case, everyone else gets forbidden.
func (s *caseService) checkVisibility(actor *models.Actor, c *models.Case) error {
	if actor.Role.IsAdminTier() {
		return nil
	}
	if !c.IsParticipant(actor.ID) {
		return workflow.ErrForbidden
	}
	return nil
}

func (s *caseService) checkEligibility(actor *models.Actor, booking *models.Booking) error {
	switch s.def.OpenerRole {
	case models.RoleRenter:
		if booking.RenterID != actor.ID {
			return &workflow.IneligibleError{Reason: utils.ReasonBookingNotOwned}
		}
		switch booking.Status {
		case models.BookingStatusConfirmed, models.BookingStatusCompleted:
			return nil
		case models.BookingStatusCanceled:
			if booking.CanceledAt != nil && booking.CanceledAt.After(booking.StartDate) {
				return nil
			}
			return &workflow.IneligibleError{Reason: utils.ReasonCanceledBeforeStart}
		default:
			return &workflow.IneligibleError{Reason: utils.ReasonBookingNotEligible}
		}
	case models.RoleDealer:
		if booking.DealerID != actor.ID {
			return &workflow.IneligibleError{Reason: utils.ReasonBookingNotDealers}
		}
		return nil
	default:
		return workflow.ErrForbidden
	}
}

// maybeRefund emits a refund request for money-moving decision values. Best
// effort only: the decision already stands, a provider failure is logged for
// manual follow-up.
func (s *caseService) maybeRefund(ctx context.Context, c *models.Case, decision *models.Decision) {
	if s.refunds == nil {
		return
	}
	fraction, ok := s.refundFraction(decision.Value)
	if !ok {
		return
	}

	booking, err := s.bookingRepo.GetByID(ctx, c.BookingID)
	if err != nil {
		s.logger.WithError(err).WithCaseID(c.ID).Error("Failed to load booking for refund")
		return
	}
	if booking.PaymentIntentID == "" {
		s.logger.WithCaseID(c.ID).Warn("Booking has no payment intent, skipping refund")
		return
	}

	_, err = s.refunds.RefundPayment(ctx, &payment.RefundRequest{
		TransactionID: booking.PaymentIntentID,
		Amount:        booking.TotalAmount * fraction,
		Currency:      booking.Currency,
		Reason:        fmt.Sprintf("case %s: %s", c.CaseNumber, decision.Value),
	})
	if err != nil {
		s.logger.WithError(err).WithCaseID(c.ID).Error("Failed to request refund")
		return
	}
	s.logger.WithCaseID(c.ID).WithField("value", decision.Value).Info("Refund requested")
}

func (s *caseService) refundFraction(value string) (float64, bool) {
	switch value {
	case string(models.ResolutionFullRefund), string(models.OverrideReverse):
		return 1, true
	case string(models.ResolutionPartialRefund):
		return s.refundPolicy.PartialRefundFraction, true
	case string(models.ResolutionFeeWaived):
		return s.refundPolicy.FeeWaiverFraction, true
	default:
		return 0, false
	}
}

func (s *caseService) numberPrefix() string {
	if s.def.Kind == models.CaseKindComplaint {
		return utils.ComplaintNumberPrefix
	}
	return utils.DisputeNumberPrefix
}

// auditAttempt emits one audit record for a mutating attempt, successful or
// not.
func (s *caseService) auditAttempt(ctx context.Context, actor *models.Actor, action models.AuditAction, resource, resourceID string, oldValues, newValues map[string]interface{}, notes string, attemptErr error) {
	role := actor.Role.Normalize()
	entry := &models.AuditLog{
		ActorID:    &actor.ID,
		ActorRole:  &role,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Notes:      notes,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Success:    attemptErr == nil,
		CreatedAt:  s.now(),
	}
	if attemptErr != nil {
		entry.FailureCause = attemptErr.Error()
	}
	s.audit.Record(ctx, entry)
}
