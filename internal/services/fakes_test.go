package services

import (
	"context"
	"errors"
	"time"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/internal/workflow"
	"gorent/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the mongo repositories. They reproduce the two
// behaviors the service depends on: conditional status updates that fail with
// ErrStatusConflict, and append-only message/evidence/decision storage.

type fakeCaseRepo struct {
	cases      map[primitive.ObjectID]*models.Case
	messages   []*models.CaseMessage
	evidence   []*models.Evidence
	lastFilter *models.CaseFilter
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[primitive.ObjectID]*models.Case)}
}

func (r *fakeCaseRepo) Create(ctx context.Context, c *models.Case) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	stored := *c
	r.cases[c.ID] = &stored
	return nil
}

func (r *fakeCaseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Case, error) {
	stored, ok := r.cases[id]
	if !ok {
		return nil, errors.New("case not found")
	}
	c := *stored
	return &c, nil
}

func (r *fakeCaseRepo) GetByNumber(ctx context.Context, caseNumber string) (*models.Case, error) {
	for _, stored := range r.cases {
		if stored.CaseNumber == caseNumber {
			c := *stored
			return &c, nil
		}
	}
	return nil, errors.New("case not found")
}

func (r *fakeCaseRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	stored, ok := r.cases[id]
	if !ok {
		return errors.New("case not found")
	}
	if accepted, ok := updates["policy_accepted"].(bool); ok {
		stored.PolicyAccepted = accepted
	}
	return nil
}

func (r *fakeCaseRepo) List(ctx context.Context, filter *models.CaseFilter, params *utils.PaginationParams) ([]*models.Case, int64, error) {
	r.lastFilter = filter
	var out []*models.Case
	for _, stored := range r.cases {
		if filter.Kind != "" && stored.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		if filter.ParticipantID != nil && !stored.IsParticipant(*filter.ParticipantID) {
			continue
		}
		c := *stored
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCaseRepo) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to models.CaseStatus) error {
	stored, ok := r.cases[id]
	if !ok {
		return errors.New("case not found")
	}
	if stored.Status != from {
		return workflow.ErrStatusConflict
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCaseRepo) CreateMessage(ctx context.Context, message *models.CaseMessage) error {
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeCaseRepo) ListMessages(ctx context.Context, caseID primitive.ObjectID) ([]*models.CaseMessage, error) {
	var out []*models.CaseMessage
	for _, m := range r.messages {
		if m.CaseID == caseID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCaseRepo) CountMessagesByRole(ctx context.Context, caseID primitive.ObjectID, role models.Role) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.CaseID == caseID && m.SenderRole.Normalize() == role.Normalize() {
			count++
		}
	}
	return count, nil
}

func (r *fakeCaseRepo) CreateEvidence(ctx context.Context, evidence *models.Evidence) error {
	if evidence.ID.IsZero() {
		evidence.ID = primitive.NewObjectID()
	}
	stored := *evidence
	r.evidence = append(r.evidence, &stored)
	return nil
}

func (r *fakeCaseRepo) ListEvidence(ctx context.Context, caseID primitive.ObjectID) ([]*models.Evidence, error) {
	var out []*models.Evidence
	for _, e := range r.evidence {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDecisionRepo struct {
	decisions []*models.Decision
}

func (r *fakeDecisionRepo) Create(ctx context.Context, decision *models.Decision) error {
	if decision.ID.IsZero() {
		decision.ID = primitive.NewObjectID()
	}
	stored := *decision
	r.decisions = append(r.decisions, &stored)
	return nil
}

func (r *fakeDecisionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Decision, error) {
	for _, d := range r.decisions {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errors.New("decision not found")
}

func (r *fakeDecisionRepo) ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]*models.Decision, error) {
	var out []*models.Decision
	for _, d := range r.decisions {
		if d.CaseID == caseID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	bookings map[primitive.ObjectID]*models.Booking
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return booking, nil
}

type fakeAudit struct {
	entries []*models.AuditLog
}

func (a *fakeAudit) Record(ctx context.Context, entry *models.AuditLog) {
	a.entries = append(a.entries, entry)
}

func (a *fakeAudit) last() *models.AuditLog {
	if len(a.entries) == 0 {
		return nil
	}
	return a.entries[len(a.entries)-1]
}

func (a *fakeAudit) byAction(action models.AuditAction) []*models.AuditLog {
	var out []*models.AuditLog
	for _, e := range a.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeNotifier struct {
	opened    []*models.Case
	decisions []*models.Decision
}

func (n *fakeNotifier) NotifyCaseOpened(ctx context.Context, c *models.Case) {
	n.opened = append(n.opened, c)
}

func (n *fakeNotifier) NotifyDecision(ctx context.Context, c *models.Case, decision *models.Decision) {
	n.decisions = append(n.decisions, decision)
}

// fakeTx runs the function directly; the fakes have no transactional state to
// roll back, which is fine because the tests assert on outcomes, not atomicity.
type fakeTx struct{}

func (fakeTx) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	issued []string
}

func (s *fakeStore) IssueUploadURL(ctx context.Context, key, contentType string, expiration time.Duration) (string, error) {
	s.issued = append(s.issued, key)
	return "https://uploads.test/" + key, nil
}

func (s *fakeStore) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://uploads.test/" + key, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error { return nil }

func (s *fakeStore) FileExists(ctx context.Context, key string) (bool, error) { return false, nil }

type fakeRefunds struct {
	requests []*payment.RefundRequest
}

func (r *fakeRefunds) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	r.requests = append(r.requests, request)
	return &payment.RefundResponse{
		RefundID: "re_test",
		Status:   "succeeded",
		Amount:   request.Amount,
		Currency: request.Currency,
	}, nil
}
