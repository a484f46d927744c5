package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/internal/workflow"
	"gorent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	svc          *caseService
	caseRepo     *fakeCaseRepo
	decisionRepo *fakeDecisionRepo
	bookingRepo  *fakeBookingRepo
	audit        *fakeAudit
	notifier     *fakeNotifier
	refunds      *fakeRefunds
	store        *fakeStore

	renter     *models.Actor
	dealer     *models.Actor
	admin      *models.Actor
	primeAdmin *models.Actor
	booking    *models.Booking

	now time.Time
}

func newFixture(t *testing.T, def *workflow.Definition) *fixture {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	require.NoError(t, err)

	fx := &fixture{
		caseRepo:     newFakeCaseRepo(),
		decisionRepo: &fakeDecisionRepo{},
		bookingRepo:  &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)},
		audit:        &fakeAudit{},
		notifier:     &fakeNotifier{},
		refunds:      &fakeRefunds{},
		store:        &fakeStore{},
		renter:       &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleRenter},
		dealer:       &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleDealer},
		admin:        &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin},
		primeAdmin:   &models.Actor{ID: primitive.NewObjectID(), Role: models.RolePrimeAdmin},
		now:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	svc := newCaseService(
		def, fakeTx{}, fx.caseRepo, fx.decisionRepo, fx.bookingRepo,
		fx.audit, fx.notifier, fx.refunds, fx.store,
		RefundPolicy{PartialRefundFraction: 0.5, FeeWaiverFraction: 0.1},
		log,
	).(*caseService)
	svc.now = func() time.Time { return fx.now }
	fx.svc = svc

	fx.booking = &models.Booking{
		ID:              primitive.NewObjectID(),
		RenterID:        fx.renter.ID,
		DealerID:        fx.dealer.ID,
		Status:          models.BookingStatusConfirmed,
		StartDate:       fx.now.Add(24 * time.Hour),
		EndDate:         fx.now.Add(72 * time.Hour),
		TotalAmount:     200,
		Currency:        "usd",
		PaymentIntentID: "pi_test",
	}
	fx.bookingRepo.bookings[fx.booking.ID] = fx.booking
	return fx
}

func newDisputeFixture(t *testing.T) *fixture {
	return newFixture(t, workflow.Dispute())
}

func newComplaintFixture(t *testing.T) *fixture {
	return newFixture(t, workflow.Complaint())
}

func (fx *fixture) openDispute(t *testing.T) *models.Case {
	t.Helper()
	c, err := fx.svc.OpenCase(context.Background(), fx.renter, &models.OpenCaseRequest{
		BookingID: fx.booking.ID.Hex(),
		Category:  models.CaseCategoryDamage,
		Summary:   "Scratch on the rear bumper that was not there at pickup",
	})
	require.NoError(t, err)
	return c
}

func (fx *fixture) openComplaint(t *testing.T) *models.Case {
	t.Helper()
	c, err := fx.svc.OpenCase(context.Background(), fx.dealer, &models.OpenCaseRequest{
		BookingID: fx.booking.ID.Hex(),
		Category:  models.CaseCategoryLateReturn,
		Summary:   "Vehicle returned six hours late without notice",
	})
	require.NoError(t, err)
	return c
}

func TestOpenDispute(t *testing.T) {
	fx := newDisputeFixture(t)

	c := fx.openDispute(t)

	assert.Equal(t, models.CaseKindDispute, c.Kind)
	assert.Equal(t, models.CaseStatusOpen, c.Status)
	assert.Equal(t, fx.renter.ID, c.OpenedByID)
	assert.Equal(t, models.RoleRenter, c.OpenedByRole)
	assert.Equal(t, fx.dealer.ID, c.CounterpartyID)
	assert.True(t, strings.HasPrefix(c.CaseNumber, utils.DisputeNumberPrefix))

	// Counterparty is told immediately.
	require.Len(t, fx.notifier.opened, 1)

	entries := fx.audit.byAction(models.AuditActionCaseCreate)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, fx.renter.ID, *entries[0].ActorID)
}

func TestOpenDisputeWrongRole(t *testing.T) {
	fx := newDisputeFixture(t)

	_, err := fx.svc.OpenCase(context.Background(), fx.dealer, &models.OpenCaseRequest{
		BookingID: fx.booking.ID.Hex(),
		Category:  models.CaseCategoryDamage,
		Summary:   "should not work",
	})
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	entries := fx.audit.byAction(models.AuditActionCaseCreate)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.NotEmpty(t, entries[0].FailureCause)
}

func TestOpenDisputeEligibility(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	req := &models.OpenCaseRequest{
		BookingID: fx.booking.ID.Hex(),
		Category:  models.CaseCategoryBilling,
		Summary:   "charged twice",
	}

	// Somebody else's booking.
	stranger := &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleRenter}
	_, err := fx.svc.OpenCase(ctx, stranger, req)
	var ineligible *workflow.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, utils.ReasonBookingNotOwned, ineligible.Reason)

	// A booking that never got confirmed.
	fx.booking.Status = models.BookingStatusPending
	_, err = fx.svc.OpenCase(ctx, fx.renter, req)
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, utils.ReasonBookingNotEligible, ineligible.Reason)

	// A rental still underway is not disputable either; the renter waits
	// for completion (or a mid-rental cancellation).
	fx.booking.Status = models.BookingStatusActive
	_, err = fx.svc.OpenCase(ctx, fx.renter, req)
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, utils.ReasonBookingNotEligible, ineligible.Reason)

	// Canceled before the rental started.
	canceledAt := fx.booking.StartDate.Add(-2 * time.Hour)
	fx.booking.Status = models.BookingStatusCanceled
	fx.booking.CanceledAt = &canceledAt
	_, err = fx.svc.OpenCase(ctx, fx.renter, req)
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, utils.ReasonCanceledBeforeStart, ineligible.Reason)

	// Canceled mid-rental still supports a dispute.
	canceledAt = fx.booking.StartDate.Add(6 * time.Hour)
	fx.booking.CanceledAt = &canceledAt
	_, err = fx.svc.OpenCase(ctx, fx.renter, req)
	assert.NoError(t, err)

	// Unknown booking id.
	_, err = fx.svc.OpenCase(ctx, fx.renter, &models.OpenCaseRequest{
		BookingID: primitive.NewObjectID().Hex(),
		Category:  models.CaseCategoryBilling,
		Summary:   "charged twice",
	})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestOpenComplaintStartsAsDraft(t *testing.T) {
	fx := newComplaintFixture(t)

	c := fx.openComplaint(t)

	assert.Equal(t, models.CaseKindComplaint, c.Kind)
	assert.Equal(t, models.CaseStatusDraft, c.Status)
	assert.Equal(t, fx.renter.ID, c.CounterpartyID)
	assert.True(t, strings.HasPrefix(c.CaseNumber, utils.ComplaintNumberPrefix))

	// Drafts are private; nobody is notified yet.
	assert.Empty(t, fx.notifier.opened)
}

func TestOpenComplaintWrongDealer(t *testing.T) {
	fx := newComplaintFixture(t)

	other := &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleDealer}
	_, err := fx.svc.OpenCase(context.Background(), other, &models.OpenCaseRequest{
		BookingID: fx.booking.ID.Hex(),
		Category:  models.CaseCategoryLateReturn,
		Summary:   "late return",
	})
	var ineligible *workflow.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, utils.ReasonBookingNotDealers, ineligible.Reason)
}

func TestGetCaseVisibility(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	// Both parties and admins see the case.
	for _, actor := range []*models.Actor{fx.renter, fx.dealer, fx.admin} {
		detail, err := fx.svc.GetCase(ctx, actor, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, detail.Case.ID)
	}

	stranger := &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleRenter}
	_, err := fx.svc.GetCase(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	_, err = fx.svc.GetCase(ctx, fx.renter, primitive.NewObjectID())
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestGetCaseByNumber(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	detail, err := fx.svc.GetCaseByNumber(ctx, fx.renter, c.CaseNumber)
	require.NoError(t, err)
	assert.Equal(t, c.ID, detail.Case.ID)

	// Same visibility rules as the id lookup.
	stranger := &models.Actor{ID: primitive.NewObjectID(), Role: models.RoleRenter}
	_, err = fx.svc.GetCaseByNumber(ctx, stranger, c.CaseNumber)
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	_, err = fx.svc.GetCaseByNumber(ctx, fx.renter, "DSP-NOSUCH01")
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	// A dispute number does not resolve on the complaint surface.
	cfx := newComplaintFixture(t)
	cfx.caseRepo.cases[c.ID] = c
	_, err = cfx.svc.GetCaseByNumber(ctx, cfx.admin, c.CaseNumber)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestGetCaseAutoEscalatesExpiredDispute(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	fx.now = fx.now.Add(49 * time.Hour)

	detail, err := fx.svc.GetCase(ctx, fx.renter, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnderReview, detail.Case.Status)

	// The transition is recorded once, attributed to the system.
	autos := fx.audit.byAction(models.AuditActionAutoTransition)
	require.Len(t, autos, 1)
	assert.Nil(t, autos[0].ActorID)
	assert.Nil(t, autos[0].ActorRole)
	assert.Equal(t, "response window expired", autos[0].Notes)
	assert.True(t, autos[0].Success)

	// Reading again does not produce a second transition.
	detail, err = fx.svc.GetCase(ctx, fx.renter, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnderReview, detail.Case.Status)
	assert.Len(t, fx.audit.byAction(models.AuditActionAutoTransition), 1)
}

func TestCounterpartyMessageStopsTheClock(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	_, err := fx.svc.AddMessage(ctx, fx.dealer, c.ID, &models.AddMessageRequest{Body: "The scratch was in the pickup photos."})
	require.NoError(t, err)

	fx.now = fx.now.Add(100 * time.Hour)

	detail, err := fx.svc.GetCase(ctx, fx.renter, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAwaitingResponse, detail.Case.Status)
	assert.Empty(t, fx.audit.byAction(models.AuditActionAutoTransition))
}

func TestDealerMessageAdvancesOpenDispute(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	// A renter message changes nothing.
	_, err := fx.svc.AddMessage(ctx, fx.renter, c.ID, &models.AddMessageRequest{Body: "Adding more detail."})
	require.NoError(t, err)
	stored, err := fx.caseRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusOpen, stored.Status)

	// The first dealer response pulls the case forward.
	msg, err := fx.svc.AddMessage(ctx, fx.dealer, c.ID, &models.AddMessageRequest{Body: "Disagree, see pickup photos."})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDealer, msg.SenderRole)

	stored, err = fx.caseRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAwaitingResponse, stored.Status)

	changes := fx.audit.byAction(models.AuditActionStatusChange)
	require.Len(t, changes, 1)
	assert.Equal(t, "counterparty responded", changes[0].Notes)

	// A second dealer message leaves the status where it is.
	_, err = fx.svc.AddMessage(ctx, fx.dealer, c.ID, &models.AddMessageRequest{Body: "Photos attached."})
	require.NoError(t, err)
	stored, err = fx.caseRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAwaitingResponse, stored.Status)
	assert.Len(t, fx.audit.byAction(models.AuditActionStatusChange), 1)
}

func TestClosedCaseRejectsMessagesAndEvidence(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "duplicate of an earlier case",
	})
	require.NoError(t, err)

	for _, actor := range []*models.Actor{fx.renter, fx.dealer, fx.admin, fx.primeAdmin} {
		_, err := fx.svc.AddMessage(ctx, actor, c.ID, &models.AddMessageRequest{Body: "anyone there?"})
		assert.ErrorIs(t, err, workflow.ErrCaseClosed, "messages blocked for %s", actor.Role)

		_, err = fx.svc.AddEvidence(ctx, actor, c.ID, &models.AddEvidenceRequest{
			Files: []models.FileDescriptor{{FileName: "photo.jpg", ContentType: "image/jpeg"}},
		})
		assert.ErrorIs(t, err, workflow.ErrCaseClosed, "evidence blocked for %s", actor.Role)
	}

	assert.Empty(t, fx.caseRepo.messages)
	assert.Empty(t, fx.caseRepo.evidence)
}

func TestAddEvidenceIssuesUploadURLs(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	descriptors, err := fx.svc.AddEvidence(ctx, fx.renter, c.ID, &models.AddEvidenceRequest{
		Files: []models.FileDescriptor{
			{FileName: "bumper.jpg", ContentType: "image/jpeg"},
			{FileName: "receipt.pdf", ContentType: "application/pdf"},
		},
	})
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	for _, d := range descriptors {
		assert.False(t, d.EvidenceID.IsZero())
		assert.True(t, strings.HasPrefix(d.StorageKey, "cases/"+c.ID.Hex()+"/evidence/"))
		assert.True(t, strings.HasPrefix(d.UploadURL, "https://uploads.test/"))
		assert.Equal(t, fx.now.Add(utils.UploadURLExpiry), d.ExpiresAt)
	}

	records, err := fx.caseRepo.ListEvidence(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Batch cap.
	files := make([]models.FileDescriptor, utils.MaxEvidencePerCall+1)
	for i := range files {
		files[i] = models.FileDescriptor{FileName: "f.jpg", ContentType: "image/jpeg"}
	}
	_, err = fx.svc.AddEvidence(ctx, fx.renter, c.ID, &models.AddEvidenceRequest{Files: files})
	assert.Error(t, err)
}

func TestSubmitDraft(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()
	c := fx.openComplaint(t)

	// Only the opener may submit.
	_, err := fx.svc.SubmitDraft(ctx, fx.renter, c.ID, &models.SubmitDraftRequest{AcceptPolicy: true})
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	// The policy checkbox is mandatory.
	_, err = fx.svc.SubmitDraft(ctx, fx.dealer, c.ID, &models.SubmitDraftRequest{})
	assert.ErrorIs(t, err, workflow.ErrPolicyNotAccepted)

	submitted, err := fx.svc.SubmitDraft(ctx, fx.dealer, c.ID, &models.SubmitDraftRequest{AcceptPolicy: true})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusSubmitted, submitted.Status)
	assert.True(t, submitted.PolicyAccepted)

	// Submission is when the counterparty first hears about it.
	require.Len(t, fx.notifier.opened, 1)

	// Submitting twice is a conflict.
	_, err = fx.svc.SubmitDraft(ctx, fx.dealer, c.ID, &models.SubmitDraftRequest{AcceptPolicy: true})
	assert.ErrorIs(t, err, workflow.ErrAlreadySubmitted)
}

func TestDecideRequiresAdmin(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	for _, actor := range []*models.Actor{fx.renter, fx.dealer} {
		_, err := fx.svc.Decide(ctx, actor, c.ID, &models.DecideRequest{
			Value: models.ResolutionNoAction,
			Notes: "closing this out",
		})
		assert.ErrorIs(t, err, workflow.ErrForbidden)
	}
	assert.Empty(t, fx.decisionRepo.decisions)
}

func TestDecideRejectsBlankNotes(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	for _, value := range []models.ResolutionValue{
		models.ResolutionNoAction,
		models.ResolutionPartialRefund,
		models.ResolutionFullRefund,
		models.ResolutionFeeWaived,
		models.ResolutionEscalateToCoverage,
		models.ResolutionClose,
	} {
		for _, notes := range []string{"", "   ", "\t\n"} {
			_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{Value: value, Notes: notes})
			assert.ErrorIs(t, err, workflow.ErrEmptyNotes, "value %s with notes %q", value, notes)
		}
	}
	assert.Empty(t, fx.decisionRepo.decisions)
}

func TestDecideWritesOneDecisionAndOneStatusChange(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	decision, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionFullRefund,
		Notes: "Dealer could not produce pickup photos; renter refunded in full.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusOpen, decision.PreviousStatus)
	assert.Equal(t, models.CaseStatusResolved, decision.ResultingStatus)
	assert.False(t, decision.IsOverride)
	assert.Equal(t, fx.admin.ID, decision.DecidedByID)

	require.Len(t, fx.decisionRepo.decisions, 1)
	stored, err := fx.caseRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, decision.ResultingStatus, stored.Status)

	require.Len(t, fx.notifier.decisions, 1)

	// Full refund moves the whole booking amount.
	require.Len(t, fx.refunds.requests, 1)
	assert.Equal(t, "pi_test", fx.refunds.requests[0].TransactionID)
	assert.InDelta(t, 200.0, fx.refunds.requests[0].Amount, 0.001)
}

func TestDecideRefundFractions(t *testing.T) {
	cases := []struct {
		value models.ResolutionValue
		want  float64
	}{
		{models.ResolutionPartialRefund, 100},
		{models.ResolutionFeeWaived, 20},
	}
	for _, tc := range cases {
		fx := newDisputeFixture(t)
		c := fx.openDispute(t)

		_, err := fx.svc.Decide(context.Background(), fx.admin, c.ID, &models.DecideRequest{
			Value: tc.value,
			Notes: "per assessment",
		})
		require.NoError(t, err)
		require.Len(t, fx.refunds.requests, 1)
		assert.InDelta(t, tc.want, fx.refunds.requests[0].Amount, 0.001, "value %s", tc.value)
	}
}

func TestDecideNoActionMovesNoMoney(t *testing.T) {
	fx := newDisputeFixture(t)
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(context.Background(), fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionNoAction,
		Notes: "pickup photos show pre-existing damage",
	})
	require.NoError(t, err)
	assert.Empty(t, fx.refunds.requests)
}

func TestDecideOnClosedCase(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "withdrawn by renter",
	})
	require.NoError(t, err)

	// A decided case is done; even admins get the transition error back.
	_, err = fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionNoAction,
		Notes: "second thoughts",
	})
	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.CaseStatusClosed, invalid.From)
	assert.Equal(t, models.CaseStatusResolved, invalid.To)

	// Closing twice would mint a second ledger entry; refuse that too.
	_, err = fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "close it again",
	})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.CaseStatusClosed, invalid.From)
	assert.Equal(t, models.CaseStatusClosed, invalid.To)
	assert.Len(t, fx.decisionRepo.decisions, 1)
}

func TestDecideUnknownValue(t *testing.T) {
	fx := newDisputeFixture(t)
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(context.Background(), fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionValue("split_the_difference"),
		Notes: "inventing policy",
	})
	assert.ErrorIs(t, err, workflow.ErrUnknownDecision)
}

func TestComplaintRejectsDisputeOnlyValues(t *testing.T) {
	fx := newComplaintFixture(t)
	ctx := context.Background()
	c := fx.openComplaint(t)
	_, err := fx.svc.SubmitDraft(ctx, fx.dealer, c.ID, &models.SubmitDraftRequest{AcceptPolicy: true})
	require.NoError(t, err)

	for _, value := range []models.ResolutionValue{
		models.ResolutionPartialRefund,
		models.ResolutionFullRefund,
		models.ResolutionEscalateToCoverage,
	} {
		_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{Value: value, Notes: "n/a"})
		assert.ErrorIs(t, err, workflow.ErrUnknownDecision, "complaint should not accept %s", value)
	}
}

func TestDecideOnUnsubmittedDraft(t *testing.T) {
	fx := newComplaintFixture(t)
	c := fx.openComplaint(t)

	_, err := fx.svc.Decide(context.Background(), fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionNoAction,
		Notes: "jumping the queue",
	})
	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.CaseStatusDraft, invalid.From)
}

func TestOverrideAuthority(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "no evidence either way",
	})
	require.NoError(t, err)

	// A plain admin cannot touch a closed case.
	_, err = fx.svc.Override(ctx, fx.admin, c.ID, &models.OverrideRequest{
		Value: models.OverrideReverse,
		Notes: "reopening",
	})
	assert.ErrorIs(t, err, workflow.ErrForbidden)

	// Prime admin can.
	decision, err := fx.svc.Override(ctx, fx.primeAdmin, c.ID, &models.OverrideRequest{
		Value: models.OverrideReverse,
		Notes: "Second review found the renter was right; reversing the closure.",
	})
	require.NoError(t, err)
	assert.True(t, decision.IsOverride)
	assert.Equal(t, models.CaseStatusClosed, decision.PreviousStatus)
	assert.Equal(t, models.CaseStatusResolved, decision.ResultingStatus)

	stored, err := fx.caseRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusResolved, stored.Status)

	// Reversal refunds the booking in full.
	require.Len(t, fx.refunds.requests, 1)
	assert.InDelta(t, 200.0, fx.refunds.requests[0].Amount, 0.001)
}

func TestOverrideOnLiveCase(t *testing.T) {
	fx := newDisputeFixture(t)
	c := fx.openDispute(t)

	_, err := fx.svc.Override(context.Background(), fx.primeAdmin, c.ID, &models.OverrideRequest{
		Value: models.OverrideLock,
		Notes: "locking early",
	})
	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.CaseStatusOpen, invalid.From)
}

func TestOverrideRejectsBlankNotes(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	c := fx.openDispute(t)

	_, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "done",
	})
	require.NoError(t, err)

	_, err = fx.svc.Override(ctx, fx.primeAdmin, c.ID, &models.OverrideRequest{
		Value: models.OverrideReverse,
		Notes: "   ",
	})
	assert.ErrorIs(t, err, workflow.ErrEmptyNotes)
}

func TestListCasesScoping(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()
	fx.openDispute(t)

	// Parties only see cases they are on.
	_, _, err := fx.svc.ListCases(ctx, fx.renter, nil, &utils.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.NotNil(t, fx.caseRepo.lastFilter.ParticipantID)
	assert.Equal(t, fx.renter.ID, *fx.caseRepo.lastFilter.ParticipantID)
	assert.Equal(t, models.CaseKindDispute, fx.caseRepo.lastFilter.Kind)

	// Admins see everything of this kind.
	_, _, err = fx.svc.ListCases(ctx, fx.admin, nil, &utils.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Nil(t, fx.caseRepo.lastFilter.ParticipantID)
}

func TestKindIsolation(t *testing.T) {
	fx := newDisputeFixture(t)
	c := fx.openDispute(t)

	// Point a complaint-configured service at the same storage.
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	require.NoError(t, err)
	complaints := newCaseService(
		workflow.Complaint(), fakeTx{}, fx.caseRepo, fx.decisionRepo, fx.bookingRepo,
		fx.audit, fx.notifier, fx.refunds, fx.store,
		RefundPolicy{}, log,
	)

	_, err = complaints.GetCase(context.Background(), fx.admin, c.ID)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestFullDisputeLifecycle(t *testing.T) {
	fx := newDisputeFixture(t)
	ctx := context.Background()

	c := fx.openDispute(t)
	require.Equal(t, models.CaseStatusOpen, c.Status)

	_, err := fx.svc.AddMessage(ctx, fx.dealer, c.ID, &models.AddMessageRequest{Body: "Our inspection found no new damage."})
	require.NoError(t, err)

	_, err = fx.svc.AddEvidence(ctx, fx.renter, c.ID, &models.AddEvidenceRequest{
		Files: []models.FileDescriptor{{FileName: "dropoff.jpg", ContentType: "image/jpeg"}},
	})
	require.NoError(t, err)

	decision, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionPartialRefund,
		Notes: "Damage is real but minor; splitting the repair cost.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusAwaitingResponse, decision.PreviousStatus)
	assert.Equal(t, models.CaseStatusResolved, decision.ResultingStatus)

	closing, err := fx.svc.Decide(ctx, fx.admin, c.ID, &models.DecideRequest{
		Value: models.ResolutionClose,
		Notes: "Both parties accepted the outcome.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusClosed, closing.ResultingStatus)

	detail, err := fx.svc.GetCase(ctx, fx.admin, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusClosed, detail.Case.Status)
	assert.Len(t, detail.Messages, 1)
	assert.Len(t, detail.Evidence, 1)
	assert.Len(t, detail.Decisions, 2)

	// The ledger kept every step and each decision produced exactly one
	// status change.
	require.Len(t, fx.decisionRepo.decisions, 2)
	for _, d := range fx.decisionRepo.decisions {
		assert.NotEqual(t, d.PreviousStatus, d.ResultingStatus)
	}

	// One partial refund went out.
	require.Len(t, fx.refunds.requests, 1)
	assert.InDelta(t, 100.0, fx.refunds.requests[0].Amount, 0.001)
}
