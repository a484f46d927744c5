package workflow

import (
	"testing"

	"gorent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisputeTransitions(t *testing.T) {
	def := Dispute()

	allowed := []struct {
		from, to models.CaseStatus
	}{
		{models.CaseStatusOpen, models.CaseStatusAwaitingResponse},
		{models.CaseStatusOpen, models.CaseStatusUnderReview},
		{models.CaseStatusOpen, models.CaseStatusResolved},
		{models.CaseStatusOpen, models.CaseStatusEscalated},
		{models.CaseStatusOpen, models.CaseStatusClosed},
		{models.CaseStatusAwaitingResponse, models.CaseStatusUnderReview},
		{models.CaseStatusAwaitingResponse, models.CaseStatusResolved},
		{models.CaseStatusAwaitingResponse, models.CaseStatusEscalated},
		{models.CaseStatusAwaitingResponse, models.CaseStatusClosed},
		{models.CaseStatusUnderReview, models.CaseStatusResolved},
		{models.CaseStatusUnderReview, models.CaseStatusEscalated},
		{models.CaseStatusUnderReview, models.CaseStatusClosed},
		{models.CaseStatusResolved, models.CaseStatusClosed},
		{models.CaseStatusEscalated, models.CaseStatusResolved},
		{models.CaseStatusEscalated, models.CaseStatusClosed},
		// The one tolerated self-loop.
		{models.CaseStatusClosed, models.CaseStatusClosed},
	}
	for _, tc := range allowed {
		assert.NoError(t, def.ValidateTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	rejected := []struct {
		from, to models.CaseStatus
	}{
		{models.CaseStatusAwaitingResponse, models.CaseStatusOpen},
		{models.CaseStatusUnderReview, models.CaseStatusOpen},
		{models.CaseStatusUnderReview, models.CaseStatusAwaitingResponse},
		{models.CaseStatusResolved, models.CaseStatusOpen},
		{models.CaseStatusResolved, models.CaseStatusUnderReview},
		{models.CaseStatusResolved, models.CaseStatusEscalated},
		{models.CaseStatusClosed, models.CaseStatusOpen},
		{models.CaseStatusClosed, models.CaseStatusResolved},
		{models.CaseStatusClosed, models.CaseStatusUnderReview},
		{models.CaseStatusOpen, models.CaseStatusOpen},
		{models.CaseStatusResolved, models.CaseStatusResolved},
		// Complaint statuses never occur in the dispute machine.
		{models.CaseStatusOpen, models.CaseStatusSubmitted},
		{models.CaseStatusDraft, models.CaseStatusSubmitted},
	}
	for _, tc := range rejected {
		err := def.ValidateTransition(tc.from, tc.to)
		require.Error(t, err, "%s -> %s should be rejected", tc.from, tc.to)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, tc.from, invalid.From)
		assert.Equal(t, tc.to, invalid.To)
	}
}

func TestComplaintTransitions(t *testing.T) {
	def := Complaint()

	allowed := []struct {
		from, to models.CaseStatus
	}{
		{models.CaseStatusDraft, models.CaseStatusSubmitted},
		{models.CaseStatusSubmitted, models.CaseStatusUnderReview},
		{models.CaseStatusSubmitted, models.CaseStatusResolved},
		{models.CaseStatusSubmitted, models.CaseStatusClosed},
		{models.CaseStatusUnderReview, models.CaseStatusResolved},
		{models.CaseStatusUnderReview, models.CaseStatusClosed},
		{models.CaseStatusResolved, models.CaseStatusClosed},
		{models.CaseStatusClosed, models.CaseStatusClosed},
	}
	for _, tc := range allowed {
		assert.NoError(t, def.ValidateTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	rejected := []struct {
		from, to models.CaseStatus
	}{
		{models.CaseStatusSubmitted, models.CaseStatusDraft},
		{models.CaseStatusDraft, models.CaseStatusUnderReview},
		{models.CaseStatusDraft, models.CaseStatusResolved},
		{models.CaseStatusDraft, models.CaseStatusClosed},
		{models.CaseStatusResolved, models.CaseStatusUnderReview},
		{models.CaseStatusClosed, models.CaseStatusResolved},
		// Dispute-only statuses never occur in the complaint machine.
		{models.CaseStatusSubmitted, models.CaseStatusAwaitingResponse},
		{models.CaseStatusSubmitted, models.CaseStatusEscalated},
		{models.CaseStatusOpen, models.CaseStatusUnderReview},
	}
	for _, tc := range rejected {
		assert.Error(t, def.ValidateTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestDisputeResolutionTargets(t *testing.T) {
	def := Dispute()

	cases := map[models.ResolutionValue]models.CaseStatus{
		models.ResolutionNoAction:           models.CaseStatusResolved,
		models.ResolutionPartialRefund:      models.CaseStatusResolved,
		models.ResolutionFullRefund:         models.CaseStatusResolved,
		models.ResolutionFeeWaived:          models.CaseStatusResolved,
		models.ResolutionEscalateToCoverage: models.CaseStatusEscalated,
		models.ResolutionClose:              models.CaseStatusClosed,
	}
	for value, want := range cases {
		target, err := def.ResolutionTarget(value)
		require.NoError(t, err)
		assert.Equal(t, want, target)
	}

	_, err := def.ResolutionTarget(models.ResolutionValue("bogus"))
	assert.ErrorIs(t, err, ErrUnknownDecision)

	// Override values never pass through the ordinary decision path.
	_, err = def.ResolutionTarget(models.ResolutionValue(models.OverrideReverse))
	assert.ErrorIs(t, err, ErrUnknownDecision)
}

func TestComplaintResolutionTargets(t *testing.T) {
	def := Complaint()

	target, err := def.ResolutionTarget(models.ResolutionNoAction)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusResolved, target)

	target, err = def.ResolutionTarget(models.ResolutionFeeWaived)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusResolved, target)

	target, err = def.ResolutionTarget(models.ResolutionClose)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusClosed, target)

	// Money-moving and coverage values exist only on the dispute side.
	for _, value := range []models.ResolutionValue{
		models.ResolutionPartialRefund,
		models.ResolutionFullRefund,
		models.ResolutionEscalateToCoverage,
	} {
		_, err := def.ResolutionTarget(value)
		assert.ErrorIs(t, err, ErrUnknownDecision, "complaint should not accept %s", value)
	}
}

func TestOverrideTargets(t *testing.T) {
	for _, def := range []*Definition{Dispute(), Complaint()} {
		cases := map[models.OverrideValue]models.CaseStatus{
			models.OverrideReverse: models.CaseStatusResolved,
			models.OverrideFlag:    models.CaseStatusUnderReview,
			models.OverrideLock:    models.CaseStatusClosed,
			models.OverrideClose:   models.CaseStatusClosed,
		}
		for value, want := range cases {
			target, err := def.OverrideTarget(value)
			require.NoError(t, err)
			assert.Equal(t, want, target)
		}

		_, err := def.OverrideTarget(models.OverrideValue("bogus"))
		assert.ErrorIs(t, err, ErrUnknownDecision)
	}
}

func TestDisputeMessageAdvance(t *testing.T) {
	def := Dispute()

	// Counterparty response pulls an open dispute forward.
	target, ok := def.MessageAdvanceTarget(models.CaseStatusOpen, models.RoleDealer)
	require.True(t, ok)
	assert.Equal(t, models.CaseStatusAwaitingResponse, target)

	// private_host normalizes to dealer.
	target, ok = def.MessageAdvanceTarget(models.CaseStatusOpen, models.RolePrivateHost)
	require.True(t, ok)
	assert.Equal(t, models.CaseStatusAwaitingResponse, target)

	// Admin-tier messages count as a response too.
	_, ok = def.MessageAdvanceTarget(models.CaseStatusOpen, models.RoleAdmin)
	assert.True(t, ok)
	_, ok = def.MessageAdvanceTarget(models.CaseStatusOpen, models.RoleSuperAdmin)
	assert.True(t, ok)

	// The renter talking to themselves does not.
	_, ok = def.MessageAdvanceTarget(models.CaseStatusOpen, models.RoleRenter)
	assert.False(t, ok)

	// Only the open status is wired for message advancement.
	for _, status := range []models.CaseStatus{
		models.CaseStatusAwaitingResponse,
		models.CaseStatusUnderReview,
		models.CaseStatusResolved,
		models.CaseStatusEscalated,
		models.CaseStatusClosed,
	} {
		_, ok := def.MessageAdvanceTarget(status, models.RoleDealer)
		assert.False(t, ok, "no message advance from %s", status)
	}
}

func TestComplaintHasNoMessageAdvance(t *testing.T) {
	def := Complaint()
	for _, status := range []models.CaseStatus{
		models.CaseStatusDraft,
		models.CaseStatusSubmitted,
		models.CaseStatusUnderReview,
	} {
		for _, role := range []models.Role{models.RoleRenter, models.RoleDealer, models.RoleAdmin} {
			_, ok := def.MessageAdvanceTarget(status, role)
			assert.False(t, ok)
		}
	}
}
