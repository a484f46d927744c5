package workflow

import (
	"time"

	"gorent/internal/models"
)

// MessageAdvance is the single message-driven transition: a message from one
// of the listed roles while the case sits in From moves it to To.
type MessageAdvance struct {
	From  models.CaseStatus
	To    models.CaseStatus
	Roles []models.Role
}

// Definition instantiates the generic case workflow for one kind. The dispute
// and complaint engines are the same machinery with different tables.
type Definition struct {
	Kind       models.CaseKind
	Initial    models.CaseStatus
	OpenerRole models.Role

	// edges holds every legal non-override transition. An edge not present
	// here is rejected with InvalidTransitionError for every role.
	edges map[models.CaseStatus][]models.CaseStatus

	// Resolutions and Overrides map decision values to the status they imply.
	// Kept as two tables so override-only values cannot be submitted through
	// the ordinary decision path.
	Resolutions map[models.ResolutionValue]models.CaseStatus
	Overrides   map[models.OverrideValue]models.CaseStatus

	// AutoEscalateFrom lists the statuses the response-window check applies
	// to; an expired case in one of these moves to AutoEscalateTo.
	AutoEscalateFrom []models.CaseStatus
	AutoEscalateTo   models.CaseStatus
	ResponseWindow   time.Duration

	messageAdvance *MessageAdvance
}

// ValidateTransition reports whether from -> to is a legal non-override edge.
// closed -> closed is the one tolerated self-loop.
func (d *Definition) ValidateTransition(from, to models.CaseStatus) error {
	if from == models.CaseStatusClosed && to == models.CaseStatusClosed {
		return nil
	}
	for _, next := range d.edges[from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// ResolutionTarget resolves an ordinary decision value to the status it
// implies, per kind.
func (d *Definition) ResolutionTarget(value models.ResolutionValue) (models.CaseStatus, error) {
	target, ok := d.Resolutions[value]
	if !ok {
		return "", ErrUnknownDecision
	}
	return target, nil
}

// OverrideTarget resolves an override value. Overrides bypass the edge table
// on purpose: the caller must already have verified the actor's authority.
func (d *Definition) OverrideTarget(value models.OverrideValue) (models.CaseStatus, error) {
	target, ok := d.Overrides[value]
	if !ok {
		return "", ErrUnknownDecision
	}
	return target, nil
}

// MessageAdvanceTarget returns the status a message from senderRole should
// push the case into, if the side-effect rule applies.
func (d *Definition) MessageAdvanceTarget(current models.CaseStatus, senderRole models.Role) (models.CaseStatus, bool) {
	if d.messageAdvance == nil || current != d.messageAdvance.From {
		return "", false
	}
	for _, role := range d.messageAdvance.Roles {
		if senderRole.Normalize() == role || senderRole.AtLeast(models.RoleAdmin) {
			return d.messageAdvance.To, true
		}
	}
	return "", false
}

// Dispute builds the renter-opened dispute workflow.
func Dispute() *Definition {
	return &Definition{
		Kind:       models.CaseKindDispute,
		Initial:    models.CaseStatusOpen,
		OpenerRole: models.RoleRenter,
		edges: map[models.CaseStatus][]models.CaseStatus{
			models.CaseStatusOpen: {
				models.CaseStatusAwaitingResponse,
				models.CaseStatusUnderReview,
				models.CaseStatusResolved,
				models.CaseStatusEscalated,
				models.CaseStatusClosed,
			},
			models.CaseStatusAwaitingResponse: {
				models.CaseStatusUnderReview,
				models.CaseStatusResolved,
				models.CaseStatusEscalated,
				models.CaseStatusClosed,
			},
			models.CaseStatusUnderReview: {
				models.CaseStatusResolved,
				models.CaseStatusEscalated,
				models.CaseStatusClosed,
			},
			models.CaseStatusResolved: {
				models.CaseStatusClosed,
			},
			models.CaseStatusEscalated: {
				models.CaseStatusResolved,
				models.CaseStatusClosed,
			},
		},
		Resolutions: map[models.ResolutionValue]models.CaseStatus{
			models.ResolutionNoAction:           models.CaseStatusResolved,
			models.ResolutionPartialRefund:      models.CaseStatusResolved,
			models.ResolutionFullRefund:         models.CaseStatusResolved,
			models.ResolutionFeeWaived:          models.CaseStatusResolved,
			models.ResolutionEscalateToCoverage: models.CaseStatusEscalated,
			models.ResolutionClose:              models.CaseStatusClosed,
		},
		Overrides: map[models.OverrideValue]models.CaseStatus{
			models.OverrideReverse: models.CaseStatusResolved,
			models.OverrideFlag:    models.CaseStatusUnderReview,
			models.OverrideLock:    models.CaseStatusClosed,
			models.OverrideClose:   models.CaseStatusClosed,
		},
		AutoEscalateFrom: []models.CaseStatus{
			models.CaseStatusOpen,
			models.CaseStatusAwaitingResponse,
		},
		AutoEscalateTo: models.CaseStatusUnderReview,
		ResponseWindow: ResponseWindow,
		messageAdvance: &MessageAdvance{
			From:  models.CaseStatusOpen,
			To:    models.CaseStatusAwaitingResponse,
			Roles: []models.Role{models.RoleDealer},
		},
	}
}

// Complaint builds the dealer-opened complaint workflow: a reduced status set
// with an explicit draft/submit step and no coverage escalation.
func Complaint() *Definition {
	return &Definition{
		Kind:       models.CaseKindComplaint,
		Initial:    models.CaseStatusDraft,
		OpenerRole: models.RoleDealer,
		edges: map[models.CaseStatus][]models.CaseStatus{
			models.CaseStatusDraft: {
				models.CaseStatusSubmitted,
			},
			models.CaseStatusSubmitted: {
				models.CaseStatusUnderReview,
				models.CaseStatusResolved,
				models.CaseStatusClosed,
			},
			models.CaseStatusUnderReview: {
				models.CaseStatusResolved,
				models.CaseStatusClosed,
			},
			models.CaseStatusResolved: {
				models.CaseStatusClosed,
			},
		},
		Resolutions: map[models.ResolutionValue]models.CaseStatus{
			models.ResolutionNoAction:  models.CaseStatusResolved,
			models.ResolutionFeeWaived: models.CaseStatusResolved,
			models.ResolutionClose:     models.CaseStatusClosed,
		},
		Overrides: map[models.OverrideValue]models.CaseStatus{
			models.OverrideReverse: models.CaseStatusResolved,
			models.OverrideFlag:    models.CaseStatusUnderReview,
			models.OverrideLock:    models.CaseStatusClosed,
			models.OverrideClose:   models.CaseStatusClosed,
		},
		AutoEscalateFrom: []models.CaseStatus{
			models.CaseStatusSubmitted,
		},
		AutoEscalateTo: models.CaseStatusUnderReview,
		ResponseWindow: ResponseWindow,
	}
}
