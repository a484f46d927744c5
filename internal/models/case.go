package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseKind string
type CaseStatus string
type CaseCategory string

const (
	CaseKindDispute   CaseKind = "dispute"
	CaseKindComplaint CaseKind = "complaint"

	// Dispute statuses
	CaseStatusOpen             CaseStatus = "open"
	CaseStatusAwaitingResponse CaseStatus = "awaiting_response"
	CaseStatusUnderReview      CaseStatus = "under_review"
	CaseStatusResolved         CaseStatus = "resolved"
	CaseStatusEscalated        CaseStatus = "escalated"
	CaseStatusClosed           CaseStatus = "closed"

	// Complaint-only statuses
	CaseStatusDraft     CaseStatus = "draft"
	CaseStatusSubmitted CaseStatus = "submitted"

	CaseCategoryDamage       CaseCategory = "damage"
	CaseCategoryNoShow       CaseCategory = "no_show"
	CaseCategoryBilling      CaseCategory = "billing"
	CaseCategoryLateReturn   CaseCategory = "late_return"
	CaseCategoryCleanliness  CaseCategory = "cleanliness"
	CaseCategoryMisconduct   CaseCategory = "misconduct"
	CaseCategoryCancellation CaseCategory = "cancellation"
	CaseCategoryOther        CaseCategory = "other"
)

func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusClosed
}

type Case struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseNumber     string             `json:"case_number" bson:"case_number" validate:"required"`
	Kind           CaseKind           `json:"kind" bson:"kind" validate:"required"`
	BookingID      primitive.ObjectID `json:"booking_id" bson:"booking_id" validate:"required"`
	OpenedByID     primitive.ObjectID `json:"opened_by_id" bson:"opened_by_id" validate:"required"`
	OpenedByRole   Role               `json:"opened_by_role" bson:"opened_by_role" validate:"required"`
	CounterpartyID primitive.ObjectID `json:"counterparty_id" bson:"counterparty_id"`
	Category       CaseCategory       `json:"category" bson:"category" validate:"required"`
	Summary        string             `json:"summary" bson:"summary" validate:"required"`
	Status         CaseStatus         `json:"status" bson:"status"`
	PolicyAccepted bool               `json:"policy_accepted" bson:"policy_accepted"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	ResolvedAt     *time.Time         `json:"resolved_at" bson:"resolved_at"`
	ClosedAt       *time.Time         `json:"closed_at" bson:"closed_at"`
}

// CounterpartyRole is the role expected to respond to the opening party.
func (c *Case) CounterpartyRole() Role {
	if c.OpenedByRole.Normalize() == RoleRenter {
		return RoleDealer
	}
	return RoleRenter
}

// IsParticipant reports whether the user is one of the two parties on the case.
func (c *Case) IsParticipant(userID primitive.ObjectID) bool {
	return c.OpenedByID == userID || c.CounterpartyID == userID
}

// CaseDetail is the read-side assembly of a case for display.
type CaseDetail struct {
	Case      *Case          `json:"case"`
	Messages  []*CaseMessage `json:"messages"`
	Evidence  []*Evidence    `json:"evidence"`
	Decisions []*Decision    `json:"decisions"`
}

// CaseFilter narrows case listings. Zero values mean no constraint.
type CaseFilter struct {
	Kind           CaseKind            `json:"kind" form:"kind"`
	Status         CaseStatus          `json:"status" form:"status"`
	BookingID      *primitive.ObjectID `json:"booking_id" form:"-"`
	OpenedByID     *primitive.ObjectID `json:"opened_by_id" form:"-"`
	CounterpartyID *primitive.ObjectID `json:"counterparty_id" form:"-"`
	ParticipantID  *primitive.ObjectID `json:"participant_id" form:"-"`
}
