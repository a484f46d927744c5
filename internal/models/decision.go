package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResolutionValue string
type OverrideValue string

// Resolution values are valid for admin-tier actors on non-terminal cases.
const (
	ResolutionNoAction           ResolutionValue = "no_action"
	ResolutionPartialRefund      ResolutionValue = "partial_refund"
	ResolutionFullRefund         ResolutionValue = "full_refund"
	ResolutionFeeWaived          ResolutionValue = "fee_waived"
	ResolutionEscalateToCoverage ResolutionValue = "escalate_to_coverage"
	ResolutionClose              ResolutionValue = "close"
)

// Override values are valid only for prime-admin-or-above on closed cases.
// Kept as a separate enum so an ordinary decision can never smuggle one in.
const (
	OverrideReverse OverrideValue = "reverse"
	OverrideFlag    OverrideValue = "flag"
	OverrideLock    OverrideValue = "lock"
	OverrideClose   OverrideValue = "close"
)

// Decision is an immutable resolution record. Exactly one decision is written
// per successful decide call, and it carries the status it produced.
type Decision struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID          primitive.ObjectID `json:"case_id" bson:"case_id" validate:"required"`
	DecidedByID     primitive.ObjectID `json:"decided_by_id" bson:"decided_by_id" validate:"required"`
	DecidedByRole   Role               `json:"decided_by_role" bson:"decided_by_role" validate:"required"`
	Value           string             `json:"value" bson:"value" validate:"required"`
	Notes           string             `json:"notes" bson:"notes" validate:"required"`
	IsOverride      bool               `json:"is_override" bson:"is_override"`
	PreviousStatus  CaseStatus         `json:"previous_status" bson:"previous_status"`
	ResultingStatus CaseStatus         `json:"resulting_status" bson:"resulting_status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}
