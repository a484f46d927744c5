package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCaseCreate     AuditAction = "case_create"
	AuditActionMessageAdd     AuditAction = "message_add"
	AuditActionEvidenceAdd    AuditAction = "evidence_add"
	AuditActionDraftSubmit    AuditAction = "draft_submit"
	AuditActionStatusChange   AuditAction = "status_change"
	AuditActionDecision       AuditAction = "decision"
	AuditActionOverride       AuditAction = "override"
	AuditActionAutoTransition AuditAction = "auto_transition"
)

// AuditLog records one mutating attempt, successful or not. ActorID and
// ActorRole are nil for system-triggered auto transitions.
type AuditLog struct {
	ID           primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ActorID      *primitive.ObjectID    `json:"actor_id" bson:"actor_id"`
	ActorRole    *Role                  `json:"actor_role" bson:"actor_role"`
	Action       AuditAction            `json:"action" bson:"action" validate:"required"`
	Resource     string                 `json:"resource" bson:"resource" validate:"required"`
	ResourceID   string                 `json:"resource_id" bson:"resource_id"`
	OldValues    map[string]interface{} `json:"old_values" bson:"old_values"`
	NewValues    map[string]interface{} `json:"new_values" bson:"new_values"`
	Notes        string                 `json:"notes" bson:"notes"`
	IPAddress    string                 `json:"ip_address" bson:"ip_address"`
	UserAgent    string                 `json:"user_agent" bson:"user_agent"`
	Success      bool                   `json:"success" bson:"success"`
	FailureCause string                 `json:"failure_cause" bson:"failure_cause"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
}
