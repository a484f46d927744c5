package handlers

import (
	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditHandler exposes the audit trail to admin-tier users. Read-only; the
// trail is written by the services, never through this surface.
type AuditHandler struct {
	auditRepo interfaces.AuditLogRepository
}

func NewAuditHandler(auditRepo interfaces.AuditLogRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

// ListAuditLogs lists audit records, optionally narrowed to an actor, an
// action, or one resource's history
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		logs  []*models.AuditLog
		total int64
		err   error
	)

	switch {
	case c.Query("actor_id") != "":
		actorID, parseErr := primitive.ObjectIDFromHex(c.Query("actor_id"))
		if parseErr != nil {
			utils.BadRequestResponse(c, "Invalid actor ID")
			return
		}
		logs, total, err = h.auditRepo.GetByActorID(c.Request.Context(), actorID, params)
	case c.Query("action") != "":
		logs, total, err = h.auditRepo.GetByAction(c.Request.Context(), models.AuditAction(c.Query("action")), params)
	case c.Query("resource") != "" && c.Query("resource_id") != "":
		logs, total, err = h.auditRepo.GetResourceHistory(c.Request.Context(), c.Query("resource"), c.Query("resource_id"), params)
	default:
		logs, total, err = h.auditRepo.List(c.Request.Context(), params)
	}

	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Audit logs retrieved", logs, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(logs),
	})
}

// GetAuditLog retrieves one audit record
func (h *AuditHandler) GetAuditLog(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid audit log ID")
		return
	}

	entry, err := h.auditRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.NotFoundResponse(c, "Audit log")
		return
	}

	utils.SuccessResponse(c, "Audit log retrieved", entry)
}
