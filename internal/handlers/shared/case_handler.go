package handlers

import (
	"errors"
	"strings"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseHandler serves one workflow surface. The dispute and complaint routers
// each get their own instance backed by the matching service.
type CaseHandler struct {
	caseService services.CaseService
	resource    string
}

func NewCaseHandler(caseService services.CaseService, resource string) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		resource:    resource,
	}
}

// OpenCase opens a new case against a booking
func (h *CaseHandler) OpenCase(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.OpenCaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateOpenCase(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, toDetails(errs))
		return
	}

	opened, err := h.caseService.OpenCase(c.Request.Context(), actor, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, h.resource+" opened successfully", opened)
}

// ListCases lists cases visible to the caller
func (h *CaseHandler) ListCases(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	filter := &models.CaseFilter{
		Status: models.CaseStatus(c.Query("status")),
	}
	if bookingID := c.Query("booking_id"); bookingID != "" {
		id, err := primitive.ObjectIDFromHex(bookingID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid booking ID")
			return
		}
		filter.BookingID = &id
	}

	params := utils.GetPaginationParams(c)
	cases, total, err := h.caseService.ListCases(c.Request.Context(), actor, filter, params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, h.resource+" cases retrieved", cases, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(cases),
	})
}

// GetCase retrieves one case with its messages, evidence and decisions
func (h *CaseHandler) GetCase(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	detail, err := h.caseService.GetCase(c.Request.Context(), actor, caseID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, h.resource+" retrieved successfully", detail)
}

func (h *CaseHandler) GetCaseByNumber(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseNumber := strings.TrimSpace(c.Param("case_number"))
	if caseNumber == "" {
		utils.BadRequestResponse(c, "Invalid case number")
		return
	}

	detail, err := h.caseService.GetCaseByNumber(c.Request.Context(), actor, caseNumber)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, h.resource+" retrieved successfully", detail)
}

// AddMessage appends a message to the case thread
func (h *CaseHandler) AddMessage(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	var request models.AddMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateAddMessage(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, toDetails(errs))
		return
	}

	message, err := h.caseService.AddMessage(c.Request.Context(), actor, caseID, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Message added successfully", message)
}

// AddEvidence records evidence descriptors and hands back upload URLs
func (h *CaseHandler) AddEvidence(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	var request models.AddEvidenceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateAddEvidence(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, toDetails(errs))
		return
	}

	descriptors, err := h.caseService.AddEvidence(c.Request.Context(), actor, caseID, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Evidence upload URLs issued", descriptors)
}

// SubmitDraft moves a draft complaint into the live workflow
func (h *CaseHandler) SubmitDraft(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	var request models.SubmitDraftRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	submitted, err := h.caseService.SubmitDraft(c.Request.Context(), actor, caseID, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, h.resource+" submitted successfully", submitted)
}

// Decide renders an ordinary decision on a live case
func (h *CaseHandler) Decide(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	var request models.DecideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateDecide(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, toDetails(errs))
		return
	}

	decision, err := h.caseService.Decide(c.Request.Context(), actor, caseID, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Decision recorded successfully", decision)
}

// Override reopens or re-seals a closed case
func (h *CaseHandler) Override(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	caseID, err := h.caseID(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid case ID")
		return
	}

	var request models.OverrideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateOverride(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, toDetails(errs))
		return
	}

	decision, err := h.caseService.Override(c.Request.Context(), actor, caseID, &request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Override recorded successfully", decision)
}

func (h *CaseHandler) caseID(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("id"))
}

// respondError maps the workflow error taxonomy onto HTTP. Policy rejections
// come back as 422 with a code naming the policy that fired; races as 409.
func (h *CaseHandler) respondError(c *gin.Context, err error) {
	var ineligible *workflow.IneligibleError
	var invalidTransition *workflow.InvalidTransitionError

	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, workflow.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, workflow.ErrNotFound):
		utils.NotFoundResponse(c, h.resource)
	case errors.Is(err, workflow.ErrStatusConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, workflow.ErrAlreadySubmitted):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, workflow.ErrCaseClosed):
		utils.UnprocessableResponse(c, "CASE_CLOSED", err.Error())
	case errors.Is(err, workflow.ErrEmptyNotes):
		utils.UnprocessableResponse(c, "EMPTY_NOTES", err.Error())
	case errors.Is(err, workflow.ErrPolicyNotAccepted):
		utils.UnprocessableResponse(c, "POLICY_NOT_ACCEPTED", err.Error())
	case errors.Is(err, workflow.ErrUnknownDecision):
		utils.UnprocessableResponse(c, "UNKNOWN_DECISION", err.Error())
	case errors.As(err, &ineligible):
		utils.UnprocessableResponse(c, "BOOKING_INELIGIBLE", ineligible.Reason)
	case errors.As(err, &invalidTransition):
		utils.UnprocessableResponse(c, "INVALID_TRANSITION", invalidTransition.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}

func toDetails(errs validators.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		details[e.Field] = e.Message
	}
	return details
}
