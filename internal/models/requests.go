package models

// Request bodies bound by the handlers.

type OpenCaseRequest struct {
	BookingID string       `json:"booking_id" binding:"required"`
	Category  CaseCategory `json:"category" binding:"required"`
	Summary   string       `json:"summary" binding:"required"`
}

type AddMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type AddEvidenceRequest struct {
	Files []FileDescriptor `json:"files" binding:"required,min=1,dive"`
}

type SubmitDraftRequest struct {
	AcceptPolicy bool `json:"accept_policy"`
}

type DecideRequest struct {
	Value ResolutionValue `json:"value" binding:"required"`
	Notes string          `json:"notes" binding:"required"`
}

type OverrideRequest struct {
	Value OverrideValue `json:"value" binding:"required"`
	Notes string        `json:"notes" binding:"required"`
}
