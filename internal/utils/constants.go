package utils

import "time"

// Application Constants
const (
	AppName    = "GoRent"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Case constants
	CaseNumberLength   = 8
	MaxEvidencePerCall = 10

	// Evidence uploads
	UploadURLExpiry = 15 * time.Minute

	// Cache TTLs
	CaseCacheTTL = 10 * time.Minute
	UserCacheTTL = time.Hour
)

// Case number prefixes
const (
	DisputeNumberPrefix   = "DSP-"
	ComplaintNumberPrefix = "CMP-"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
)

// Eligibility reasons, surfaced to the caller verbatim.
const (
	ReasonBookingNotOwned     = "booking does not belong to the requesting renter"
	ReasonBookingNotDealers   = "booking does not belong to the requesting dealer"
	ReasonBookingNotEligible  = "booking status does not allow opening a case"
	ReasonCanceledBeforeStart = "booking was canceled before its start date"
)

// Cache Keys
const (
	CacheCasePrefix = "case:"
	CacheUserPrefix = "user:"
)

// Resource names for audit records
const (
	ResourceCase     = "case"
	ResourceMessage  = "case_message"
	ResourceEvidence = "case_evidence"
	ResourceDecision = "case_decision"
)

// Evidence file types accepted for upload.
var (
	AllowedImageTypes    = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AllowedDocumentTypes = []string{"pdf", "doc", "docx", "txt"}
)
