package validators

import (
	"strings"

	"gorent/internal/models"
	"gorent/internal/utils"
)

type OpenCaseValidation struct {
	BookingID string `json:"booking_id" validate:"required,object_id"`
	Category  string `json:"category" validate:"required,case_category"`
	Summary   string `json:"summary" validate:"required,non_blank,max=2000"`
}

type AddMessageValidation struct {
	Body string `json:"body" validate:"required,non_blank,max=4000"`
}

type AddEvidenceValidation struct {
	Files []FileValidation `json:"files" validate:"required,min=1,max=10,dive"`
}

type FileValidation struct {
	FileName    string `json:"file_name" validate:"required,non_blank,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

type DecideValidation struct {
	Value string `json:"value" validate:"required,resolution_value"`
	Notes string `json:"notes" validate:"required,max=4000"`
}

type OverrideValidation struct {
	Value string `json:"value" validate:"required,override_value"`
	Notes string `json:"notes" validate:"required,max=4000"`
}

func ValidateOpenCase(req *models.OpenCaseRequest) ValidationErrors {
	return ValidateStruct(&OpenCaseValidation{
		BookingID: req.BookingID,
		Category:  string(req.Category),
		Summary:   req.Summary,
	})
}

func ValidateAddMessage(req *models.AddMessageRequest) ValidationErrors {
	return ValidateStruct(&AddMessageValidation{Body: req.Body})
}

func ValidateAddEvidence(req *models.AddEvidenceRequest) ValidationErrors {
	files := make([]FileValidation, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, FileValidation{
			FileName:    f.FileName,
			ContentType: f.ContentType,
		})
	}

	errors := ValidateStruct(&AddEvidenceValidation{Files: files})

	for _, f := range req.Files {
		if strings.Contains(f.FileName, "/") || strings.Contains(f.FileName, "..") {
			errors = append(errors, ValidationError{
				Field:   "file_name",
				Tag:     "file_name",
				Value:   f.FileName,
				Message: "File name must not contain path separators",
			})
			continue
		}
		if !allowedEvidenceExtension(f.FileName) {
			errors = append(errors, ValidationError{
				Field:   "file_name",
				Tag:     "file_type",
				Value:   f.FileName,
				Message: "File type is not accepted as evidence",
			})
		}
	}

	if len(req.Files) > utils.MaxEvidencePerCall {
		errors = append(errors, ValidationError{
			Field:   "files",
			Tag:     "max",
			Message: "Too many evidence files in one request",
		})
	}

	return errors
}

func allowedEvidenceExtension(fileName string) bool {
	dot := strings.LastIndex(fileName, ".")
	if dot < 0 || dot == len(fileName)-1 {
		return false
	}
	ext := strings.ToLower(fileName[dot+1:])
	for _, allowed := range utils.AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	for _, allowed := range utils.AllowedDocumentTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func ValidateDecide(req *models.DecideRequest) ValidationErrors {
	return ValidateStruct(&DecideValidation{
		Value: string(req.Value),
		Notes: req.Notes,
	})
}

func ValidateOverride(req *models.OverrideRequest) ValidationErrors {
	return ValidateStruct(&OverrideValidation{
		Value: string(req.Value),
		Notes: req.Notes,
	})
}
