package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorent/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("case_category", validateCaseCategory)
	validate.RegisterValidation("resolution_value", validateResolutionValue)
	validate.RegisterValidation("override_value", validateOverrideValue)
	validate.RegisterValidation("non_blank", validateNonBlank)
}

// Common validation errors
var (
	ErrInvalidObjectID     = errors.New("invalid object ID format")
	ErrInvalidPhoneNumber  = errors.New("invalid phone number format")
	ErrInvalidCaseCategory = errors.New("invalid case category")
	ErrInvalidDecision     = errors.New("invalid decision value")
	ErrBlankField          = errors.New("field must not be blank")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationError := ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			}
			validationErrors = append(validationErrors, validationError)
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "phone_number":
		return "Invalid phone number format"
	case "case_category":
		return "Invalid case category"
	case "resolution_value":
		return "Invalid decision value"
	case "override_value":
		return "Invalid override value"
	case "non_blank":
		return fmt.Sprintf("%s must not be blank", err.Field())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}

	// E.164 format validation
	phoneRegex := regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	return phoneRegex.MatchString(phone)
}

func validateCaseCategory(fl validator.FieldLevel) bool {
	category := models.CaseCategory(fl.Field().String())
	switch category {
	case models.CaseCategoryDamage, models.CaseCategoryNoShow, models.CaseCategoryBilling,
		models.CaseCategoryLateReturn, models.CaseCategoryCleanliness, models.CaseCategoryMisconduct,
		models.CaseCategoryCancellation, models.CaseCategoryOther:
		return true
	}
	return false
}

func validateResolutionValue(fl validator.FieldLevel) bool {
	value := models.ResolutionValue(fl.Field().String())
	switch value {
	case models.ResolutionNoAction, models.ResolutionPartialRefund, models.ResolutionFullRefund,
		models.ResolutionFeeWaived, models.ResolutionEscalateToCoverage, models.ResolutionClose:
		return true
	}
	return false
}

func validateOverrideValue(fl validator.FieldLevel) bool {
	value := models.OverrideValue(fl.Field().String())
	switch value {
	case models.OverrideReverse, models.OverrideFlag, models.OverrideLock, models.OverrideClose:
		return true
	}
	return false
}

func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Helper functions for common validations
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func SanitizeInput(input string) string {
	// Remove HTML tags and trim whitespace
	htmlRegex := regexp.MustCompile(`<[^>]*>`)
	cleaned := htmlRegex.ReplaceAllString(input, "")
	return strings.TrimSpace(cleaned)
}
