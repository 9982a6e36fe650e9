package middleware

import (
	"strings"

	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a single structural violation on a request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidateRequired reports value as missing when it is empty or blank.
func ValidateRequired(field, value, message string) []ValidationError {
	if err := validate.Var(strings.TrimSpace(value), "required"); err != nil {
		return []ValidationError{{Field: field, Message: message, Type: "required"}}
	}
	return nil
}

// ValidateUsername checks presence and the letters-or-digits format.
// A missing username yields only the "required" violation.
func ValidateUsername(field, username string) []ValidationError {
	if errs := ValidateRequired(field, username, "Username is required"); errs != nil {
		return errs
	}
	if err := validate.Var(username, "alphanum"); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: "Username must contain only letters or numbers",
			Type:    "alphanum",
		}}
	}
	return nil
}

// ValidatePastDate requires date to be a calendar day strictly before today.
// A nil date is not checked.
func ValidatePastDate(field string, date *models.Date, today models.Date) []ValidationError {
	if date == nil {
		return nil
	}
	if !date.Before(today) {
		return []ValidationError{{Field: field, Message: "Birth date must be in the past", Type: "past"}}
	}
	return nil
}

// JoinValidationErrors renders violations as one message, separated by ", ".
func JoinValidationErrors(validationErrors []ValidationError) string {
	messages := make([]string, 0, len(validationErrors))
	for _, ve := range validationErrors {
		messages = append(messages, ve.Message)
	}
	return strings.Join(messages, ", ")
}

// ValidateRequiredDate reports a nil date as missing.
func ValidateRequiredDate(field string, date *models.Date, message string) []ValidationError {
	if date == nil {
		return []ValidationError{{Field: field, Message: message, Type: "required"}}
	}
	return nil
}
