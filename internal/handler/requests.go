package handler

import (
	"github.com/eaglebank/user-accounts/shared/middleware"
	"github.com/eaglebank/user-accounts/shared/models"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username  string              `json:"username"`
	Gender    string              `json:"gender"`
	BirthDate models.OptionalDate `json:"birthDate"`
}

// UpdateUserRequest is the body of PATCH /users/:userId.
// Absent fields are left unchanged; a null or empty birthDate counts as absent.
type UpdateUserRequest struct {
	Gender    *string             `json:"gender"`
	BirthDate models.OptionalDate `json:"birthDate"`
}

// Validate returns the structural violations in field order.
// Whether the gender names a known value is decided by the command service.
func (r CreateUserRequest) Validate(today models.Date) []middleware.ValidationError {
	var errs []middleware.ValidationError
	errs = append(errs, middleware.ValidateUsername("username", r.Username)...)
	errs = append(errs, middleware.ValidateRequired("gender", r.Gender, "Gender is required")...)
	birthDate := r.BirthDate.Ptr()
	if missing := middleware.ValidateRequiredDate("birthDate", birthDate, "Birth date is required"); missing != nil {
		errs = append(errs, missing...)
	} else {
		errs = append(errs, middleware.ValidatePastDate("birthDate", birthDate, today)...)
	}
	return errs
}

func (r UpdateUserRequest) Validate(today models.Date) []middleware.ValidationError {
	return middleware.ValidatePastDate("birthDate", r.BirthDate.Ptr(), today)
}
