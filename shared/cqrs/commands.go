package cqrs

import "github.com/eaglebank/user-accounts/shared/models"

// CreateUserCommand carries a structurally valid create request.
// Gender is still the raw name; the command service parses it.
type CreateUserCommand struct {
	Username  string
	Gender    string
	BirthDate models.Date
}

// UpdateUserCommand applies only the non-nil fields.
type UpdateUserCommand struct {
	UserID    int64
	Gender    *string
	BirthDate *models.Date
}

type DeleteUserCommand struct {
	UserID int64
}
