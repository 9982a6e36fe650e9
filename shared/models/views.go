package models

import "time"

// UserView is the external representation of a user.
// Age is derived from BirthDate at read time and never stored.
type UserView struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Gender          Gender    `json:"gender"`
	BirthDate       Date      `json:"birthDate"`
	AccountCreation time.Time `json:"accountCreation"`
	Age             int       `json:"age"`
}

// NewUserView projects u as seen on the given day.
func NewUserView(u *User, today Date) *UserView {
	return &UserView{
		ID:              u.ID,
		Username:        u.Username,
		Gender:          u.Gender,
		BirthDate:       u.BirthDate,
		AccountCreation: u.AccountCreation,
		Age:             u.BirthDate.YearsUntil(today),
	}
}
