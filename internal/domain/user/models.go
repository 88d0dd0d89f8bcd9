package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	PinHash      *string   `json:"-"`
	HideValues   bool      `json:"hideValues"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPin reports whether the privacy PIN has been configured.
func (u *User) HasPin() bool {
	return u.PinHash != nil
}

type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}

func (p CreateParams) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}

// UpdateParams contains the mutable profile fields. Nil leaves a field
// unchanged.
type UpdateParams struct {
	Name       *string
	PinHash    *string
	HideValues *bool
}
