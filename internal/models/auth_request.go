package models

import (
	"encoding/json"
	"strings"
)

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Email           Email  `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Email    Email  `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Email is trimmed and lowercased while binding, so validation rules see the normalised address.
type Email string

// UnmarshalParam implements gin's binding.BindUnmarshaler for form and query values.
func (e *Email) UnmarshalParam(param string) error {
	*e = Email(normalizeEmail(param))
	return nil
}

func (e *Email) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = Email(normalizeEmail(s))
	return nil
}

func (e Email) String() string {
	return string(e)
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
