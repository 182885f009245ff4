package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// fieldMessages maps a failed binding rule (Field.tag) to the message shown to the user
var fieldMessages = map[string]string{
	"Email.required":           "Email and password are required.",
	"Password.required":        "Email and password are required.",
	"Email.email":              "Please enter a valid email address.",
	"Password.min":             "Password must be at least 6 characters long.",
	"ConfirmPassword.required": "Passwords do not match.",
	"ConfirmPassword.eqfield":  "Passwords do not match.",
	"Niche.required":           "Please enter a niche or industry.",
}

// bindErrorMessage returns a user-facing message for the first failed rule in err
func bindErrorMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}

	if msg, ok := fieldMessages[verrs[0].Field()+"."+verrs[0].Tag()]; ok {
		return msg
	}
	return fallback
}
