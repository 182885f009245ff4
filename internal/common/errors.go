package common

import "errors"

var (

	// repository specific errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")

	// generation pipeline errors
	ErrConfigurationDegraded = errors.New("configuration degraded")
	ErrExternalCall          = errors.New("external call failed")
	ErrValidation            = errors.New("validation failed")
	ErrPersistence           = errors.New("persistence failed")
)
