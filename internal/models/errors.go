package models

import "errors"

// Sentinel errors shared across repositories and services. Handlers map these
// to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("record not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
