package service

import "errors"

var (
	// ErrValidation marks missing or malformed input; handlers map it to 400.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown id; handlers map it to 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login failures do not leak which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
