package services

import "errors"

// Sentinel errors returned by the store services. Handlers map these to
// user-facing responses; anything else is treated as an infrastructure
// failure and logged with detail.
var (
	// ErrNotFound means no matching row exists.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized means the row exists but the acting user is not
	// allowed to touch it. Distinct from ErrNotFound so callers can tell
	// "no such project" from "exists but you don't own it".
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidCredentials means the email/password pair did not check out.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation means the input was malformed (for example a bad date).
	ErrValidation = errors.New("validation failure")
)
