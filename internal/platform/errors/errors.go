package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
)
