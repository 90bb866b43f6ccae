package model

import "errors"

// Common errors used across the application
var (
	// Credential errors
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidIdentity    = errors.New("identity is missing or too long")
	ErrInvalidDisplayName = errors.New("display name is too long")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with one uppercase, one lowercase, one number, and one special character (@$!%*?&)")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredential  = errors.New("invalid identity or password")

	// Reset token errors
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrDeliveryFailed        = errors.New("failed to deliver reset link")

	// Session errors
	ErrInvalidSession = errors.New("invalid or expired session")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageBusy        = errors.New("storage busy")
)
