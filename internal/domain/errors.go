package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// Auth lifecycle.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Device-account binding.
	ErrDeviceLimitExceeded = errors.New("device limit exceeded")

	// Storage layer. ErrConflict signals a lost update detected by the
	// conditional write; callers retry it internally and never surface it.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTimeout            = errors.New("timeout")
	ErrConflict           = errors.New("conflict")

	// Generic CRUD.
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)
