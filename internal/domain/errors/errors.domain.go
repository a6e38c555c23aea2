package errors

import "errors"

// Standard sentinel errors. The transport layer maps these to HTTP status
// codes in one place (internal/api/error_mapper.go) so that internals are
// never leaked to clients.

var (
	// Authentication / session errors
	ErrNoSession       = errors.New("no active session")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileInactive = errors.New("profile is deactivated")
	ErrProviderTimeout = errors.New("auth provider timed out")

	// Lifecycle errors
	ErrLoadNotFound      = errors.New("load not found")
	ErrUnknownAction     = errors.New("unknown lifecycle action")
	ErrInvalidTransition = errors.New("action not valid for current status")
	ErrUnauthorized      = errors.New("role not permitted for this action")
	ErrStaleStatus       = errors.New("load status changed since it was read")
	ErrTerminalStatus    = errors.New("load is closed; no further transitions")

	// Record errors
	ErrDuplicateLoadNumber = errors.New("load number already exists")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrRecordNotFound      = errors.New("record not found")

	// System / validation errors
	ErrInvalidInput        = errors.New("invalid input arguments")
	ErrInternalServerError = errors.New("internal server error")
)
