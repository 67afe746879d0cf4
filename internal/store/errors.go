package store

import "errors"

// Sentinel errors reported by store operations. All of them are
// recoverable; handlers map them to user-facing messages.
var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthenticated   = errors.New("user not authenticated")
	ErrItemNotFound       = errors.New("item not found")

	// ErrStorageUnavailable wraps failures of the underlying key-value
	// primitive (connectivity, serialization).
	ErrStorageUnavailable = errors.New("storage unavailable")
)
