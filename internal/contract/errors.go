package contract

import "errors"

// Error kinds surfaced by the resolution cache.
var (
	// ErrPermissionDenied means directory access was not granted or was revoked.
	ErrPermissionDenied = errors.New("contact access not granted")

	// ErrEnumeration means reading the directory failed part way.
	ErrEnumeration = errors.New("contact enumeration failed")

	// ErrNoOp means the operation was requested while already in the target state.
	ErrNoOp = errors.New("already in requested state")

	// ErrAccess is returned by a contact source called without authorization.
	ErrAccess = errors.New("contact source requires authorization")
)

// ErrNotFound is returned by a KVStore when the key has no value.
var ErrNotFound = errors.New("key not found")
