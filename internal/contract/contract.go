// Package contract provides interfaces and shared utilities for callerid's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/callerid/schema"
)

// PermissionGate reports and requests access to the host contact directory.
type PermissionGate interface {
	// CurrentStatus returns the host-reported status without prompting.
	CurrentStatus() schema.AuthorizationStatus

	// RequestAccess may block awaiting a user decision. It returns true only when
	// the resulting status is authorized or limited, and never returns an error:
	// failures are reported as false with a denied or restricted status.
	RequestAccess(ctx context.Context) bool
}

// ContactSource enumerates raw contact records from the directory.
// Enumerate fails with ErrAccess when authorization has not been granted.
type ContactSource interface {
	Enumerate(ctx context.Context) ([]schema.ContactRecord, error)
}

// PreferenceStore persists the user's intent to keep the cache enabled.
type PreferenceStore interface {
	Load() (bool, error)
	Save(enabled bool) error
}

// StoreManager defines the interface for managing persisted stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetPreferenceStore() KVStore
	GetHistoryStore() HistoryStore
}

// KVStore defines the interface for versioned key/value storage.
// This allows mocking the store for testing.
type KVStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.PreferenceStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording cache build attempts.
type HistoryStore interface {
	// RecordBuild stores one finished build attempt.
	RecordBuild(run schema.BuildRun) error

	// ListBuilds returns the most recent builds first, up to limit (0 means all).
	ListBuilds(limit int) ([]schema.BuildRun, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// ContactResolver is the caller-facing surface of the resolution cache.
type ContactResolver interface {
	Lookup(number string) (string, bool)
	Resolve(numbers []string) []schema.LookupResult
	Status() schema.ManagerStatus
	Enable(ctx context.Context) error
	Refresh(ctx context.Context) error
	Disable(ctx context.Context) error
}
