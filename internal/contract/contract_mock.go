package contract

import (
	"context"

	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/mock"
)

// MockPermissionGate is a mock implementation of PermissionGate for testing.
type MockPermissionGate struct {
	mock.Mock
}

var _ PermissionGate = &MockPermissionGate{} // Compile-time check

// CurrentStatus implements the PermissionGate interface.
func (m *MockPermissionGate) CurrentStatus() schema.AuthorizationStatus {
	args := m.Called()
	return args.Get(0).(schema.AuthorizationStatus)
}

// RequestAccess implements the PermissionGate interface.
func (m *MockPermissionGate) RequestAccess(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// MockContactSource is a mock implementation of ContactSource for testing.
type MockContactSource struct {
	mock.Mock
}

var _ ContactSource = &MockContactSource{} // Compile-time check

// Enumerate implements the ContactSource interface.
func (m *MockContactSource) Enumerate(ctx context.Context) ([]schema.ContactRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ContactRecord)
	return records, args.Error(1)
}

// MockPreferenceStore is a mock implementation of PreferenceStore for testing.
type MockPreferenceStore struct {
	mock.Mock
}

var _ PreferenceStore = &MockPreferenceStore{} // Compile-time check

// Load implements the PreferenceStore interface.
func (m *MockPreferenceStore) Load() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// Save implements the PreferenceStore interface.
func (m *MockPreferenceStore) Save(enabled bool) error {
	args := m.Called(enabled)
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordBuild implements the HistoryStore interface.
func (m *MockHistoryStore) RecordBuild(run schema.BuildRun) error {
	args := m.Called(run)
	return args.Error(0)
}

// ListBuilds implements the HistoryStore interface.
func (m *MockHistoryStore) ListBuilds(limit int) ([]schema.BuildRun, error) {
	args := m.Called(limit)
	runs, _ := args.Get(0).([]schema.BuildRun)
	return runs, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockKVStore is a mock implementation of KVStore for testing.
type MockKVStore struct {
	mock.Mock
}

var _ KVStore = &MockKVStore{} // Compile-time check

// Get implements the KVStore interface.
func (m *MockKVStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the KVStore interface.
func (m *MockKVStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// Delete implements the KVStore interface.
func (m *MockKVStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// GetStatus implements the KVStore interface.
func (m *MockKVStore) GetStatus() (schema.PreferenceStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.PreferenceStatus), args.Error(1)
}

// Close implements the KVStore interface.
func (m *MockKVStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockContactResolver is a mock implementation of ContactResolver for testing.
type MockContactResolver struct {
	mock.Mock
}

var _ ContactResolver = &MockContactResolver{} // Compile-time check

// Lookup implements the ContactResolver interface.
func (m *MockContactResolver) Lookup(number string) (string, bool) {
	args := m.Called(number)
	return args.String(0), args.Bool(1)
}

// Resolve implements the ContactResolver interface.
func (m *MockContactResolver) Resolve(numbers []string) []schema.LookupResult {
	args := m.Called(numbers)
	results, _ := args.Get(0).([]schema.LookupResult)
	return results
}

// Status implements the ContactResolver interface.
func (m *MockContactResolver) Status() schema.ManagerStatus {
	args := m.Called()
	return args.Get(0).(schema.ManagerStatus)
}

// Enable implements the ContactResolver interface.
func (m *MockContactResolver) Enable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Refresh implements the ContactResolver interface.
func (m *MockContactResolver) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Disable implements the ContactResolver interface.
func (m *MockContactResolver) Disable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
