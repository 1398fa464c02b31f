package schema

// Custom string types for type safety.
type (
	// AuthorizationStatus is the host-reported permission state for the contact directory.
	AuthorizationStatus string

	// ManagerState is the lifecycle state of the contact resolution cache.
	ManagerState string

	// OutputMode represents the format of the output.
	OutputMode string

	// ContactFormat represents the on-disk format of a contact export.
	ContactFormat string

	// BuildTrigger names the operation that started a cache build.
	BuildTrigger string

	// BuildOutcome summarizes how a cache build ended.
	BuildOutcome string

	// DatabaseBackend represents the database backend for persisted state.
	DatabaseBackend string
)

// All authorization statuses a host may report.
const (
	NotDetermined AuthorizationStatus = "not_determined" // default
	Denied        AuthorizationStatus = "denied"
	Restricted    AuthorizationStatus = "restricted"
	Authorized    AuthorizationStatus = "authorized"
	Limited       AuthorizationStatus = "limited"
)

// All manager states.
const (
	DisabledState   ManagerState = "disabled" // default
	EnablingState   ManagerState = "enabling"
	EnabledState    ManagerState = "enabled"
	RefreshingState ManagerState = "refreshing"
	ErrorState      ManagerState = "error"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All contact export formats supported.
const (
	CSVContacts     ContactFormat = "csv"
	JSONContacts    ContactFormat = "json"
	ParquetContacts ContactFormat = "parquet"
)

// Build triggers.
const (
	EnableTrigger  BuildTrigger = "enable"
	RefreshTrigger BuildTrigger = "refresh"
	LaunchTrigger  BuildTrigger = "launch"
)

// Build outcomes.
const (
	BuildPublished BuildOutcome = "published"
	BuildDiscarded BuildOutcome = "discarded"
	BuildDenied    BuildOutcome = "denied"
	BuildFailed    BuildOutcome = "failed"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	NoneBackend       DatabaseBackend = "none"
)

// ValidAuthorizationStatuses lists all valid authorization statuses.
var ValidAuthorizationStatuses = map[AuthorizationStatus]struct{}{
	NotDetermined: {},
	Denied:        {},
	Restricted:    {},
	Authorized:    {},
	Limited:       {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidContactFormats lists all valid contact export formats.
var ValidContactFormats = map[ContactFormat]struct{}{
	CSVContacts:     {},
	JSONContacts:    {},
	ParquetContacts: {},
}

// ValidPreferenceBackends lists all backends that can hold the preference flag.
var ValidPreferenceBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidHistoryBackends lists all backends that can hold build history.
var ValidHistoryBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Granted reports whether the status allows reading the directory.
// Limited access is treated the same as full access.
func (s AuthorizationStatus) Granted() bool {
	return s == Authorized || s == Limited
}

// Busy reports whether a build is running in this state.
func (s ManagerState) Busy() bool {
	return s == EnablingState || s == RefreshingState
}
