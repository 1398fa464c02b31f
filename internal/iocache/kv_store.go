package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
)

// preferencesTable holds every key/value pair of the preference store.
const preferencesTable = "callerid_preferences"

// KVStoreImpl stores versioned key/value pairs in a SQL database.
type KVStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.KVStore = &KVStoreImpl{} // Compile-time check

// NewKVStore opens the table on the given backend, creating it if needed.
// The none backend returns a store that keeps nothing.
func NewKVStore(tableName string, backend schema.DatabaseBackend, connStr string) (*KVStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &KVStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetPreferenceDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateKVTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &KVStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateKVTableQuery returns the CREATE TABLE query for the given backend.
func getCreateKVTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pref_key VARCHAR(255) PRIMARY KEY,
				pref_value BLOB NOT NULL,
				pref_version INT NOT NULL,
				pref_timestamp BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pref_key TEXT PRIMARY KEY,
				pref_value BYTEA NOT NULL,
				pref_version INTEGER NOT NULL,
				pref_timestamp BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				pref_key TEXT PRIMARY KEY,
				pref_value BLOB NOT NULL,
				pref_version INTEGER NOT NULL,
				pref_timestamp INTEGER NOT NULL
			);
		`, quoted)
	}
}

func (s *KVStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// Get retrieves a value by key. A missing key yields contract.ErrNotFound.
func (s *KVStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if s.disabled() {
		return nil, 0, 0, contract.ErrNotFound
	}

	var (
		value   []byte
		version int
		ts      int64
	)
	query := fmt.Sprintf(`SELECT pref_value, pref_version, pref_timestamp FROM %s WHERE pref_key = %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))
	err := s.db.QueryRow(query, key).Scan(&value, &version, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, 0, fmt.Errorf("%w: %s", contract.ErrNotFound, key)
	}
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (s *KVStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if s.disabled() {
		return nil
	}
	_, err := s.db.Exec(s.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStoreImpl) Delete(key string) error {
	if s.disabled() {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE pref_key = %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))
	_, err := s.db.Exec(query, key)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *KVStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (pref_key, pref_value, pref_version, pref_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE pref_value = new.pref_value, pref_version = new.pref_version, pref_timestamp = new.pref_timestamp`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (pref_key, pref_value, pref_version, pref_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (pref_key) DO UPDATE SET pref_value = EXCLUDED.pref_value, pref_version = EXCLUDED.pref_version, pref_timestamp = EXCLUDED.pref_timestamp`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (pref_key, pref_value, pref_version, pref_timestamp) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Close closes the underlying DB connection.
func (s *KVStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the store.
func (s *KVStoreImpl) GetStatus() (schema.PreferenceStatus, error) {
	status := schema.PreferenceStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.disabled() {
		return status, nil
	}

	quoted := quoteTableName(s.tableName, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row := s.db.QueryRow(fmt.Sprintf("SELECT MAX(pref_timestamp), MIN(pref_timestamp) FROM %s", quoted))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.TableSizeBytes = s.tableSize(status.TotalEntries)

	return status, nil
}

// tableSize asks the backend for the table footprint and falls back to a
// rough per-row estimate.
func (s *KVStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 100
	var size int64
	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := s.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, s.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.tableName).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}
