package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
)

// Global store manager for main logic.
var (
	Stores    = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewPreferenceStore opens the key/value store for the configured backend.
func NewPreferenceStore(backend schema.DatabaseBackend, connStr string) (contract.KVStore, error) {
	if backend == schema.RedisBackend {
		store, err := NewRedisStore(connStr)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := NewKVStore(preferencesTable, backend, connStr)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// InitStores initializes the global store manager.
// prefBackend must be set; historyBackend may be empty to disable build history.
func InitStores(prefBackend schema.DatabaseBackend, prefConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		prefs, err := NewPreferenceStore(prefBackend, prefConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize preference store: %w", err)
			return
		}

		var history contract.HistoryStore
		if historyBackend != "" && historyBackend != schema.NoneBackend {
			history, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				_ = prefs.Close()
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		Stores.Lock()
		defer Stores.Unlock()
		Stores.prefs = prefs
		Stores.history = history
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Stores.Lock()
		defer Stores.Unlock()
		if Stores.prefs != nil {
			_ = Stores.prefs.Close()
		}
		if Stores.history != nil {
			_ = Stores.history.Close()
		}
	})
}

// ClearPreferences removes every stored preference for the backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For Redis, it deletes the prefixed keys.
func ClearPreferences(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(connStr, contract.GetPreferenceDBFilePath())
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return dropTable(backend, connStr, preferencesTable)
	case schema.RedisBackend:
		store, err := NewRedisStore(connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.Clear()
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported preference backend for clearing: %s", backend)
	}
}

// ClearHistory removes all build history for the backend.
func ClearHistory(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(connStr, contract.GetHistoryDBFilePath())
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if err := dropTable(backend, connStr, buildRunsTable); err != nil {
			return err
		}
		// The migration ledger goes with the table.
		return dropTable(backend, connStr, "schema_migrations")
	case schema.NoneBackend, "":
		return nil
	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// removeFile deletes a SQLite database file; a missing file is fine.
func removeFile(path, defaultPath string) error {
	if path == "" {
		path = defaultPath
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
	}
	return nil
}
