// Package iocache persists callerid's durable state: the cache preference,
// the directory authorization decision and build history.
package iocache

import (
	"sync"

	"github.com/huangsam/callerid/internal/contract"
)

// StoreManager holds the preference and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	prefs        contract.KVStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetPreferenceStore returns the key/value store for preferences.
func (mgr *StoreManager) GetPreferenceStore() contract.KVStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.prefs
}

// GetHistoryStore returns the build history store. It is nil when history is not configured.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
