package iocache

import (
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/callerid/internal/contract"
)

// EnabledKey is the KVStore key holding the cache preference.
const EnabledKey = "contact_cache_enabled"

// flagVersion is the value layout version written with the flag.
const flagVersion = 1

// PreferenceFlag stores the cache preference as a single key in a KVStore.
// A missing key reads as false.
type PreferenceFlag struct {
	store contract.KVStore
	now   func() time.Time
}

var _ contract.PreferenceStore = &PreferenceFlag{} // Compile-time check

// NewPreferenceFlag returns a PreferenceStore backed by store.
func NewPreferenceFlag(store contract.KVStore) *PreferenceFlag {
	return &PreferenceFlag{store: store, now: time.Now}
}

// Load implements the PreferenceStore interface.
func (p *PreferenceFlag) Load() (bool, error) {
	value, version, _, err := p.store.Get(EnabledKey)
	if errors.Is(err, contract.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if version != flagVersion {
		return false, fmt.Errorf("unsupported preference version %d", version)
	}
	return contract.ParseBoolString(string(value))
}

// Save implements the PreferenceStore interface.
func (p *PreferenceFlag) Save(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return p.store.Set(EnabledKey, []byte(value), flagVersion, p.now().Unix())
}
