//go:build basic

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCacheLifecycle walks enable, lookup, refresh and disable against SQLite in a temp HOME.
func TestCacheLifecycle(t *testing.T) {
	home := t.TempDir()
	env := []string{
		"CALLERID_CONTACTS=" + writeContacts(t),
		"CALLERID_AUTHORIZATION=authorized",
		"CALLERID_HISTORY_BACKEND=sqlite",
	}

	out, err := runCallerID(t, home, env, "lookup", "--output", "csv", "123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "123456789,+420123456789,,false")

	out, err = runCallerID(t, home, env, "enable")
	require.NoError(t, err)
	assert.Contains(t, out, "State: ENABLED")

	// A new process restores the cache from the stored preference.
	out, err = runCallerID(t, home, env, "lookup", "--output", "csv", "0123456789", "00420222333444", "+420 222 333 445")
	require.NoError(t, err)
	assert.Contains(t, out, "0123456789,+420123456789,Mother,true")
	assert.Contains(t, out, "00420222333444,+420222333444,Office,true")
	assert.Contains(t, out, "+420 222 333 445,+420222333445,Office,true")

	out, err = runCallerID(t, home, env, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 3")

	out, err = runCallerID(t, home, env, "history", "list", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "refresh,published")
	assert.Contains(t, out, "enable,published")

	out, err = runCallerID(t, home, env, "disable")
	require.NoError(t, err)
	assert.Contains(t, out, "State: DISABLED")

	out, err = runCallerID(t, home, env, "lookup", "--output", "csv", "0123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "0123456789,+420123456789,,false")
}

// TestEnableDenied checks that a denied host leaves the cache off.
func TestEnableDenied(t *testing.T) {
	home := t.TempDir()
	env := []string{
		"CALLERID_CONTACTS=" + writeContacts(t),
		"CALLERID_AUTHORIZATION=denied",
	}

	_, err := runCallerID(t, home, env, "enable")
	require.Error(t, err)

	out, err := runCallerID(t, home, env, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: DISABLED")
	assert.Contains(t, out, "Authorization: denied")
}

// TestVersion checks the version command runs without config.
func TestVersion(t *testing.T) {
	out, err := runCallerID(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "callerid CLI")
}
