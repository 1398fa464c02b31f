package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanDisplayName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Mother", "Mother"},
		{"  Jane \t Doe ", "Jane Doe"},
		{"Anne-Marie   Smith", "Anne-Marie Smith"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDisplayName(tt.name))
		})
	}
}

func TestParseAuthorizationStatus(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		cases := map[string]AuthorizationStatus{
			"authorized":     Authorized,
			"LIMITED":        Limited,
			" denied ":       Denied,
			"not-determined": NotDetermined,
			"restricted":     Restricted,
		}
		for in, want := range cases {
			got, err := ParseAuthorizationStatus(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := ParseAuthorizationStatus("maybe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid authorization status")
	})
}

func TestAuthorizationStatusGranted(t *testing.T) {
	assert.True(t, Authorized.Granted())
	assert.True(t, Limited.Granted())
	assert.False(t, Denied.Granted())
	assert.False(t, Restricted.Granted())
	assert.False(t, NotDetermined.Granted())
}

func TestManagerStateBusy(t *testing.T) {
	assert.True(t, EnablingState.Busy())
	assert.True(t, RefreshingState.Busy())
	assert.False(t, EnabledState.Busy())
	assert.False(t, DisabledState.Busy())
}

func TestContactRecordHasNumbers(t *testing.T) {
	assert.True(t, ContactRecord{Name: "a", Numbers: []string{"", "123"}}.HasNumbers())
	assert.False(t, ContactRecord{Name: "a", Numbers: []string{" ", ""}}.HasNumbers())
	assert.False(t, ContactRecord{Name: "a"}.HasNumbers())
}

func TestBuildRunDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	run := BuildRun{StartTime: start, EndTime: start.Add(1500 * time.Millisecond)}
	assert.Equal(t, 1500*time.Millisecond, run.Duration())
	assert.Zero(t, BuildRun{StartTime: start}.Duration())
}
