package outwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var buildRuns = []schema.BuildRun{
	{
		RunID: "0b6f9a4e-8c1d-4f0a-9d3e-1c2b3a4d5e6f", Trigger: schema.RefreshTrigger, Outcome: schema.BuildFailed,
		StartTime: buildStart.Add(time.Minute), EndTime: buildStart.Add(time.Minute + 40*time.Millisecond),
		Error: "contact enumeration failed: the address book export is missing from disk",
	},
	{
		RunID: "7d2c", Trigger: schema.EnableTrigger, Outcome: schema.BuildPublished,
		StartTime: buildStart, EndTime: buildStart.Add(1500 * time.Millisecond),
		Contacts: 2, Entries: 3, Conflicts: 1,
	},
}

func TestWriteBuildRunsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBuildRunsTable(&buf, buildRuns, false))

	out := buf.String()
	assert.Contains(t, out, "0b6f9...")
	assert.NotContains(t, out, "1c2b3a4d5e6f")
	assert.Contains(t, out, "published")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "contact")
	assert.NotContains(t, out, "missing from disk")
	assert.True(t, strings.HasSuffix(out, "Showing 2 build runs\n"))
}

func TestWriteBuildRunsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBuildRunsCSV(&buf, buildRuns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "run_id,trigger,outcome,start_time,end_time,duration_ms,contacts,entries,conflicts,error", lines[0])
	assert.Equal(t, "7d2c,enable,published,2026-03-01T09:00:00Z,2026-03-01T09:00:01.5Z,1500,2,3,1,", lines[2])
}

func TestWriteBuildRuns_CSVFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, NewOutWriter().WriteBuilds(buildRuns, &contract.Config{Output: schema.CSVOut, OutputFile: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "contact enumeration failed")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		n        int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 2, "ab"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, truncate(tt.in, tt.n), tt.in)
	}
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "denied", outcomeLabel(schema.BuildDenied, false))
	assert.Contains(t, outcomeLabel(schema.BuildDenied, true), "denied")
}
