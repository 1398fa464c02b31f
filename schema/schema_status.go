package schema

import "time"

// PreferenceStatus represents the status of the preference store.
type PreferenceStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the build history store.
type HistoryStatus struct {
	Backend       string                 `json:"backend"`
	Connected     bool                   `json:"connected"`
	TotalRuns     int                    `json:"total_runs"`
	LastRunID     string                 `json:"last_run_id"`
	LastRunTime   time.Time              `json:"last_run_time"`
	OldestRunTime time.Time              `json:"oldest_run_time"`
	Outcomes      map[BuildOutcome]int64 `json:"outcomes"`
}
