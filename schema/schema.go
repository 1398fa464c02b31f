// Package schema holds the data types shared across callerid packages.
package schema

import "time"

// ContactRecord is a single directory entry as produced by a contact source.
// Records are transient and consumed during a build.
type ContactRecord struct {
	Name    string   `json:"name"`
	Numbers []string `json:"numbers"`
}

// ManagerStatus is the observable state of the resolution cache.
// A fresh value is emitted to subscribers on every transition.
type ManagerStatus struct {
	State         ManagerState        `json:"state"`
	Enabled       bool                `json:"enabled"`
	Authorization AuthorizationStatus `json:"authorization"`
	Loading       bool                `json:"loading"`
	Entries       int                 `json:"entries"`
	LastError     string              `json:"last_error,omitempty"`
	LastBuild     time.Time           `json:"last_build"`
}

// LookupResult pairs a queried number with its resolved name.
type LookupResult struct {
	Number string `json:"number"`
	Key    string `json:"key"`
	Name   string `json:"name,omitempty"`
	Found  bool   `json:"found"`
}

// BuildRun describes one build attempt. It never carries names or numbers.
type BuildRun struct {
	RunID     string       `json:"run_id"`
	Trigger   BuildTrigger `json:"trigger"`
	Outcome   BuildOutcome `json:"outcome"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time"`
	Contacts  int          `json:"contacts"`
	Entries   int          `json:"entries"`
	Conflicts int          `json:"conflicts"`
	Error     string       `json:"error,omitempty"`
}

// Duration returns how long the build took.
func (r BuildRun) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
