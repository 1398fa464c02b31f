package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
)

// buildRunsTable records one row per cache build attempt.
const buildRunsTable = "callerid_build_runs"

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openSQL(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(getCreateBuildRunsQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", buildRunsTable, err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// getCreateBuildRunsQuery returns the CREATE TABLE query for callerid_build_runs.
// It matches the first embedded migration for each backend.
func getCreateBuildRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(buildRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				trigger_name VARCHAR(16) NOT NULL,
				outcome VARCHAR(16) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6) NOT NULL,
				duration_ms BIGINT NOT NULL,
				contacts INT NOT NULL,
				entries INT NOT NULL,
				conflicts INT NOT NULL,
				error_message TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				trigger_name TEXT NOT NULL,
				outcome TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ NOT NULL,
				duration_ms BIGINT NOT NULL,
				contacts INT NOT NULL,
				entries INT NOT NULL,
				conflicts INT NOT NULL,
				error_message TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				trigger_name TEXT NOT NULL,
				outcome TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				duration_ms INTEGER NOT NULL,
				contacts INTEGER NOT NULL,
				entries INTEGER NOT NULL,
				conflicts INTEGER NOT NULL,
				error_message TEXT
			);
		`, quoted)
	}
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// RecordBuild stores one finished build attempt.
func (hs *HistoryStoreImpl) RecordBuild(run schema.BuildRun) error {
	if hs.disabled() {
		return nil
	}

	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}
	query := fmt.Sprintf(`INSERT INTO %s (run_id, trigger_name, outcome, start_time, end_time, duration_ms,
		contacts, entries, conflicts, error_message) VALUES (%s)`,
		quoteTableName(buildRunsTable, hs.backend), placeholders(hs.backend, 10))
	_, err := hs.db.Exec(query,
		run.RunID, string(run.Trigger), string(run.Outcome),
		formatTime(run.StartTime, hs.backend), formatTime(run.EndTime, hs.backend),
		run.Duration().Milliseconds(), run.Contacts, run.Entries, run.Conflicts, errMsg)
	if err != nil {
		return fmt.Errorf("failed to insert build run: %w", err)
	}
	return nil
}

// ListBuilds returns the most recent builds first, up to limit (0 means all).
func (hs *HistoryStoreImpl) ListBuilds(limit int) ([]schema.BuildRun, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, trigger_name, outcome, start_time, end_time, contacts, entries, conflicts, error_message
		FROM %s ORDER BY start_time DESC, run_id`, quoteTableName(buildRunsTable, hs.backend))
	var args []any
	if limit > 0 {
		query += " LIMIT " + placeholder(hs.backend, 1)
		args = append(args, limit)
	}

	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query build runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.BuildRun
	for rows.Next() {
		var (
			run              schema.BuildRun
			trigger, outcome string
			errMsg           sql.NullString
			start, end       timeScanner
		)
		start.backend, end.backend = hs.backend, hs.backend
		if err := rows.Scan(&run.RunID, &trigger, &outcome, &start, &end,
			&run.Contacts, &run.Entries, &run.Conflicts, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan build run: %w", err)
		}
		run.Trigger = schema.BuildTrigger(trigger)
		run.Outcome = schema.BuildOutcome(outcome)
		run.StartTime, run.EndTime = start.t, end.t
		run.Error = errMsg.String
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build runs: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
		Outcomes:  make(map[schema.BuildOutcome]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	quoted := quoteTableName(buildRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	last := timeScanner{backend: hs.backend}
	row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quoted))
	if err := row.Scan(&status.LastRunID, &last); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	status.LastRunTime = last.t

	oldest := timeScanner{backend: hs.backend}
	row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quoted))
	if err := row.Scan(&oldest); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = oldest.t

	rows, err := hs.db.Query(fmt.Sprintf("SELECT outcome, COUNT(*) FROM %s GROUP BY outcome", quoted))
	if err != nil {
		return status, fmt.Errorf("failed to count outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			outcome string
			count   int64
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return status, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		status.Outcomes[schema.BuildOutcome(outcome)] = count
	}
	return status, rows.Err()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// sqliteTimeLayout is fixed width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// mysqlTimeLayout is how DATETIME(6) arrives when the DSN lacks parseTime=true.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t
}

// timeScanner reads a timestamp stored as RFC3339 text in SQLite and as a
// native datetime elsewhere.
type timeScanner struct {
	backend schema.DatabaseBackend
	t       time.Time
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.t = v
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.t = time.Time{}
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
	return nil
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil && ts.backend == schema.MySQLBackend {
		t, err = time.ParseInLocation(mysqlTimeLayout, s, time.UTC)
	}
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	ts.t = t
	return nil
}
