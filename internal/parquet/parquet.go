// Package parquet reads contact exports from and writes build history to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/callerid/schema"
	"github.com/parquet-go/parquet-go"
)

// ContactRow is one directory entry in a contact export.
type ContactRow struct {
	// Name is the display name of the contact
	Name string `parquet:"name,snappy"`

	// Numbers holds every raw phone number of the contact, as entered
	Numbers []string `parquet:"numbers,list"`
}

// BuildRunRow is one cache build attempt. It maps to the callerid_build_runs table.
type BuildRunRow struct {
	// RunID is the unique identifier of the build
	RunID string `parquet:"run_id,snappy"`

	// Trigger names the operation that started the build
	Trigger string `parquet:"trigger,dict"`

	// Outcome is published, discarded, denied or failed
	Outcome string `parquet:"outcome,dict"`

	// StartTime is when the build began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the build committed
	EndTime time.Time `parquet:"end_time,snappy"`

	// DurationMs is the wall time of the build in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`

	// Contacts is the number of named records seen
	Contacts int32 `parquet:"contacts,snappy"`

	// Entries is the number of distinct normalized keys built
	Entries int32 `parquet:"entries,snappy"`

	// Conflicts is the number of keys claimed by more than one name
	Conflicts int32 `parquet:"conflicts,snappy"`

	// Error is the failure message (nullable)
	Error *string `parquet:"error,optional,snappy"`
}

// WriteContactsParquet writes contact rows to a Parquet file.
func WriteContactsParquet(data []ContactRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteBuildRunsParquet writes build history rows to a Parquet file.
func WriteBuildRunsParquet(data []BuildRunRow, outputPath string) error {
	return writeFile(data, outputPath)
}

func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

// ReadContactsParquet reads every contact row from a Parquet file.
func ReadContactsParquet(inputPath string) ([]ContactRow, error) {
	return readFile[ContactRow](inputPath)
}

// ReadBuildRunsParquet reads every build history row from a Parquet file.
func ReadBuildRunsParquet(inputPath string) ([]BuildRunRow, error) {
	return readFile[BuildRunRow](inputPath)
}

func readFile[T any](inputPath string) ([]T, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("invalid parquet file: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return rows[:read], nil
}

// ToContactRecords converts Parquet rows into contact records.
func ToContactRecords(rows []ContactRow) []schema.ContactRecord {
	result := make([]schema.ContactRecord, len(rows))
	for i, row := range rows {
		result[i] = schema.ContactRecord{Name: row.Name, Numbers: row.Numbers}
	}
	return result
}

// ConvertContactRecords converts contact records into Parquet rows.
func ConvertContactRecords(records []schema.ContactRecord) []ContactRow {
	result := make([]ContactRow, len(records))
	for i, record := range records {
		result[i] = ContactRow{Name: record.Name, Numbers: record.Numbers}
	}
	return result
}

// ConvertBuildRuns converts schema.BuildRun to BuildRunRow for Parquet export.
func ConvertBuildRuns(runs []schema.BuildRun) []BuildRunRow {
	result := make([]BuildRunRow, len(runs))
	for i, run := range runs {
		row := BuildRunRow{
			RunID:      run.RunID,
			Trigger:    string(run.Trigger),
			Outcome:    string(run.Outcome),
			StartTime:  run.StartTime,
			EndTime:    run.EndTime,
			DurationMs: run.Duration().Milliseconds(),
			Contacts:   int32(run.Contacts),
			Entries:    int32(run.Entries),
			Conflicts:  int32(run.Conflicts),
		}
		if run.Error != "" {
			msg := run.Error
			row.Error = &msg
		}
		result[i] = row
	}
	return result
}
