package directory

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/parquet"
	"github.com/huangsam/callerid/schema"
)

// GatedSource refuses to enumerate unless the gate reports granted access.
type GatedSource struct {
	gate  contract.PermissionGate
	inner contract.ContactSource
}

var _ contract.ContactSource = &GatedSource{} // Compile-time check

// NewGatedSource wraps inner with an authorization check against gate.
func NewGatedSource(gate contract.PermissionGate, inner contract.ContactSource) *GatedSource {
	return &GatedSource{gate: gate, inner: inner}
}

// Enumerate implements the ContactSource interface.
func (s *GatedSource) Enumerate(ctx context.Context) ([]schema.ContactRecord, error) {
	if status := s.gate.CurrentStatus(); !status.Granted() {
		return nil, fmt.Errorf("%w: status is %s", contract.ErrAccess, status)
	}
	return s.inner.Enumerate(ctx)
}

// NewFileSource returns the source for a contact export. An empty format is
// inferred from the file extension.
func NewFileSource(path string, format schema.ContactFormat) (contract.ContactSource, error) {
	if path == "" {
		return nil, errors.New("no contacts file configured; set --contacts")
	}
	if format == "" {
		format = schema.ContactFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	}
	switch format {
	case schema.CSVContacts:
		return &CSVSource{Path: path}, nil
	case schema.JSONContacts:
		return &JSONSource{Path: path}, nil
	case schema.ParquetContacts:
		return &ParquetSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported contacts format %q for %s", format, path)
	}
}

// UnavailableSource fails every enumeration with Err. It stands in for a
// contact export that could not be configured.
type UnavailableSource struct {
	Err error
}

var _ contract.ContactSource = UnavailableSource{} // Compile-time check

// Enumerate implements the ContactSource interface.
func (s UnavailableSource) Enumerate(_ context.Context) ([]schema.ContactRecord, error) {
	return nil, s.Err
}

// CSVSource reads rows of name,number[,number...]. A cell may hold several
// numbers separated by ';'. A first row starting with "name" is a header.
type CSVSource struct {
	Path string
}

var _ contract.ContactSource = &CSVSource{} // Compile-time check

// Enumerate implements the ContactSource interface.
func (s *CSVSource) Enumerate(ctx context.Context) ([]schema.ContactRecord, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return readCSV(ctx, file)
}

func readCSV(ctx context.Context, r io.Reader) ([]schema.ContactRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var records []schema.ContactRecord
	for line := 0; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if line == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		rec := schema.ContactRecord{Name: row[0]}
		for _, cell := range row[1:] {
			for num := range strings.SplitSeq(cell, ";") {
				if num = strings.TrimSpace(num); num != "" {
					rec.Numbers = append(rec.Numbers, num)
				}
			}
		}
		records = append(records, rec)
	}
}

// JSONSource reads an array of {"name": ..., "numbers": [...]} objects.
type JSONSource struct {
	Path string
}

var _ contract.ContactSource = &JSONSource{} // Compile-time check

// Enumerate implements the ContactSource interface.
func (s *JSONSource) Enumerate(ctx context.Context) ([]schema.ContactRecord, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return readJSON(ctx, file)
}

func readJSON(ctx context.Context, r io.Reader) ([]schema.ContactRecord, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("parse json: expected an array of contacts")
	}

	var records []schema.ContactRecord
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec schema.ContactRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parse json contact %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return records, nil
}

// ParquetSource reads ContactRow rows from a Parquet file.
type ParquetSource struct {
	Path string
}

var _ contract.ContactSource = &ParquetSource{} // Compile-time check

// Enumerate implements the ContactSource interface.
func (s *ParquetSource) Enumerate(ctx context.Context) ([]schema.ContactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := parquet.ReadContactsParquet(s.Path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parquet.ToContactRecords(rows), nil
}
