// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLookups prints resolved numbers using the configured output format.
func (ow *OutWriter) WriteLookups(results []schema.LookupResult, cfg *contract.Config) error {
	return WriteLookupResults(results, cfg)
}

// WriteStatus prints the cache status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.ManagerStatus, cfg *contract.Config) error {
	return WriteManagerStatus(status, cfg)
}

// WriteBuilds prints recorded build runs using the configured output format.
func (ow *OutWriter) WriteBuilds(runs []schema.BuildRun, cfg *contract.Config) error {
	return WriteBuildRuns(runs, cfg)
}
