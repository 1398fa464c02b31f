package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/olekukonko/tablewriter"
)

// notFoundLabel is shown in place of a name when a number has no match.
const notFoundLabel = "(unknown)"

// WriteLookupResults outputs resolved numbers, dispatching on the configured format.
func WriteLookupResults(results []schema.LookupResult, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeJSON(w, results) },
		func(w io.Writer) error { return writeLookupCSV(w, results) },
		func(w io.Writer) error { return writeLookupTable(w, results, cfg.UseColors) },
	)
}

// writeLookupTable renders one row per queried number.
func writeLookupTable(w io.Writer, results []schema.LookupResult, useColors bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Number", "Key", "Name"})

	var data [][]string
	found := 0
	for i, r := range results {
		name := r.Name
		if r.Found {
			found++
		} else {
			name = notFoundLabel
			if useColors {
				name = contract.DisabledColor.Sprint(name)
			}
		}
		data = append(data, []string{strconv.Itoa(i + 1), r.Number, r.Key, name})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Resolved %d of %d numbers\n", found, len(results))
	return err
}

// writeLookupCSV writes one record per queried number.
func writeLookupCSV(w io.Writer, results []schema.LookupResult) error {
	header := []string{"number", "key", "name", "found"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			if err := cw.Write([]string{r.Number, r.Key, r.Name, strconv.FormatBool(r.Found)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
