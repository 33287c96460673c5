// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
)

// MergeResult summarizes a CSV merge.
type MergeResult struct {
	// Files is the number of inputs merged.
	Files int

	// Skipped is the number of inputs rejected for a header mismatch.
	Skipped int

	// Rows is the total number of data rows written.
	Rows int
}

// MergeCSV concatenates per-packet CSV files into one dataset file with
// a single header. An input whose header does not exactly match
// CSVHeader is skipped with a warning on w; the merge continues. Row
// contents are copied verbatim, never re-derived.
func MergeCSV(inputs []string, outPath string, w io.Writer) (MergeResult, error) {
	var result MergeResult

	out, err := createOutput(outPath)
	if err != nil {
		return result, err
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	if err := cw.Write(CSVHeader); err != nil {
		return result, fmt.Errorf("writing merged header: %w", err)
	}

	for _, path := range inputs {
		rows, err := readDataRows(path)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", path, err)
			result.Skipped++
			continue
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return result, fmt.Errorf("writing merged row from %s: %w", path, err)
			}
		}
		result.Files++
		result.Rows += len(rows)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return result, fmt.Errorf("flushing merged CSV to %s: %w", outPath, err)
	}
	return result, nil
}

// readDataRows reads one input file, validates its header, and returns
// its data rows.
func readDataRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, CSVHeader) {
		return nil, fmt.Errorf("header mismatch: got %v", header)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}
