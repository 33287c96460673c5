// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/quizbank/pkg/types"
)

// CSVHeader is the five-field tabular schema. MergeCSV rejects inputs
// whose header differs, so the column set changes only with a format
// version bump.
var CSVHeader = []string{"Question ID", "Fold", "Answer", "Category", "Text"}

// SentenceSeparator joins split sentences back into the single Text
// column. The splitter treats the same token as a hard boundary, so a
// round trip through the CSV preserves sentence structure.
const SentenceSeparator = " ||| "

// WriteCSV writes records to path in the five-field tabular format,
// creating parent directories as needed.
func WriteCSV(records []types.QuestionRecord, path string) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			StableID(rec.ID),
			rec.Fold,
			rec.Answer,
			rec.Category,
			strings.Join(rec.Sentences, SentenceSeparator),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV to %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes records to path as an indented JSON array with the
// full record schema, including fields the CSV format drops.
func WriteJSON(records []types.QuestionRecord, path string) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding JSON to %s: %w", path, err)
	}
	return nil
}

// WriteJSONL writes records to path as one JSON object per line, the
// format streaming consumers ingest.
func WriteJSONL(records []types.QuestionRecord, path string) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding JSONL record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
