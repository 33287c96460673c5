// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bank persists converted questions in a searchable SQLite
// index and serves retrieval, stats, and export over it.
package bank

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/quizbank/internal/convert"
	"github.com/pdiddy/quizbank/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "quizbank.db"
)

// Store manages the question bank SQLite database.
type Store struct {
	db         *sql.DB
	bankDir    string
	outputDir  string
	maxResults int
}

// NewStore opens or creates the question bank database at
// bankDir/index/quizbank.db, creating the schema if it does not exist.
// outputDir is where Ingest looks for converted packet files.
func NewStore(cfg types.BankConfig, outputDir string) (*Store, error) {
	dbDir := filepath.Join(cfg.BankDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		bankDir:    cfg.BankDir,
		outputDir:  outputDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS packets (
			id TEXT PRIMARY KEY,
			tournament TEXT,
			year INTEGER,
			question_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			qid TEXT NOT NULL UNIQUE,
			question_num INTEGER,
			packet TEXT NOT NULL REFERENCES packets(id),
			text TEXT NOT NULL,
			raw_text TEXT,
			answer TEXT NOT NULL,
			answer_raw TEXT,
			category TEXT,
			wikipedia_page TEXT,
			fold TEXT,
			date_added TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_packet ON questions(packet)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_fold ON questions(fold)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			packet TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='questions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE questions_fts USING fts5(text, answer, content=questions, content_rowid=rowid)`,
			`CREATE TRIGGER questions_ai AFTER INSERT ON questions BEGIN
				INSERT INTO questions_fts(rowid, text, answer) VALUES (new.rowid, new.text, new.answer);
			END`,
			`CREATE TRIGGER questions_ad AFTER DELETE ON questions BEGIN
				INSERT INTO questions_fts(questions_fts, rowid, text, answer) VALUES('delete', old.rowid, old.text, old.answer);
			END`,
			`CREATE TRIGGER questions_au AFTER UPDATE ON questions BEGIN
				INSERT INTO questions_fts(questions_fts, rowid, text, answer) VALUES('delete', old.rowid, old.text, old.answer);
				INSERT INTO questions_fts(rowid, text, answer) VALUES (new.rowid, new.text, new.answer);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a bank indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of packet files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads converted packet files (.json or .jsonl) from the output
// directory and populates the database. File modification times drive
// incremental updates: an unchanged file is skipped, a changed file
// replaces its packet's questions wholesale. On success it refreshes
// the export snapshot.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading output directory %s: %w", s.outputDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".jsonl") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		packet := strings.TrimSuffix(entry.Name(), ext)
		filePath := filepath.Join(s.outputDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", packet, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE packet = ?`, packet,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", packet)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		records, err := readRecords(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", packet, err)
			summary.Failed++
			continue
		}

		if err := s.ingestPacket(ctx, packet, records, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", packet, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d questions)\n", packet, len(records))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d questions)\n", packet, len(records))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestPacket(ctx context.Context, packet string, records []types.QuestionRecord, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE packet = ?`, packet); err != nil {
			return fmt.Errorf("deleting old questions: %w", err)
		}
	}

	tournament := convert.Tournament(packet)
	year := convert.Year(packet)
	if len(records) > 0 {
		tournament = records[0].Tournament
		year = records[0].Year
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO packets (id, tournament, year, question_count)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			tournament=excluded.tournament, year=excluded.year,
			question_count=excluded.question_count`,
		packet, tournament, year, len(records),
	)
	if err != nil {
		return fmt.Errorf("upserting packet: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO questions
			(qid, question_num, packet, text, raw_text, answer, answer_raw,
			 category, wikipedia_page, fold, date_added)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		dateStr := ""
		if !rec.DateAdded.IsZero() {
			dateStr = rec.DateAdded.Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.QuestionNum, packet,
			strings.Join(rec.Sentences, convert.SentenceSeparator),
			rec.RawText, rec.Answer, rec.AnswerRaw,
			rec.Category, rec.WikipediaPage, rec.Fold, dateStr,
		)
		if err != nil {
			return fmt.Errorf("inserting question %s: %w", rec.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (packet, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(packet) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		packet, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// readRecords decodes a converted packet file. A .jsonl file holds one
// record per line; a .json file holds an array.
func readRecords(path string) ([]types.QuestionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(path) == ".json" {
		var records []types.QuestionRecord
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return records, nil
	}

	var records []types.QuestionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec types.QuestionRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
