// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/quizbank/internal/convert"
	"github.com/pdiddy/quizbank/pkg/types"
)

// QueryOptions holds parameters for question bank queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against
	// question text and answers.
	Query string

	// Category filters by inferred category, e.g. "Science:Chemistry".
	Category string

	// Packet filters by packet identifier.
	Packet string

	// Fold filters by dataset partition.
	Fold string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Category == "" && q.Packet == "" && q.Fold == ""
}

// Retrieve queries the bank with optional full-text search and
// structured filters. Full-text queries are ranked by relevance;
// structured-only queries sort by packet and question number.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.QuestionRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT q.qid, q.question_num, q.packet, q.text, q.raw_text,
				q.answer, q.answer_raw, q.category, q.wikipedia_page,
				q.fold, q.date_added, p.tournament, p.year
			FROM questions_fts
			JOIN questions q ON q.rowid = questions_fts.rowid
			LEFT JOIN packets p ON q.packet = p.id
			WHERE questions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT q.qid, q.question_num, q.packet, q.text, q.raw_text,
				q.answer, q.answer_raw, q.category, q.wikipedia_page,
				q.fold, q.date_added, p.tournament, p.year
			FROM questions q
			LEFT JOIN packets p ON q.packet = p.id
			WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND q.category = ?`)
		args = append(args, opts.Category)
	}

	if opts.Packet != "" {
		qb.WriteString(` AND q.packet = ?`)
		args = append(args, opts.Packet)
	}

	if opts.Fold != "" {
		qb.WriteString(` AND q.fold = ?`)
		args = append(args, opts.Fold)
	}

	if useFTS {
		qb.WriteString(` ORDER BY questions_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY q.packet, q.question_num`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying question bank: %w", err)
	}
	defer rows.Close()

	var results []types.QuestionRecord
	for rows.Next() {
		var (
			rec        types.QuestionRecord
			text       string
			dateStr    sql.NullString
			tournament sql.NullString
			year       sql.NullInt64
		)

		if err := rows.Scan(
			&rec.ID, &rec.QuestionNum, &rec.Packet, &text, &rec.RawText,
			&rec.Answer, &rec.AnswerRaw, &rec.Category, &rec.WikipediaPage,
			&rec.Fold, &dateStr, &tournament, &year,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if text != "" {
			rec.Sentences = strings.Split(text, convert.SentenceSeparator)
		}
		if dateStr.Valid && dateStr.String != "" {
			if t, err := time.Parse(time.RFC3339, dateStr.String); err == nil {
				rec.DateAdded = t
			}
		}
		if tournament.Valid {
			rec.Tournament = tournament.String
		}
		if year.Valid {
			rec.Year = int(year.Int64)
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// Stats summarizes the bank's contents.
type Stats struct {
	Questions   int             `json:"questions" yaml:"questions"`
	Packets     int             `json:"packets" yaml:"packets"`
	NeedsReview int             `json:"needs_review" yaml:"needs_review"`
	Categories  []CategoryCount `json:"categories" yaml:"categories"`
	Folds       []CategoryCount `json:"folds" yaml:"folds"`
}

// CollectStats computes bank-wide counts and per-category and per-fold
// breakdowns.
func (s *Store) CollectStats(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM questions`).Scan(&stats.Questions); err != nil {
		return stats, fmt.Errorf("counting questions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM packets`).Scan(&stats.Packets); err != nil {
		return stats, fmt.Errorf("counting packets: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM questions WHERE answer = ?`, types.ReviewSentinel,
	).Scan(&stats.NeedsReview); err != nil {
		return stats, fmt.Errorf("counting review questions: %w", err)
	}

	var err error
	stats.Categories, err = s.groupCount(ctx, "category")
	if err != nil {
		return stats, err
	}
	stats.Folds, err = s.groupCount(ctx, "fold")
	if err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *Store) groupCount(ctx context.Context, column string) ([]CategoryCount, error) {
	// column is one of two fixed names, never user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, count(*) FROM questions GROUP BY %s ORDER BY count(*) DESC, %s`,
		column, column, column))
	if err != nil {
		return nil, fmt.Errorf("grouping by %s: %w", column, err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning %s count: %w", column, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
