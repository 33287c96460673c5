// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns segmented question units into canonical
// QuestionRecord values and writes them out in tabular and structured
// formats.
package convert

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/pdiddy/quizbank/internal/answer"
	"github.com/pdiddy/quizbank/internal/segment"
	"github.com/pdiddy/quizbank/internal/sentence"
	"github.com/pdiddy/quizbank/pkg/types"
)

// Resolver is the optional answer-resolution collaborator. A nil
// Resolver skips reference resolution entirely; records then carry an
// empty WikipediaPage.
type Resolver interface {
	Resolve(ctx context.Context, cleaned, raw string, w io.Writer) types.AnswerMapping
}

// BatchResult summarizes a packet conversion. A unit that converts but
// needs manual answer review counts as converted, not failed. Tossups
// and Bonuses count units whose text names its question kind.
type BatchResult struct {
	Converted   int
	Failed      int
	NeedsReview int
	Tossups     int
	Bonuses     int
}

// Total returns the number of units processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any unit failed outright.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertUnit builds a QuestionRecord from one segmented unit. The
// question body is stripped of the answer line and points prompt, then
// sentence-split; the answer runs through extraction and cleanup. A
// unit whose answer cannot be extracted still converts, with the review
// sentinel as its answer. Only an empty unit is an error.
func ConvertUnit(ctx context.Context, unit types.RawUnit, packet string, num int, res Resolver, w io.Writer) (types.QuestionRecord, error) {
	raw := strings.TrimSpace(unit.RawText)
	if raw == "" {
		return types.QuestionRecord{}, fmt.Errorf("unit %d in packet %s is empty", num, packet)
	}

	body := answer.StripForSplitting(raw)
	body = segment.TrimUnitStart(body)
	sentences := sentence.Split(body)

	rec := types.QuestionRecord{
		ID:          fmt.Sprintf("%s_Q%02d", packet, num),
		QuestionNum: num,
		Packet:      packet,
		RawText:     raw,
		Sentences:   sentences,
		Tournament:  Tournament(packet),
		Year:        Year(packet),
		Fold:        types.DefaultFold,
		DateAdded:   time.Now().UTC(),
	}

	candidate, found := answer.Candidate(raw, sentences)
	cleaned := ""
	if found {
		cleaned = answer.Clean(candidate)
	}

	if cleaned == "" {
		rec.Answer = types.ReviewSentinel
		rec.Category = answer.InferCategory(raw, "")
		return rec, nil
	}

	rec.Answer = cleaned
	rec.AnswerRaw = strings.TrimSpace(candidate)
	rec.Category = answer.InferCategory(raw, cleaned)

	if res != nil {
		m := res.Resolve(ctx, cleaned, rec.AnswerRaw, w)
		rec.WikipediaPage = m.WikipediaPage
	}

	return rec, nil
}

// ConvertBatch converts all units of one packet, numbering them in
// order. A failed unit is reported to w and skipped; the batch
// continues. The summary line is written to w when the batch finishes.
func ConvertBatch(ctx context.Context, units []types.RawUnit, packet string, res Resolver, w io.Writer) ([]types.QuestionRecord, BatchResult) {
	var result BatchResult
	records := make([]types.QuestionRecord, 0, len(units))

	for i, unit := range units {
		num := i + 1
		rec, err := ConvertUnit(ctx, unit, packet, num, res, w)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping unit %d of %s: %v\n", num, packet, err)
			result.Failed++
			continue
		}
		if rec.Answer == types.ReviewSentinel {
			result.NeedsReview++
		}
		switch segment.Kind(unit.RawText) {
		case "tossup":
			result.Tossups++
		case "bonus":
			result.Bonuses++
		}
		records = append(records, rec)
		result.Converted++
	}

	if result.Tossups > 0 || result.Bonuses > 0 {
		fmt.Fprintf(w, "%s: %d tossup(s), %d bonus(es)\n", packet, result.Tossups, result.Bonuses)
	}
	fmt.Fprintf(w, "%s: %d converted, %d failed, %d need review\n",
		packet, result.Converted, result.Failed, result.NeedsReview)
	return records, result
}

// StableID derives the numeric dataset identifier from a question ID.
// The low 32 bits of the hash keep the value inside the range older
// consumers index by, and the mapping never changes between runs.
func StableID(qid string) string {
	return strconv.FormatUint(uint64(uint32(xxhash.Sum64String(qid))), 10)
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// Tournament derives the tournament name from a packet identifier.
func Tournament(packet string) string {
	upper := strings.ToUpper(packet)
	switch {
	case strings.Contains(upper, "PACE"):
		return "PACE NSC"
	case strings.Contains(upper, "ACF"):
		return "ACF"
	case strings.Contains(upper, "NAQT"):
		return "NAQT"
	}
	return "Unknown"
}

// Year parses the four-digit tournament year out of a packet
// identifier, returning 0 when none is present.
func Year(packet string) int {
	m := yearPattern.FindString(packet)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}
