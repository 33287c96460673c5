// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quizbank/pkg/types"
)

type fakeResolver struct {
	calls   int
	cleaned string
	raw     string
	page    string
}

func (f *fakeResolver) Resolve(_ context.Context, cleaned, raw string, _ io.Writer) types.AnswerMapping {
	f.calls++
	f.cleaned = cleaned
	f.raw = raw
	return types.AnswerMapping{CanonicalAnswer: cleaned, RawAnswer: raw, WikipediaPage: f.page, Source: "wikipedia"}
}

func TestConvertUnit(t *testing.T) {
	unit := types.RawUnit{
		RawText: "3. Name this element. It has one proton. ANSWER: Hydrogen",
	}

	rec, err := ConvertUnit(context.Background(), unit, "2025_PACE_R01", 3, nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "2025_PACE_R01_Q03", rec.ID)
	assert.Equal(t, 3, rec.QuestionNum)
	assert.Equal(t, "2025_PACE_R01", rec.Packet)
	assert.Equal(t, []string{"Name this element.", "It has one proton."}, rec.Sentences)
	assert.Equal(t, "Hydrogen", rec.Answer)
	assert.Equal(t, "Hydrogen", rec.AnswerRaw)
	assert.Equal(t, "PACE NSC", rec.Tournament)
	assert.Equal(t, 2025, rec.Year)
	assert.Equal(t, types.DefaultFold, rec.Fold)
	assert.Empty(t, rec.WikipediaPage)
	assert.False(t, rec.DateAdded.IsZero())
}

func TestConvertUnitAnswerCleanup(t *testing.T) {
	unit := types.RawUnit{
		RawText: "1. He crowned himself in 1804. ANSWER: Napoleon Bonaparte [or Napoleon I] (prompt on Napoleon)",
	}

	rec, err := ConvertUnit(context.Background(), unit, "2024_ACF_R02", 1, nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "Napoleon Bonaparte", rec.Answer)
	assert.Equal(t, "Napoleon Bonaparte [or Napoleon I] (prompt on Napoleon)", rec.AnswerRaw)
	assert.Equal(t, "ACF", rec.Tournament)
}

func TestConvertUnitNeedsReview(t *testing.T) {
	// Nothing remains after the answer line is stripped, so there is no
	// candidate and the record carries the review sentinel.
	unit := types.RawUnit{RawText: "ANSWER:"}

	rec, err := ConvertUnit(context.Background(), unit, "pkt", 1, nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, types.ReviewSentinel, rec.Answer)
	assert.Empty(t, rec.AnswerRaw)
	assert.Equal(t, types.DefaultCategory, rec.Category)
}

func TestConvertUnitEmpty(t *testing.T) {
	_, err := ConvertUnit(context.Background(), types.RawUnit{RawText: "   "}, "pkt", 2, nil, io.Discard)
	assert.ErrorContains(t, err, "empty")
}

func TestConvertUnitResolver(t *testing.T) {
	res := &fakeResolver{page: "Hydrogen"}
	unit := types.RawUnit{RawText: "1. Name this element. ANSWER: Hydrogen"}

	rec, err := ConvertUnit(context.Background(), unit, "pkt", 1, res, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 1, res.calls)
	assert.Equal(t, "Hydrogen", res.cleaned)
	assert.Equal(t, "Hydrogen", rec.WikipediaPage)
}

func TestConvertUnitResolverSkippedWithoutAnswer(t *testing.T) {
	res := &fakeResolver{page: "Whatever"}
	unit := types.RawUnit{RawText: "ANSWER:"}

	rec, err := ConvertUnit(context.Background(), unit, "pkt", 1, res, io.Discard)
	require.NoError(t, err)

	assert.Zero(t, res.calls)
	assert.Empty(t, rec.WikipediaPage)
}

func TestConvertBatch(t *testing.T) {
	units := []types.RawUnit{
		{RawText: "1. Name this element. ANSWER: Hydrogen"},
		{RawText: "   "},
		{RawText: "ANSWER:"},
	}

	var buf bytes.Buffer
	records, result := ConvertBatch(context.Background(), units, "2025_NAQT_R03", nil, &buf)

	assert.Len(t, records, 2)
	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.NeedsReview)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())

	// The failing unit must not break numbering of later units.
	assert.Equal(t, "2025_NAQT_R03_Q03", records[1].ID)

	out := buf.String()
	assert.Contains(t, out, "warning: skipping unit 2")
	assert.Contains(t, out, "2 converted, 1 failed, 1 need review")
}

func TestConvertBatchKindCounts(t *testing.T) {
	units := []types.RawUnit{
		{RawText: "Tossup 1. Name this element. ANSWER: Hydrogen"},
		{RawText: "Bonus. Name the author of a whaling novel. ANSWER: Herman Melville"},
	}

	var buf bytes.Buffer
	_, result := ConvertBatch(context.Background(), units, "2025_PACE_R04", nil, &buf)

	assert.Equal(t, 1, result.Tossups)
	assert.Equal(t, 1, result.Bonuses)
	assert.Contains(t, buf.String(), "1 tossup(s), 1 bonus(es)")
}

func TestStableID(t *testing.T) {
	a := StableID("2025_PACE_R01_Q03")
	b := StableID("2025_PACE_R01_Q03")
	c := StableID("2025_PACE_R01_Q04")

	assert.Equal(t, a, b, "same input must hash to the same id")
	assert.NotEqual(t, a, c)

	n, err := strconv.ParseUint(a, 10, 32)
	require.NoError(t, err)
	assert.Equal(t, a, strconv.FormatUint(n, 10))
}

func TestTournamentAndYear(t *testing.T) {
	tests := []struct {
		packet     string
		tournament string
		year       int
	}{
		{"2025_PACE_R01", "PACE NSC", 2025},
		{"ACF_Regionals_2024_Round_3", "ACF", 2024},
		{"naqt-ict-2023", "NAQT", 2023},
		{"Mystery_Packet", "Unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.packet, func(t *testing.T) {
			assert.Equal(t, tt.tournament, Tournament(tt.packet))
			assert.Equal(t, tt.year, Year(tt.packet))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	records := []types.QuestionRecord{
		{
			ID:        "pkt_Q01",
			Fold:      "test",
			Answer:    "Hydrogen",
			Category:  "Science:Chemistry",
			Sentences: []string{"Name this element.", "It has one proton."},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "pkt.csv")
	require.NoError(t, WriteCSV(records, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, StableID("pkt_Q01"), rows[1][0])
	assert.Equal(t, "test", rows[1][1])
	assert.Equal(t, "Hydrogen", rows[1][2])
	assert.Equal(t, "Name this element. ||| It has one proton.", rows[1][4])
}

func TestWriteJSONL(t *testing.T) {
	records := []types.QuestionRecord{
		{ID: "pkt_Q01", Answer: "Hydrogen"},
		{ID: "pkt_Q02", Answer: "Helium"},
	}

	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, WriteJSONL(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"qid":"pkt_Q01"`)
	assert.Contains(t, lines[1], `"qid":"pkt_Q02"`)
}

func TestMergeCSV(t *testing.T) {
	dir := t.TempDir()

	good1 := filepath.Join(dir, "a.csv")
	require.NoError(t, WriteCSV([]types.QuestionRecord{
		{ID: "a_Q01", Fold: "test", Answer: "Hydrogen", Category: "Misc", Sentences: []string{"One."}},
	}, good1))

	good2 := filepath.Join(dir, "b.csv")
	require.NoError(t, WriteCSV([]types.QuestionRecord{
		{ID: "b_Q01", Fold: "test", Answer: "Helium", Category: "Misc", Sentences: []string{"Two."}},
		{ID: "b_Q02", Fold: "test", Answer: "Lithium", Category: "Misc", Sentences: []string{"Three."}},
	}, good2))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("wrong,header\n1,2\n"), 0o644))

	var buf bytes.Buffer
	outPath := filepath.Join(dir, "merged.csv")
	result, err := MergeCSV([]string{good1, bad, good2}, outPath, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3, result.Rows)
	assert.Contains(t, buf.String(), "header mismatch")

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, "Hydrogen", rows[1][2])
	assert.Equal(t, "Lithium", rows[3][2])
}
