// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ReviewSentinel is the answer value recorded when no answer could be
// extracted automatically. It is the durable signal for manual follow-up;
// extraction failure is never an error.
const ReviewSentinel = "[ANSWER_NEEDS_MANUAL_REVIEW]"

// DefaultFold is the dataset partition assigned to freshly converted
// questions. Downstream consumers reassign folds when building splits.
const DefaultFold = "test"

// DefaultCategory is the catch-all category when neither an embedded tag
// nor the keyword rules produce a match.
const DefaultCategory = "Misc"

// RawUnit is one question as segmented from a source document: the
// space-joined text plus the original paragraph lines. Immutable once
// built; consumed only by the unit converter.
type RawUnit struct {
	// RawText is the unit's paragraphs joined with single spaces.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Lines holds the unit's paragraphs in document order.
	Lines []string `json:"lines" yaml:"lines"`
}

// QuestionRecord is the canonical converted question.
type QuestionRecord struct {
	// ID is the stable identifier, e.g. "2025_PACE_R01_Q03". Unique
	// within a batch; a deterministic function of packet and sequence.
	ID string `json:"qid" yaml:"qid"`

	// QuestionNum is the 1-based sequence number within the packet.
	QuestionNum int `json:"question_num" yaml:"question_num"`

	// Packet is the grouping key for the source document.
	Packet string `json:"packet" yaml:"packet"`

	// RawText is the original unsplit text, preserved for audit.
	RawText string `json:"raw_text" yaml:"raw_text"`

	// Answer is the cleaned answer, or ReviewSentinel when extraction
	// found nothing. Never empty.
	Answer string `json:"answer" yaml:"answer"`

	// AnswerRaw is the answer as extracted, before cleanup.
	AnswerRaw string `json:"answer_raw" yaml:"answer_raw"`

	// Sentences is the ordered sentence split of the question body.
	Sentences []string `json:"sentences" yaml:"sentences"`

	// Category is the inferred topical category. Never empty; falls
	// back to DefaultCategory.
	Category string `json:"category" yaml:"category"`

	// WikipediaPage is the resolved article title, empty when
	// resolution failed or was skipped.
	WikipediaPage string `json:"wikipedia_page,omitempty" yaml:"wikipedia_page,omitempty"`

	// Tournament is derived from the packet id (e.g. "PACE NSC").
	Tournament string `json:"tournament" yaml:"tournament"`

	// Year is the tournament year parsed from the packet id, 0 if absent.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Fold is the dataset partition label, DefaultFold on conversion.
	Fold string `json:"fold" yaml:"fold"`

	// DateAdded is the conversion timestamp.
	DateAdded time.Time `json:"date_added" yaml:"date_added"`
}

// AnswerMapping is one resolved answer as stored in the answer cache,
// keyed by the cleaned answer string. Entries are created on first
// resolution and never evicted.
type AnswerMapping struct {
	// CanonicalAnswer is the cleaned answer the entry is keyed by.
	CanonicalAnswer string `json:"canonical_answer" yaml:"canonical_answer"`

	// RawAnswer is the answer as extracted from the question.
	RawAnswer string `json:"raw_answer" yaml:"raw_answer"`

	// WikipediaPage is the resolved article title, empty when none.
	WikipediaPage string `json:"wikipedia_page,omitempty" yaml:"wikipedia_page,omitempty"`

	// Source records how the mapping was produced: "local", "cache",
	// "wikipedia", or "manual" when resolution found nothing.
	Source string `json:"source" yaml:"source"`

	// Category is the keyword-inferred category for the answer.
	Category string `json:"category" yaml:"category"`
}
