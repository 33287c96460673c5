// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentence splits question text into sentences using the
// domain's punctuation conventions. This is a fixed heuristic, not a
// general-purpose sentence boundary detector: known abbreviations are
// protected, the " ||| " separator is a hard boundary, and a split
// happens after terminal punctuation followed by an uppercase letter
// or a quotation mark.
package sentence

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviations lists tokens whose trailing period must not end a
// sentence: titles, degrees, Latin abbreviations, and unit markers.
// Multi-character entries precede their prefixes.
var abbreviations = []string{
	"ph.d", "b.a", "m.a", "b.s", "m.s",
	"a.m", "p.m", "a.d", "b.c",
	"et al", "e.g", "i.e", "v.s",
	"mrs", "mr", "ms", "dr", "prof", "st", "jr", "sr",
	"inc", "ltd", "co", "corp", "assoc", "etc", "vs",
	"no", "vol", "ed", "eds",
}

// Placeholder runes substituted during splitting. Neither occurs in
// document text.
const (
	abbrDot      = "\x00"
	ellipsisMark = "\x01"
)

var abbrPattern = compileAbbrPattern()

func compileAbbrPattern() *regexp.Regexp {
	quoted := make([]string, len(abbreviations))
	for i, a := range abbreviations {
		quoted[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`(?i)(^|\s)(` + strings.Join(quoted, "|") + `)\.`)
}

// Split divides text into an ordered list of sentences. The result is a
// pure function of the input: splitting the same text again yields the
// same sentences, and a single already-terminal sentence is returned
// unchanged. Empty input yields nil; text without terminal punctuation
// yields one sentence covering the whole text.
//
// An abbreviation immediately followed by a genuine sentence boundary
// can still over-merge; that is a documented limitation of the
// protection scheme.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// The domain separator is a hard sentence boundary.
	text = strings.ReplaceAll(text, " ||| ", ". ")

	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	// Ellipses and protected abbreviations must survive the split.
	text = strings.ReplaceAll(text, "...", ellipsisMark)
	text = abbrPattern.ReplaceAllString(text, "${1}${2}"+abbrDot)

	var sentences []string
	for _, part := range splitTerminal(text) {
		part = strings.ReplaceAll(part, abbrDot, ".")
		part = strings.ReplaceAll(part, ellipsisMark, "...")
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// splitTerminal splits after '.', '!', or '?' when followed by
// whitespace and an uppercase letter or '"', or by end of string. The
// terminator stays with its sentence; the separating whitespace is
// dropped.
func splitTerminal(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}

		if j == len(runes) {
			parts = append(parts, string(runes[start:i+1]))
			start = j
			break
		}
		if j > i+1 && (unicode.IsUpper(runes[j]) || runes[j] == '"') {
			parts = append(parts, string(runes[start:i+1]))
			start = j
			i = j - 1
		}
	}

	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}
