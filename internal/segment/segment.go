// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment reads tournament documents and splits their paragraph
// stream into per-question raw units.
package segment

import (
	"regexp"
	"strings"

	"github.com/pdiddy/quizbank/pkg/types"
)

// ordinalPattern matches a question ordinal at the start of a paragraph:
// "1. ", "12) ".
var ordinalPattern = regexp.MustCompile(`^\d+[.)]\s`)

// sectionMarkers are paragraph prefixes that open a new unit even
// without an ordinal. Matched case-insensitively.
var sectionMarkers = []string{"bonuses", "bonus", "tossups", "tossup"}

// IsUnitStart reports whether a paragraph begins a new question unit.
// Pure classification of the current paragraph only; no lookahead.
func IsUnitStart(text string) bool {
	if ordinalPattern.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, m := range sectionMarkers {
		if strings.HasPrefix(lower, m) {
			return true
		}
	}
	return false
}

// Split groups an ordered sequence of non-empty paragraphs into RawUnits.
// A unit-start paragraph opens a new unit; every other paragraph appends
// to the current one. Paragraphs before the first unit start are dropped.
// No unit start at all yields an empty slice.
func Split(paragraphs []string) []types.RawUnit {
	var units []types.RawUnit
	var current *types.RawUnit

	for _, para := range paragraphs {
		text := strings.TrimSpace(para)
		if text == "" {
			continue
		}

		if IsUnitStart(text) {
			if current != nil {
				units = append(units, *current)
			}
			current = &types.RawUnit{
				RawText: text,
				Lines:   []string{text},
			}
			continue
		}

		if current == nil {
			// Header or preamble before the first question.
			continue
		}
		current.RawText += " " + text
		current.Lines = append(current.Lines, text)
	}

	if current != nil {
		units = append(units, *current)
	}
	return units
}

// TrimUnitStart removes a leading question ordinal ("1. ", "12) ") from
// unit text so it does not surface as a spurious sentence.
func TrimUnitStart(text string) string {
	return strings.TrimSpace(ordinalPattern.ReplaceAllString(text, ""))
}

// Kind classifies a unit's question type from its text.
func Kind(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "bonus"):
		return "bonus"
	case strings.Contains(lower, "tossup"):
		return "tossup"
	default:
		return "unknown"
	}
}
