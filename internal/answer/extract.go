// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer isolates and cleans answer lines from question text and
// infers topical categories.
package answer

import (
	"regexp"
	"strings"
)

// answerLinePattern finds an "ANSWER:" line anywhere in the unit text and
// captures the content to end of line.
var answerLinePattern = regexp.MustCompile(`(?im)ANSWER:\s*(.+)$`)

// Cleanup regexes, one per pipeline step.
var (
	bracketAltPattern  = regexp.MustCompile(`\[[^\]]*\]`)
	trailingOrPattern  = regexp.MustCompile(`\([^)]*or[^)]*\)$`)
	promptPattern      = regexp.MustCompile(`(?i)\([^)]*prompt[^)]*\)`)
	leadingAnswerLabel = regexp.MustCompile(`(?i)^ANSWER:\s*`)
)

// cleanupSteps is the ordered answer cleanup pipeline. Each step is a
// pure string transform; the order matters (tag truncation first, label
// stripping last) but individual steps are independent.
var cleanupSteps = []func(string) string{
	truncateAtTag,
	func(s string) string { return strings.Trim(s, " .\n\r") },
	func(s string) string { return bracketAltPattern.ReplaceAllString(s, "") },
	func(s string) string { return trailingOrPattern.ReplaceAllString(s, "") },
	func(s string) string { return promptPattern.ReplaceAllString(s, "") },
	func(s string) string { return strings.Join(strings.Fields(s), " ") },
	func(s string) string { return leadingAnswerLabel.ReplaceAllString(s, "") },
}

// truncateAtTag drops everything from the first '<' onward, removing
// trailing editor or category tags appended to the answer line.
func truncateAtTag(s string) string {
	if before, _, found := strings.Cut(s, "<"); found {
		return before
	}
	return s
}

// Candidate isolates the uncleaned answer candidate from a raw question
// unit. It prefers an explicit "ANSWER:" line; failing that it falls
// back to the last of the supplied sentences. The second return is
// false when neither source yields a candidate.
func Candidate(rawText string, sentences []string) (string, bool) {
	if m := answerLinePattern.FindStringSubmatch(rawText); m != nil {
		return m[1], true
	}
	if len(sentences) > 0 {
		return sentences[len(sentences)-1], true
	}
	return "", false
}

// Extract isolates and cleans the answer from a raw question unit. The
// second return is false when no answer was found or cleaning removed
// everything; absence is the only failure signal.
func Extract(rawText string, sentences []string) (string, bool) {
	candidate, ok := Candidate(rawText, sentences)
	if !ok {
		return "", false
	}

	cleaned := Clean(candidate)
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// Clean runs the answer cleanup pipeline over a candidate string.
func Clean(candidate string) string {
	s := candidate
	for _, step := range cleanupSteps {
		s = strings.TrimSpace(step(s))
	}
	return s
}

// ftpPattern matches the trailing "For N points, name this ..." or
// "FTP, ..." prompt clause.
var ftpPattern = regexp.MustCompile(`(?i)\s*(?:For\s+\d+\s+points|FTP)[,.]?\s+(?:name\s+)?[^.!?]*[.!?]?\s*$`)

// answerLineFull matches a whole "ANSWER: ..." segment for removal from
// the question body before sentence splitting.
var answerLineFull = regexp.MustCompile(`(?im)\s*ANSWER:.*$`)

// StripForSplitting removes the parts of the unit text that are not
// question prose: the ANSWER line and the trailing points prompt. The
// result feeds the sentence splitter.
func StripForSplitting(rawText string) string {
	s := answerLineFull.ReplaceAllString(rawText, "")
	s = ftpPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
