// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"regexp"
	"strings"

	"github.com/pdiddy/quizbank/pkg/types"
)

// tagPattern matches an embedded category tag such as
// "<Author, Fine Arts - Jazz>": a role up to the first comma, then the
// category chain. Everything after the first comma belongs to the chain.
var tagPattern = regexp.MustCompile(`<[^,<>]+,\s*([^<>]+)>`)

var dashSplit = regexp.MustCompile(`\s*-\s*`)

// keywordRule pairs a category with its trigger words. Rules are
// evaluated top-down; the first rule with any match wins.
type keywordRule struct {
	category string
	keywords []string
}

// keywordRules is the ordered keyword fallback used when no tag is
// embedded in the question text.
var keywordRules = []keywordRule{
	{"History", []string{"war", "battle", "treaty", "king", "emperor", "general"}},
	{"Science:Chemistry", []string{"element", "compound", "reaction", "molecule", "acid"}},
	{"Science:Physics", []string{"physics", "quantum", "relativity", "force", "energy"}},
	{"Science:Astronomy", []string{"planet", "star", "galaxy", "cosmos", "space"}},
	{"Fine_Arts:Literature", []string{"novel", "poem", "author", "playwright", "literature"}},
	{"Fine_Arts:Music", []string{"composer", "symphony", "concerto", "opera", "musician"}},
	{"Fine_Arts:Art", []string{"painting", "sculpture", "artist", "gallery"}},
	{"Geography", []string{"country", "city", "mountain", "river", "geography"}},
}

// InferCategory derives a topical category. It first looks for an
// embedded tag in the raw question text, then falls back to keyword
// rules over the answer. Total: every input maps to a non-empty
// category, defaulting to types.DefaultCategory.
func InferCategory(rawText, answer string) string {
	if cat, ok := categoryFromTag(rawText); ok {
		return cat
	}
	return CategoryFromKeywords(answer)
}

// categoryFromTag parses the "<role, Top - Sub>" tag form. The top-level
// term and optional subcategory have spaces replaced by underscores and
// join as "Top:Sub".
func categoryFromTag(rawText string) (string, bool) {
	m := tagPattern.FindStringSubmatch(rawText)
	if m == nil {
		return "", false
	}

	var parts []string
	for _, p := range dashSplit.Split(strings.TrimSpace(m[1]), -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return types.DefaultCategory, true
	}

	top := strings.ReplaceAll(parts[0], " ", "_")
	if len(parts) > 1 {
		sub := strings.ReplaceAll(parts[1], " ", "_")
		return top + ":" + sub, true
	}
	return top, true
}

// CategoryFromKeywords applies the ordered keyword rules to an answer
// string.
func CategoryFromKeywords(answer string) string {
	lower := strings.ToLower(answer)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return types.DefaultCategory
}
