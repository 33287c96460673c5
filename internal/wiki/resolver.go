// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/quizbank/internal/answer"
	"github.com/pdiddy/quizbank/pkg/types"
)

// Searcher finds the best-matching article title for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Fetcher retrieves full article text by title.
type Fetcher interface {
	Fetch(ctx context.Context, title string) (string, error)
}

// APIClient is the remote half of the resolver. *Client implements it;
// tests substitute counting fakes.
type APIClient interface {
	Searcher
	Fetcher
}

// Resolver maps cleaned answers to Wikipedia article titles. Lookup
// order: local article store, then answer cache, then remote search.
// The network is never touched when an earlier stage hits — remote
// lookups are slow and rate-limited, and that avoidance is the point
// of the cache.
type Resolver struct {
	cache         *Mapper
	client        APIClient
	wikiDir       string
	fetchArticles bool
}

// NewResolver wires a resolver from config, a loaded cache, and an API
// client.
func NewResolver(cfg types.ResolverConfig, cache *Mapper, client APIClient) *Resolver {
	return &Resolver{
		cache:         cache,
		client:        client,
		wikiDir:       cfg.WikiDir,
		fetchArticles: cfg.FetchArticles,
	}
}

// Cache exposes the resolver's answer cache for explicit persistence.
func (r *Resolver) Cache() *Mapper {
	return r.cache
}

var andPattern = regexp.MustCompile(`\s+AND\s+`)

// SearchNormalize reduces a cleaned answer to its search form:
// "AND" lowered, surrounding quotes stripped, qualifiers after the
// first semicolon dropped.
func SearchNormalize(ans string) string {
	s := andPattern.ReplaceAllString(ans, " and ")
	s = strings.Trim(s, ` "`)
	s, _, _ = strings.Cut(s, ";")
	return strings.TrimSpace(s)
}

// Resolve maps a cleaned answer to an AnswerMapping. Remote failures
// are reported to w as warnings and degrade to an empty reference; the
// result is always usable and always written back to the cache.
func (r *Resolver) Resolve(ctx context.Context, cleaned, raw string, w io.Writer) types.AnswerMapping {
	term := SearchNormalize(cleaned)
	if term == "" {
		return types.AnswerMapping{
			CanonicalAnswer: cleaned,
			RawAnswer:       raw,
			Source:          "manual",
			Category:        answer.CategoryFromKeywords(cleaned),
		}
	}

	// Local article store first: a cached article satisfies the
	// request without any network traffic.
	if title, ok := FindLocal(r.wikiDir, term); ok {
		m := types.AnswerMapping{
			CanonicalAnswer: cleaned,
			RawAnswer:       raw,
			WikipediaPage:   title,
			Source:          "local",
			Category:        answer.CategoryFromKeywords(cleaned),
		}
		r.cache.Put(term, m)
		return m
	}

	if m, ok := r.cache.Lookup(term); ok {
		return m
	}

	title, err := r.client.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(w, "warning: search failed for %q: %v\n", term, err)
		title = ""
	}

	if title != "" && r.fetchArticles && r.wikiDir != "" {
		if text, err := r.client.Fetch(ctx, title); err != nil {
			fmt.Fprintf(w, "warning: fetch failed for %q: %v\n", title, err)
		} else if err := SaveArticle(r.wikiDir, title, text); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		}
	}

	source := "wikipedia"
	if title == "" {
		source = "manual"
	}
	m := types.AnswerMapping{
		CanonicalAnswer: cleaned,
		RawAnswer:       raw,
		WikipediaPage:   title,
		Source:          source,
		Category:        answer.CategoryFromKeywords(cleaned),
	}
	r.cache.Put(term, m)
	return m
}
