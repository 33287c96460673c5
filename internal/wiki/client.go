// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki resolves cleaned answers to canonical Wikipedia article
// titles. Resolution is cache-first: a local article store and a
// persistent answer cache are consulted before any network call, and
// every remote failure degrades to "no reference" rather than an error.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/quizbank/internal/httputil"
	"github.com/pdiddy/quizbank/pkg/types"
)

// wikipediaAPIBase is the MediaWiki API endpoint. Declared as a var so
// tests can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

const defaultTimeout = 10 * time.Second

// maxRetries bounds 429 retries per API call.
const maxRetries = 3

// Client queries the Wikipedia API for article titles and extracts.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a Wikipedia API client from HTTP settings.
func NewClient(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
	}
}

// Search runs a keyword search and returns the top hit's title, or ""
// when there are no hits.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"format":   {"json"},
	}

	var sr searchResponse
	if err := c.get(ctx, params, &sr); err != nil {
		return "", err
	}
	if len(sr.Query.Search) == 0 {
		return "", nil
	}
	return sr.Query.Search[0].Title, nil
}

// Fetch retrieves the plain-text extract of an article by title.
func (c *Client) Fetch(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"titles":      {title},
		"prop":        {"extracts"},
		"explaintext": {"true"},
		"format":      {"json"},
	}

	var fr fetchResponse
	if err := c.get(ctx, params, &fr); err != nil {
		return "", err
	}
	for _, page := range fr.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", fmt.Errorf("no extract for %q", title)
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, maxRetries)
	if err != nil {
		return fmt.Errorf("Wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Wikipedia API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Wikipedia response: %w", err)
	}
	return nil
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type fetchResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}
