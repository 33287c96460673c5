// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quizbank/pkg/types"
)

// fakeClient counts calls so tests can assert the no-network contract.
type fakeClient struct {
	searchCalls int
	fetchCalls  int
	title       string
	text        string
	searchErr   error
	fetchErr    error
}

func (f *fakeClient) Search(_ context.Context, _ string) (string, error) {
	f.searchCalls++
	return f.title, f.searchErr
}

func (f *fakeClient) Fetch(_ context.Context, _ string) (string, error) {
	f.fetchCalls++
	return f.text, f.fetchErr
}

func newTestResolver(t *testing.T, wikiDir string, client APIClient, fetch bool) *Resolver {
	t.Helper()
	cache, err := NewMapper("")
	require.NoError(t, err)
	cfg := types.ResolverConfig{WikiDir: wikiDir, FetchArticles: fetch}
	return NewResolver(cfg, cache, client)
}

func TestResolveLocalStoreHitSkipsNetwork(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hydrogen.txt"), []byte("H"), 0o644))

	client := &fakeClient{title: "should not be used"}
	r := newTestResolver(t, dir, client, true)

	var buf bytes.Buffer
	m := r.Resolve(context.Background(), "Hydrogen", "Hydrogen", &buf)

	assert.Equal(t, "hydrogen", m.WikipediaPage)
	assert.Equal(t, "local", m.Source)
	assert.Zero(t, client.searchCalls, "local hit must not search")
	assert.Zero(t, client.fetchCalls, "local hit must not fetch")
}

func TestResolveCacheHitSkipsNetwork(t *testing.T) {
	client := &fakeClient{title: "Napoleon"}
	r := newTestResolver(t, "", client, false)

	var buf bytes.Buffer
	first := r.Resolve(context.Background(), "Napoleon Bonaparte", "Napoleon Bonaparte", &buf)
	require.Equal(t, "Napoleon", first.WikipediaPage)
	require.Equal(t, 1, client.searchCalls)

	second := r.Resolve(context.Background(), "Napoleon Bonaparte", "Napoleon Bonaparte", &buf)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.searchCalls, "cache hit must not search again")
}

func TestResolveFetchesAndPersists(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{title: "Moby-Dick", text: "Call me Ishmael."}
	r := newTestResolver(t, dir, client, true)

	var buf bytes.Buffer
	m := r.Resolve(context.Background(), "Moby-Dick", "Moby-Dick [or The Whale]", &buf)

	assert.Equal(t, "Moby-Dick", m.WikipediaPage)
	assert.Equal(t, "wikipedia", m.Source)
	assert.Equal(t, 1, client.fetchCalls)

	data, err := os.ReadFile(filepath.Join(dir, "Moby-Dick.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Call me Ishmael.", string(data))
}

func TestResolveSearchFailureIsNonFatal(t *testing.T) {
	client := &fakeClient{searchErr: fmt.Errorf("connection refused")}
	r := newTestResolver(t, "", client, false)

	var buf bytes.Buffer
	m := r.Resolve(context.Background(), "Obscure Thing", "Obscure Thing", &buf)

	assert.Empty(t, m.WikipediaPage)
	assert.Equal(t, "manual", m.Source)
	assert.Contains(t, buf.String(), "warning: search failed")
}

func TestResolveFetchFailureKeepsTitle(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{title: "Hydrogen", fetchErr: fmt.Errorf("HTTP 500")}
	r := newTestResolver(t, dir, client, true)

	var buf bytes.Buffer
	m := r.Resolve(context.Background(), "the element Hydrogen", "Hydrogen", &buf)

	// The title survives even though the article body never arrived.
	assert.Equal(t, "Hydrogen", m.WikipediaPage)
	assert.Contains(t, buf.String(), "warning: fetch failed")
	_, err := os.Stat(filepath.Join(dir, "Hydrogen.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveEmptyAnswer(t *testing.T) {
	client := &fakeClient{}
	r := newTestResolver(t, "", client, false)

	var buf bytes.Buffer
	m := r.Resolve(context.Background(), "", "", &buf)
	assert.Equal(t, "manual", m.Source)
	assert.Zero(t, client.searchCalls)
}

func TestSearchNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"War AND Peace", "War and Peace"},
		{`"Hamlet"`, "Hamlet"},
		{"Paris; accept City of Light", "Paris"},
		{"  plain  ", "plain"},
	}
	for _, tt := range tests {
		if got := SearchNormalize(tt.in); got != tt.want {
			t.Errorf("SearchNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
