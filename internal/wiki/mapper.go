// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/quizbank/pkg/types"
)

// Mapper is the answer cache: search-normalized answer → resolution
// record. Entries accumulate for the life of the mapper and across runs
// when a cache file is configured; nothing is ever evicted. Loaded on
// construction, saved only on an explicit Save call.
type Mapper struct {
	path    string
	entries map[string]types.AnswerMapping
}

// NewMapper loads the cache from path. An empty path keeps the cache
// in-memory only. A missing file is an empty cache, not an error.
func NewMapper(path string) (*Mapper, error) {
	m := &Mapper{
		path:    path,
		entries: make(map[string]types.AnswerMapping),
	}
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("reading answer cache %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m.entries); err != nil {
		return nil, fmt.Errorf("parsing answer cache %s: %w", path, err)
	}
	return m, nil
}

// Lookup returns the cached mapping for a search-normalized answer.
func (m *Mapper) Lookup(key string) (types.AnswerMapping, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Put stores a resolution under its search-normalized answer key.
func (m *Mapper) Put(key string, e types.AnswerMapping) {
	m.entries[key] = e
}

// Len reports the number of cached resolutions.
func (m *Mapper) Len() int {
	return len(m.entries)
}

// Save writes the cache back to its file. A no-op without a path.
func (m *Mapper) Save() error {
	if m.path == "" {
		return nil
	}

	data, err := yaml.Marshal(m.entries)
	if err != nil {
		return fmt.Errorf("marshaling answer cache: %w", err)
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing answer cache %s: %w", m.path, err)
	}
	return nil
}
