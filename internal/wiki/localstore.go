// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The local reference store is a flat directory of <title>.txt files,
// append-only: articles are written once on fetch and never modified.

var punctPattern = regexp.MustCompile(`[^A-Za-z0-9 _-]`)

var titleCaser = cases.Title(language.English)

// FindLocal looks for an article file matching the answer in the store
// directory. Several filename variants are tried (verbatim, underscored,
// title-cased, punctuation-stripped) against the directory's .txt files,
// case-insensitively. A missing directory means no match, not an error.
// The match is returned as the file's base name without extension.
func FindLocal(dir, answer string) (string, bool) {
	if dir == "" || strings.TrimSpace(answer) == "" {
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	byLower := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		byLower[strings.ToLower(e.Name())] = e.Name()
	}

	for _, name := range nameVariants(answer) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if orig, ok := byLower[key+".txt"]; ok {
			return strings.TrimSuffix(orig, filepath.Ext(orig)), true
		}
	}
	return "", false
}

// nameVariants lists the filename stems an answer may be stored under.
func nameVariants(answer string) []string {
	simple := punctPattern.ReplaceAllString(answer, "")
	return []string{
		answer,
		strings.ReplaceAll(answer, " ", "_"),
		titleCaser.String(answer),
		strings.ReplaceAll(answer, " & ", " and "),
		simple,
		strings.ReplaceAll(simple, " ", "_"),
	}
}

// SafeTitle turns an article title into a filesystem-safe filename stem.
func SafeTitle(title string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(title)
}

// SaveArticle writes article text to the store under a safe filename,
// creating the directory if needed.
func SaveArticle(dir, title, text string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating article store: %w", err)
	}
	path := filepath.Join(dir, SafeTitle(title)+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing article %s: %w", path, err)
	}
	return nil
}
