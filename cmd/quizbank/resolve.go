// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quizbank/internal/answer"
	"github.com/pdiddy/quizbank/internal/convert"
	"github.com/pdiddy/quizbank/internal/wiki"
	"github.com/pdiddy/quizbank/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [answer]",
	Short: "Resolve answers to Wikipedia article titles",
	Long: `Resolve runs an answer string through the cleanup pipeline and the
resolution chain: local article store, answer cache, then the Wikipedia
search API. Results are written to the answer cache for later runs.

With --csv, every distinct answer in a converted dataset file is
resolved instead, which warms the cache for a whole batch at once.`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	csvPath, _ := cmd.Flags().GetString("csv")
	if csvPath == "" && len(args) == 0 {
		return fmt.Errorf("an answer argument or --csv is required")
	}

	resolver, err := resolverFromFlags(cmd)
	if err != nil {
		return err
	}

	if csvPath != "" {
		err = resolveCSV(resolver, csvPath)
	} else {
		err = resolveOne(cmd, resolver, strings.Join(args, " "))
	}

	if saveErr := resolver.Cache().Save(); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: saving answer cache: %v\n", saveErr)
	}
	return err
}

func resolveOne(cmd *cobra.Command, resolver *wiki.Resolver, raw string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cleaned := answer.Clean(raw)
	if cleaned == "" {
		return fmt.Errorf("answer %q is empty after cleanup", raw)
	}

	mapping := resolver.Resolve(context.Background(), cleaned, raw, os.Stderr)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(mapping)
	}

	page := mapping.WikipediaPage
	if page == "" {
		page = "(unresolved)"
	}
	fmt.Printf("%s -> %s (source: %s, category: %s)\n",
		cleaned, page, mapping.Source, mapping.Category)
	return nil
}

// resolveCSV resolves every distinct answer in a converted dataset
// file. Review sentinels are skipped; they have nothing to look up.
func resolveCSV(resolver *wiki.Resolver, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}
	if !slices.Equal(header, convert.CSVHeader) {
		return fmt.Errorf("%s: header mismatch: got %v", path, header)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("reading rows of %s: %w", path, err)
	}

	seen := make(map[string]bool)
	ctx := context.Background()
	var resolved, unresolved int

	for _, row := range rows {
		ans := row[2]
		if ans == "" || ans == types.ReviewSentinel || seen[ans] {
			continue
		}
		seen[ans] = true

		mapping := resolver.Resolve(ctx, ans, ans, os.Stderr)
		if mapping.WikipediaPage == "" {
			fmt.Printf("unresolved  %s\n", ans)
			unresolved++
			continue
		}
		fmt.Printf("%-11s %s -> %s\n", mapping.Source, ans, mapping.WikipediaPage)
		resolved++
	}

	fmt.Printf("\nresolved: %d, unresolved: %d\n", resolved, unresolved)
	return nil
}

func init() {
	addResolverFlags(resolveCmd)
	resolveCmd.Flags().String("csv", "", "resolve every answer in a converted CSV file")
	resolveCmd.Flags().Bool("json", false, "output the mapping as JSON")

	rootCmd.AddCommand(resolveCmd)
}
