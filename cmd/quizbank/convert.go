// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quizbank/internal/convert"
	"github.com/pdiddy/quizbank/internal/segment"
	"github.com/pdiddy/quizbank/internal/wiki"
	"github.com/pdiddy/quizbank/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [packets...]",
	Short: "Convert .docx packet files into question records",
	Long: `Convert reads tournament packet documents, segments them into question
units, splits each unit into sentences, extracts and cleans the answer,
and infers a category. Output is one file per packet in CSV, JSON, or
JSONL format.

With --resolve, each cleaned answer is also mapped to a Wikipedia
article title using the local article store, the answer cache, and the
Wikipedia search API, in that order.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	packetsDir, _ := cmd.Flags().GetString("packets-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	format, _ := cmd.Flags().GetString("format")
	tournament, _ := cmd.Flags().GetString("tournament")
	fold, _ := cmd.Flags().GetString("fold")
	skipExisting, _ := cmd.Flags().GetBool("skip-existing")
	doResolve, _ := cmd.Flags().GetBool("resolve")

	if _, err := writerForFormat(format); err != nil {
		return err
	}

	files, err := packetFiles(packetsDir, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .docx packets found in %s", packetsDir)
	}

	var resolver *wiki.Resolver
	if doResolve {
		resolver, err = resolverFromFlags(cmd)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	var failed int

	for _, file := range files {
		packet := packetID(file, tournament)
		outPath := filepath.Join(outputDir, packet+formatExt(format))

		if skipExisting {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Printf("skipped %s (output exists)\n", packet)
				continue
			}
		}

		units, err := segment.ReadUnits(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", file, err)
			failed++
			continue
		}

		// ConvertBatch handles per-unit failures itself; convertResolver
		// is nil unless --resolve was given.
		var convertResolver convert.Resolver
		if resolver != nil {
			convertResolver = resolver
		}
		records, _ := convert.ConvertBatch(ctx, units, packet, convertResolver, os.Stdout)

		if fold != "" {
			for i := range records {
				records[i].Fold = fold
			}
		}

		write, _ := writerForFormat(format)
		if err := write(records, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed++
		}
	}

	if resolver != nil {
		if err := resolver.Cache().Save(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saving answer cache: %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d packet(s) failed conversion", failed)
	}
	return nil
}

// packetFiles returns the .docx files to convert: explicit arguments
// when given, otherwise every .docx in packetsDir.
func packetFiles(packetsDir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	entries, err := os.ReadDir(packetsDir)
	if err != nil {
		return nil, fmt.Errorf("reading packets directory %s: %w", packetsDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".docx") {
			continue
		}
		files = append(files, filepath.Join(packetsDir, entry.Name()))
	}
	return files, nil
}

// packetID derives the packet identifier from a file path, with an
// optional tournament prefix. Spaces become underscores so the id is
// safe in filenames and question ids.
func packetID(path, tournament string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.ReplaceAll(stem, " ", "_")
	if tournament != "" {
		return tournament + "_" + stem
	}
	return stem
}

func formatExt(format string) string {
	switch format {
	case "json":
		return ".json"
	case "jsonl":
		return ".jsonl"
	default:
		return ".csv"
	}
}

func writerForFormat(format string) (func([]types.QuestionRecord, string) error, error) {
	switch format {
	case "csv", "":
		return convert.WriteCSV, nil
	case "json":
		return convert.WriteJSON, nil
	case "jsonl":
		return convert.WriteJSONL, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use csv, json, or jsonl", format)
	}
}

// resolverFromFlags builds the Wikipedia resolver shared by the convert
// and resolve commands.
func resolverFromFlags(cmd *cobra.Command) (*wiki.Resolver, error) {
	cacheFile, _ := cmd.Flags().GetString("cache-file")
	wikiDir, _ := cmd.Flags().GetString("wiki-dir")
	fetchArticles, _ := cmd.Flags().GetBool("fetch-articles")
	contactEmail, _ := cmd.Flags().GetString("contact-email")

	userAgent := "quizbank/" + version
	if contact := secretDefault("wikipedia-contact-email", contactEmail); contact != "" {
		userAgent += " (contact: " + contact + ")"
	}

	cfg := types.ResolverConfig{
		HTTPConfig:    types.HTTPConfig{UserAgent: userAgent},
		CacheFile:     cacheFile,
		WikiDir:       wikiDir,
		FetchArticles: fetchArticles,
	}

	cache, err := wiki.NewMapper(cacheFile)
	if err != nil {
		return nil, err
	}
	client := wiki.NewClient(cfg.HTTPConfig)
	return wiki.NewResolver(cfg, cache, client), nil
}

func addResolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache-file", "data/cache/answers.yaml", "answer cache file")
	cmd.Flags().String("wiki-dir", "data/wiki", "local Wikipedia article store")
	cmd.Flags().Bool("fetch-articles", false, "download and store resolved article text")
	cmd.Flags().String("contact-email", "", "contact email for the Wikipedia API User-Agent (default: wikipedia-contact-email secret)")
}

func init() {
	convertCmd.Flags().String("packets-dir", "packets", "directory containing source .docx packets")
	convertCmd.Flags().String("output-dir", "data/output", "directory for converted output files")
	convertCmd.Flags().String("format", "csv", "output format: csv, json, or jsonl")
	convertCmd.Flags().String("tournament", "", "tournament prefix for packet ids (e.g. 2025_PACE)")
	convertCmd.Flags().String("fold", "", "dataset fold to assign (default: test)")
	convertCmd.Flags().Bool("skip-existing", false, "skip packets whose output file already exists")
	convertCmd.Flags().Bool("resolve", false, "resolve answers to Wikipedia article titles")
	addResolverFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
