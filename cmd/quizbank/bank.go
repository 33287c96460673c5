// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quizbank/internal/bank"
	"github.com/pdiddy/quizbank/pkg/types"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank (store, retrieve, stats, export)",
	Long: `Bank manages a local SQLite question bank built from converted packet
files. Use subcommands to index questions, query them, inspect counts,
or export.`,
}

// --- store subcommand ---

var bankStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest converted packet files into the question bank",
	Long: `Store reads converted packet files (.json or .jsonl) from the output
directory, ingests them into a SQLite database with FTS5 indexing, and
writes an export file. Unchanged packets are skipped on subsequent runs.`,
	RunE: runBankStore,
}

func runBankStore(cmd *cobra.Command, args []string) error {
	cfg, outputDir := bankConfig(cmd)

	store, err := bank.NewStore(cfg, outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d packet(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var bankRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the question bank with full-text search and filters",
	Long: `Retrieve searches the question bank using FTS5 full-text search over
question text and answers, structured filters (category, packet, fold),
or a combination of both.`,
	RunE: runBankRetrieve,
}

func runBankRetrieve(cmd *cobra.Command, args []string) error {
	cfg, outputDir := bankConfig(cmd)
	store, err := bank.NewStore(cfg, outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --category, --packet, or --fold")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []types.QuestionRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-30s  %-22s  %s\n",
		"Rank", "Question ID", "Answer", "Category", "Packet")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, r := range results {
		ans := r.Answer
		if len(ans) > 30 {
			ans = ans[:27] + "..."
		}
		cat := r.Category
		if len(cat) > 22 {
			cat = cat[:19] + "..."
		}
		qid := r.ID
		if len(qid) > 24 {
			qid = qid[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-30s  %-22s  %s\n",
			i+1, qid, ans, cat, r.Packet)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- stats subcommand ---

var bankStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question bank counts and breakdowns",
	RunE:  runBankStats,
}

func runBankStats(cmd *cobra.Command, args []string) error {
	cfg, outputDir := bankConfig(cmd)
	store, err := bank.NewStore(cfg, outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.CollectStats(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("questions:     %d\n", stats.Questions)
	fmt.Printf("packets:       %d\n", stats.Packets)
	fmt.Printf("needs review:  %d\n", stats.NeedsReview)

	fmt.Println("\ncategories:")
	for _, c := range stats.Categories {
		fmt.Printf("  %-24s %d\n", c.Category, c.Count)
	}
	fmt.Println("\nfolds:")
	for _, f := range stats.Folds {
		fmt.Printf("  %-24s %d\n", f.Category, f.Count)
	}
	return nil
}

// --- export subcommand ---

var bankExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the question bank to YAML or JSON",
	Long: `Export writes the full question bank (or a filtered subset) to
bank-dir/index/export.yaml or export.json. Supports the same filter
flags as retrieve for partial exports.`,
	RunE: runBankExport,
}

func runBankExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, outputDir := bankConfig(cmd)
	store, err := bank.NewStore(cfg, outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", cfg.BankDir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", cfg.BankDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func bankConfig(cmd *cobra.Command) (types.BankConfig, string) {
	bankDir, _ := cmd.Flags().GetString("bank-dir")
	if bankDir == "" {
		bankDir = "data/bank"
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = "data/output"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	cfg := types.BankConfig{
		BankDir:    bankDir,
		MaxResults: maxResults,
	}
	return cfg, outputDir
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) bank.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	category, _ := cmd.Flags().GetString("category")
	packet, _ := cmd.Flags().GetString("packet")
	fold, _ := cmd.Flags().GetString("fold")
	limit, _ := cmd.Flags().GetInt("limit")

	return bank.QueryOptions{
		Query:      queryText,
		Category:   category,
		Packet:     packet,
		Fold:       fold,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	bankCmd.PersistentFlags().String("bank-dir", "data/bank", "base directory for the question bank (contains index/)")
	bankCmd.PersistentFlags().String("output-dir", "data/output", "directory containing converted packet files")
	bankCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	bankRetrieveCmd.Flags().String("query", "", "full-text search query")
	bankRetrieveCmd.Flags().String("category", "", "filter by category, e.g. Science:Chemistry")
	bankRetrieveCmd.Flags().String("packet", "", "filter by packet id")
	bankRetrieveCmd.Flags().String("fold", "", "filter by dataset fold")
	bankRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	bankRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Stats flags.
	bankStatsCmd.Flags().Bool("json", false, "output stats as JSON")

	// Export flags.
	bankExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	bankExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	bankExportCmd.Flags().String("category", "", "filter by category for partial export")
	bankExportCmd.Flags().String("packet", "", "filter by packet id for partial export")
	bankExportCmd.Flags().String("fold", "", "filter by fold for partial export")
	bankExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	// Wire subcommands.
	bankCmd.AddCommand(bankStoreCmd)
	bankCmd.AddCommand(bankRetrieveCmd)
	bankCmd.AddCommand(bankStatsCmd)
	bankCmd.AddCommand(bankExportCmd)

	rootCmd.AddCommand(bankCmd)
}
