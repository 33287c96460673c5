// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quizbank/internal/convert"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge per-packet CSV files into one dataset",
	Long: `Merge concatenates per-packet CSV files into a single dataset file with
one header row. Files whose header does not match the expected schema
are skipped with a warning. With no arguments, every .csv in the output
directory is merged.`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	outPath, _ := cmd.Flags().GetString("output")

	inputs := args
	if len(inputs) == 0 {
		var err error
		inputs, err = csvInputs(outputDir, outPath)
		if err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no CSV files to merge in %s", outputDir)
	}

	result, err := convert.MergeCSV(inputs, outPath, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("merged %d file(s), %d row(s) into %s", result.Files, result.Rows, outPath)
	if result.Skipped > 0 {
		fmt.Printf(" (%d skipped)", result.Skipped)
	}
	fmt.Println()
	return nil
}

// csvInputs lists the .csv files in dir, excluding the merge target
// itself so repeated merges do not fold the dataset into itself.
func csvInputs(dir, outPath string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}

	absOut, _ := filepath.Abs(outPath)

	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, _ := filepath.Abs(path); abs == absOut {
			continue
		}
		inputs = append(inputs, path)
	}
	return inputs, nil
}

func init() {
	mergeCmd.Flags().String("output-dir", "data/output", "directory containing per-packet CSV files")
	mergeCmd.Flags().String("output", "data/output/dataset.csv", "merged dataset path")

	rootCmd.AddCommand(mergeCmd)
}
