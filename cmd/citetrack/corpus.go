// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citetrack/internal/corpus"
	"github.com/pdiddy/citetrack/internal/dedupe"
	"github.com/pdiddy/citetrack/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus store (import, stats, runs, export)",
	Long: `Corpus manages a local SQLite store holding the reference corpus and
the history of dedupe runs. Use subcommands to import a corpus CSV, show
store statistics, list recorded runs, or export a run's results.`,
}

// --- import subcommand ---

var corpusImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a reference corpus CSV into the store",
	Long: `Import reads a reference corpus CSV (columns Title, DOI_URL,
Authors_Standardized, Publication_Year, Journal_Venue) and replaces the
stored corpus with its records.`,
	RunE: runCorpusImport,
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	referencePath, _ := cmd.Flags().GetString("reference")
	if referencePath == "" {
		return fmt.Errorf("reference corpus CSV required: provide --reference")
	}

	records, err := corpus.LoadReferences(referencePath)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.ImportReferences(context.Background(), records)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d reference records\n", n)
	return nil
}

// --- stats subcommand ---

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus store statistics and recent runs",
	RunE:  runCorpusStats,
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	count, err := store.ReferenceCount(ctx)
	if err != nil {
		return err
	}
	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Reference records: %d\n", count)
	if len(runs) == 0 {
		fmt.Println("No dedupe runs recorded.")
		return nil
	}

	fmt.Printf("\n%-4s  %-20s  %-10s  %-5s  %-10s  %s\n",
		"Run", "Timestamp", "Candidates", "New", "Duplicates", "Review")
	for _, r := range runs {
		fmt.Printf("%-4d  %-20s  %-10d  %-5d  %-10d  %d\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.TotalCandidates,
			r.NewUnique, r.DefiniteMatches+r.VeryLikelyMatches,
			r.ProbableMatches+r.PossibleMatches)
	}
	return nil
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a recorded run's results as CSV or JSON",
	RunE:  runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	if runID <= 0 {
		return fmt.Errorf("run id required: provide --run")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.RunResults(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results recorded for run %d", runID)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv", "":
		return dedupe.WriteResultsCSV(results, os.Stdout)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	default:
		return fmt.Errorf("unsupported format %q: use csv or json", format)
	}
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*corpus.Store, error) {
	dbDir, _ := cmd.Flags().GetString("db")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return corpus.NewStore(types.CorpusConfig{CorpusDir: dbDir, MaxResults: maxResults})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	corpusCmd.PersistentFlags().String("db", "corpus", "corpus store directory (contains corpus.db)")
	corpusCmd.PersistentFlags().Int("max-results", 20, "maximum runs to list")

	corpusImportCmd.Flags().String("reference", "", "reference corpus CSV to import")

	corpusExportCmd.Flags().Int64("run", 0, "run id to export")
	corpusExportCmd.Flags().String("format", "csv", "export format: csv or json")

	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusStatsCmd)
	corpusCmd.AddCommand(corpusExportCmd)

	rootCmd.AddCommand(corpusCmd)
}
