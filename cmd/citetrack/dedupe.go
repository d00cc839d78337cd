// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citetrack/internal/corpus"
	"github.com/pdiddy/citetrack/internal/dedupe"
	"github.com/pdiddy/citetrack/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Match a candidate batch against the reference corpus",
	Long: `Dedupe loads the reference corpus (from a CSV file or the corpus
store), matches every candidate in the batch through the tiered pipeline,
and writes categorized CSVs plus a summary to the output directory.

When --db points at a corpus store, the run and its results are also
recorded there for later review.`,
	RunE: runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	candidatesPath, _ := cmd.Flags().GetString("candidates")
	referencePath, _ := cmd.Flags().GetString("reference")
	dbDir, _ := cmd.Flags().GetString("db")

	if candidatesPath == "" {
		return fmt.Errorf("candidate batch required: provide --candidates")
	}
	if referencePath == "" && dbDir == "" {
		return fmt.Errorf("reference corpus required: provide --reference or --db")
	}

	ctx := context.Background()

	var store *corpus.Store
	if dbDir != "" {
		var err error
		store, err = corpus.NewStore(types.CorpusConfig{CorpusDir: dbDir})
		if err != nil {
			return err
		}
		defer store.Close()
	}

	// CSV wins when both sources are given; the store still records the run.
	var references []types.ReferenceRecord
	var err error
	if referencePath != "" {
		references, err = corpus.LoadReferences(referencePath)
	} else {
		references, err = store.References(ctx)
	}
	if err != nil {
		return err
	}
	if len(references) == 0 {
		return fmt.Errorf("reference corpus is empty")
	}

	candidates, err := corpus.LoadCandidates(candidatesPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d candidates against %d reference articles...\n",
		len(candidates), len(references))

	matcher := dedupe.NewMatcher(dedupe.NewReferenceIndex(references), matchConfigFromFlags(cmd))
	results := matcher.MatchBatch(candidates)
	report := dedupe.BuildReport(results, len(references))

	outputDir, _ := cmd.Flags().GetString("out")
	if outputDir != "" {
		written, err := dedupe.WriteCategoryFiles(report, outputDir)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		}
	}

	if runFile, _ := cmd.Flags().GetString("run-file"); runFile != "" {
		if err := dedupe.WriteRunFile(runFile, matchConfigFromFlags(cmd), results, report.Summary); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", runFile)
	}

	if store != nil {
		runID, err := store.SaveRun(ctx, report.Summary, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "recorded run %d\n", runID)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	switch {
	case jsonOutput:
		return dedupe.FormatJSON(report, os.Stdout)
	case yamlOutput:
		return dedupe.FormatYAML(report, os.Stdout)
	default:
		dedupe.FormatTable(report, os.Stdout)
	}
	return nil
}

// matchConfigFromFlags builds a MatchConfig from flags, falling back to
// config-file values and then the built-in defaults.
func matchConfigFromFlags(cmd *cobra.Command) types.MatchConfig {
	cfg := types.MatchConfig{
		DOIConfidence:        viper.GetFloat64("match.doi_confidence"),
		TitleYearConfidence:  viper.GetFloat64("match.title_year_confidence"),
		FuzzyThreshold:       viper.GetFloat64("match.fuzzy_threshold"),
		VeryLikelyThreshold:  viper.GetFloat64("match.very_likely_threshold"),
		ProbableThreshold:    viper.GetFloat64("match.probable_threshold"),
		AuthorYearConfidence: viper.GetFloat64("match.author_year_confidence"),
		JournalBonus:         viper.GetFloat64("match.journal_bonus"),
		MaxYearGap:           viper.GetInt("match.max_year_gap"),
	}

	if cmd.Flags().Changed("fuzzy-threshold") {
		cfg.FuzzyThreshold, _ = cmd.Flags().GetFloat64("fuzzy-threshold")
	}
	if cmd.Flags().Changed("max-year-gap") {
		cfg.MaxYearGap, _ = cmd.Flags().GetInt("max-year-gap")
	}
	cfg.Workers, _ = cmd.Flags().GetInt("workers")

	return cfg
}

func init() {
	dedupeCmd.Flags().String("candidates", "", "candidate batch CSV (required)")
	dedupeCmd.Flags().String("reference", "", "reference corpus CSV")
	dedupeCmd.Flags().String("db", "", "corpus store directory (alternative reference source; also records the run)")
	dedupeCmd.Flags().String("out", "results", "output directory for categorized CSVs and summary")
	dedupeCmd.Flags().String("run-file", "", "save the full run (config, results, summary) as YAML")
	dedupeCmd.Flags().Float64("fuzzy-threshold", 70, "minimum fuzzy title similarity to count as a match")
	dedupeCmd.Flags().Int("max-year-gap", 1, "largest year difference allowed for fuzzy title comparison")
	dedupeCmd.Flags().Int("workers", 0, "concurrent matching workers (0 = number of CPUs)")
	dedupeCmd.Flags().Bool("json", false, "print the full report as JSON")
	dedupeCmd.Flags().Bool("yaml", false, "print the full report as YAML")

	rootCmd.AddCommand(dedupeCmd)
}
