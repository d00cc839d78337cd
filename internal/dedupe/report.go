// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citetrack/pkg/types"
)

// Summary holds the aggregate counts for a dedupe run.
type Summary struct {
	Timestamp         time.Time      `json:"timestamp" yaml:"timestamp"`
	TotalCandidates   int            `json:"total_candidates" yaml:"total_candidates"`
	ReferenceRecords  int            `json:"reference_records" yaml:"reference_records"`
	NewUnique         int            `json:"new_unique" yaml:"new_unique"`
	DefiniteMatches   int            `json:"definite_matches" yaml:"definite_matches"`
	VeryLikelyMatches int            `json:"very_likely_matches" yaml:"very_likely_matches"`
	ProbableMatches   int            `json:"probable_matches" yaml:"probable_matches"`
	PossibleMatches   int            `json:"possible_matches" yaml:"possible_matches"`
	MatchTypes        map[string]int `json:"match_type_distribution" yaml:"match_type_distribution"`
}

// PercentNew returns the share of candidates that were new discoveries.
func (s Summary) PercentNew() float64 {
	if s.TotalCandidates == 0 {
		return 0
	}
	return float64(s.NewUnique) / float64(s.TotalCandidates) * 100
}

// Report partitions match results into the three downstream categories and
// carries the run summary. New discoveries are ordered by upstream
// relevance so the most promising articles surface first.
type Report struct {
	NewUnique           []types.MatchResult `json:"new_unique" yaml:"new_unique"`
	ReviewNeeded        []types.MatchResult `json:"review_needed" yaml:"review_needed"`
	ConfirmedDuplicates []types.MatchResult `json:"confirmed_duplicates" yaml:"confirmed_duplicates"`
	Summary             Summary             `json:"summary" yaml:"summary"`
}

// BuildReport partitions results by match status and computes the summary.
func BuildReport(results []types.MatchResult, referenceRecords int) Report {
	report := Report{
		Summary: Summary{
			Timestamp:        time.Now(),
			TotalCandidates:  len(results),
			ReferenceRecords: referenceRecords,
			MatchTypes:       make(map[string]int),
		},
	}

	for _, r := range results {
		switch r.MatchStatus {
		case types.NoMatch:
			report.Summary.NewUnique++
			report.NewUnique = append(report.NewUnique, r)
		case types.DefiniteMatch:
			report.Summary.DefiniteMatches++
			report.ConfirmedDuplicates = append(report.ConfirmedDuplicates, r)
		case types.VeryLikelyMatch:
			report.Summary.VeryLikelyMatches++
			report.ConfirmedDuplicates = append(report.ConfirmedDuplicates, r)
		case types.ProbableMatch:
			report.Summary.ProbableMatches++
			report.ReviewNeeded = append(report.ReviewNeeded, r)
		case types.PossibleMatch:
			report.Summary.PossibleMatches++
			report.ReviewNeeded = append(report.ReviewNeeded, r)
		}
		if r.MatchType != "" {
			report.Summary.MatchTypes[string(r.MatchType)]++
		}
	}

	sort.SliceStable(report.NewUnique, func(i, j int) bool {
		return report.NewUnique[i].RelevanceScore > report.NewUnique[j].RelevanceScore
	})

	return report
}

// FormatTable writes a human-readable run summary to w.
func FormatTable(report Report, w io.Writer) {
	s := report.Summary

	fmt.Fprintf(w, "Analyzed %d candidates against %d reference articles\n",
		s.TotalCandidates, s.ReferenceRecords)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "New unique discoveries: %d (%.1f%%)\n", s.NewUnique, s.PercentNew())
	fmt.Fprintf(w, "Definite matches:       %d\n", s.DefiniteMatches)
	fmt.Fprintf(w, "Very likely matches:    %d\n", s.VeryLikelyMatches)
	fmt.Fprintf(w, "Probable matches:       %d\n", s.ProbableMatches)
	fmt.Fprintf(w, "Possible matches:       %d\n", s.PossibleMatches)

	if len(s.MatchTypes) > 0 {
		fmt.Fprintln(w, "\nMatch type distribution:")
		matchTypes := make([]string, 0, len(s.MatchTypes))
		for mt := range s.MatchTypes {
			matchTypes = append(matchTypes, mt)
		}
		sort.Strings(matchTypes)
		for _, mt := range matchTypes {
			fmt.Fprintf(w, "  %-18s %d\n", mt, s.MatchTypes[mt])
		}
	}

	if len(report.NewUnique) > 0 {
		fmt.Fprintln(w, "\nTop new discoveries:")
		top := report.NewUnique
		if len(top) > 10 {
			top = top[:10]
		}
		for _, r := range top {
			title := r.SearchTitle
			if len(title) > 70 {
				title = title[:67] + "..."
			}
			fmt.Fprintf(w, "  [%.1f] %s (%s)\n", r.RelevanceScore, title, r.SearchYear)
		}
	}
}

// FormatJSON writes the full report as indented JSON to w.
func FormatJSON(report Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// FormatYAML writes the full report as YAML to w.
func FormatYAML(report Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(report)
}

// resultColumns is the CSV header for match result tables.
var resultColumns = []string{
	"search_idx", "search_eid", "search_doi", "search_title",
	"search_authors", "search_year", "match_status", "match_confidence",
	"match_type", "reference_idx", "reference_title", "reference_doi",
	"match_details",
}

// WriteResultsCSV writes match results as a CSV table to w.
func WriteResultsCSV(results []types.MatchResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		refIdx := ""
		if r.ReferenceIdx >= 0 {
			refIdx = strconv.Itoa(r.ReferenceIdx)
		}
		row := []string{
			strconv.Itoa(r.SearchIdx), r.SearchEID, r.SearchDOI,
			r.SearchTitle, r.SearchAuthors, r.SearchYear,
			string(r.MatchStatus),
			strconv.FormatFloat(r.MatchConfidence, 'f', 2, 64),
			string(r.MatchType), refIdx, r.ReferenceTitle, r.ReferenceDOI,
			r.MatchDetails,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCategoryFiles writes the report's non-empty categories as
// timestamped CSVs plus a YAML summary into outputDir, returning the
// paths written.
func WriteCategoryFiles(report Report, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	stamp := report.Summary.Timestamp.Format("20060102_150405")

	var written []string
	categories := []struct {
		name    string
		results []types.MatchResult
	}{
		{"new_unique", report.NewUnique},
		{"review_needed", report.ReviewNeeded},
		{"confirmed_duplicates", report.ConfirmedDuplicates},
	}

	for _, cat := range categories {
		if len(cat.results) == 0 {
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", cat.name, stamp))
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", path, err)
		}
		err = WriteResultsCSV(cat.results, f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	summaryPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.yaml", stamp))
	data, err := yaml.Marshal(report.Summary)
	if err != nil {
		return written, fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(summaryPath, data, 0o644); err != nil {
		return written, fmt.Errorf("writing summary: %w", err)
	}
	written = append(written, summaryPath)

	return written, nil
}
