// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the reference corpus and candidate batches from
// CSV tables and persists them, along with dedupe run history, in a
// SQLite store.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/citetrack/internal/normalize"
	"github.com/pdiddy/citetrack/pkg/types"
)

// Reference corpus column names. All five must be present; extra columns
// are ignored.
var referenceColumns = []string{
	"Title", "DOI_URL", "Authors_Standardized", "Publication_Year", "Journal_Venue",
}

// Candidate batch column names. relevance_score is optional.
var candidateColumns = []string{
	"eid", "doi", "title", "authors", "year", "journal",
}

// LoadReferences reads the reference corpus from a CSV file. A missing
// required column is a fatal initialization error naming the column, so
// matching never starts against a partially usable corpus. Blank or
// malformed years load as 0 (unknown).
func LoadReferences(path string) ([]types.ReferenceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference corpus: %w", err)
	}
	defer f.Close()

	header, rows, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading reference corpus %s: %w", path, err)
	}

	cols, err := columnIndices(header, referenceColumns)
	if err != nil {
		return nil, fmt.Errorf("reference corpus %s: %w", path, err)
	}

	records := make([]types.ReferenceRecord, 0, len(rows))
	for _, row := range rows {
		rec := types.ReferenceRecord{
			Title:   field(row, cols["Title"]),
			DOIURL:  field(row, cols["DOI_URL"]),
			Authors: field(row, cols["Authors_Standardized"]),
			Journal: field(row, cols["Journal_Venue"]),
		}
		if y, ok := normalize.YearInt(field(row, cols["Publication_Year"])); ok {
			rec.Year = y
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadCandidates reads a candidate batch from a CSV file. The optional
// relevance_score column is parsed leniently; unparseable scores load
// as 0.
func LoadCandidates(path string) ([]types.CandidateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candidate batch: %w", err)
	}
	defer f.Close()

	header, rows, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading candidate batch %s: %w", path, err)
	}

	cols, err := columnIndices(header, candidateColumns)
	if err != nil {
		return nil, fmt.Errorf("candidate batch %s: %w", path, err)
	}
	scoreCol := indexOf(header, "relevance_score")

	candidates := make([]types.CandidateRecord, 0, len(rows))
	for _, row := range rows {
		c := types.CandidateRecord{
			EID:     field(row, cols["eid"]),
			DOI:     field(row, cols["doi"]),
			Title:   field(row, cols["title"]),
			Authors: field(row, cols["authors"]),
			Year:    field(row, cols["year"]),
			Journal: field(row, cols["journal"]),
		}
		if scoreCol >= 0 {
			if v, err := strconv.ParseFloat(field(row, scoreCol), 64); err == nil {
				c.RelevanceScore = v
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// readTable reads the CSV header and all data rows. A UTF-8 BOM on the
// first header cell is stripped; spreadsheet exports commonly carry one.
func readTable(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading rows: %w", err)
	}
	return header, rows, nil
}

// columnIndices maps each required column name to its header position,
// returning an error listing every missing column.
func columnIndices(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i := indexOf(header, name)
		if i < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// field returns the trimmed cell at position i, tolerating short rows.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
