// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReferences(t *testing.T) {
	path := writeCSV(t, "refs.csv",
		"Title,DOI_URL,Authors_Standardized,Publication_Year,Journal_Venue\n"+
			"Consolidation Trends,https://doi.org/10.1377/hlthaff.2021.0001,Furukawa M.,2021,Health Affairs\n"+
			"Hospital Prices,,Cooper Z; Craig S,2020.0,J Health Econ\n"+
			"Unknown Year Paper,,Smith J,n.d.,Some Journal\n")

	records, err := LoadReferences(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Consolidation Trends", records[0].Title)
	assert.Equal(t, "https://doi.org/10.1377/hlthaff.2021.0001", records[0].DOIURL)
	assert.Equal(t, 2021, records[0].Year)

	// Float-formatted years parse to their integer value.
	assert.Equal(t, 2020, records[1].Year)

	// Unparseable years load as 0.
	assert.Equal(t, 0, records[2].Year)
}

func TestLoadReferencesStripsBOM(t *testing.T) {
	path := writeCSV(t, "refs.csv",
		"\uFEFFTitle,DOI_URL,Authors_Standardized,Publication_Year,Journal_Venue\n"+
			"A Paper,,Smith J,2021,Journal\n")

	records, err := LoadReferences(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A Paper", records[0].Title)
}

func TestLoadReferencesMissingColumns(t *testing.T) {
	path := writeCSV(t, "refs.csv", "Title,Authors_Standardized\nA Paper,Smith J\n")

	_, err := LoadReferences(path)
	require.Error(t, err)
	// Every missing column is named, not just the first.
	assert.Contains(t, err.Error(), "DOI_URL")
	assert.Contains(t, err.Error(), "Publication_Year")
	assert.Contains(t, err.Error(), "Journal_Venue")
}

func TestLoadReferencesEmptyFile(t *testing.T) {
	path := writeCSV(t, "refs.csv", "")

	_, err := LoadReferences(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadReferencesMissingFile(t *testing.T) {
	_, err := LoadReferences(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestLoadCandidates(t *testing.T) {
	path := writeCSV(t, "candidates.csv",
		"eid,doi,title,authors,year,journal,relevance_score\n"+
			"2-s2.0-1,10.1377/x,Some Title,\"Furukawa, Michael\",2021,Health Affairs,7.5\n"+
			"2-s2.0-2,,Another Title,Cooper Z,2020,,bad\n")

	candidates, err := LoadCandidates(path)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "2-s2.0-1", candidates[0].EID)
	assert.Equal(t, "10.1377/x", candidates[0].DOI)
	assert.Equal(t, "Furukawa, Michael", candidates[0].Authors)
	assert.Equal(t, 7.5, candidates[0].RelevanceScore)

	// Unparseable scores load as 0.
	assert.Equal(t, 0.0, candidates[1].RelevanceScore)
}

func TestLoadCandidatesWithoutRelevance(t *testing.T) {
	path := writeCSV(t, "candidates.csv",
		"eid,doi,title,authors,year,journal\n"+
			"2-s2.0-1,,Some Title,Smith J,2021,Journal\n")

	candidates, err := LoadCandidates(path)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 0.0, candidates[0].RelevanceScore)
}

func TestLoadCandidatesShortRows(t *testing.T) {
	path := writeCSV(t, "candidates.csv",
		"eid,doi,title,authors,year,journal\n"+
			"2-s2.0-1,,Short Row\n")

	candidates, err := LoadCandidates(path)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Short Row", candidates[0].Title)
	assert.Empty(t, candidates[0].Year)
	assert.Empty(t, candidates[0].Journal)
}

func TestColumnIndicesIgnoresExtraColumns(t *testing.T) {
	header := []string{"extra", "eid", "doi", "title", "authors", "year", "journal", "notes"}

	cols, err := columnIndices(header, candidateColumns)
	require.NoError(t, err)
	assert.Equal(t, 1, cols["eid"])
	assert.Equal(t, 6, cols["journal"])
}
