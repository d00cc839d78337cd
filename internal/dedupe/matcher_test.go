// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"reflect"
	"testing"

	"github.com/pdiddy/citetrack/pkg/types"
)

// testCorpus returns a small reference corpus exercising all tiers.
func testCorpus() []types.ReferenceRecord {
	return []types.ReferenceRecord{
		{
			Title:   "Consolidation and Mergers among Health Systems in 2021",
			DOIURL:  "https://doi.org/10.1377/x",
			Authors: "Furukawa M.",
			Year:    2021,
			Journal: "Health Affairs",
		},
		{
			Title:   "Hospital Prices and Private Insurance Markets",
			DOIURL:  "10.1016/j.jhealeco.2020.10101",
			Authors: "Cooper Z; Craig S",
			Year:    2020,
			Journal: "Journal of Health Economics",
		},
		{
			Title:   "Physician Practice Acquisition Trends",
			DOIURL:  "",
			Authors: "Machta RM; Reschovsky J",
			Year:    2019,
			Journal: "Medical Care Research and Review",
		},
	}
}

func testMatcher() *Matcher {
	return NewMatcher(NewReferenceIndex(testCorpus()), types.MatchConfig{Workers: 1})
}

func TestMatchDOITierShortCircuits(t *testing.T) {
	m := testMatcher()

	// A wildly different title must not prevent a DOI match.
	result := m.Match(0, types.CandidateRecord{
		EID:   "2-s2.0-1",
		DOI:   "10.1377/x",
		Title: "A Completely Unrelated Title About Fish Migration",
		Year:  "1999",
	})

	if result.MatchStatus != types.DefiniteMatch {
		t.Errorf("MatchStatus = %q, want definite_match", result.MatchStatus)
	}
	if result.MatchType != types.MatchDOI {
		t.Errorf("MatchType = %q, want doi", result.MatchType)
	}
	if result.ReferenceIdx != 0 {
		t.Errorf("ReferenceIdx = %d, want 0", result.ReferenceIdx)
	}
	if result.MatchConfidence != 95 {
		t.Errorf("MatchConfidence = %f, want 95", result.MatchConfidence)
	}
}

func TestMatchDOIFormatInsensitive(t *testing.T) {
	m := testMatcher()

	// Reference stores a resolver URL; candidate has a bare DOI.
	result := m.Match(0, types.CandidateRecord{DOI: "DOI: 10.1377/x"})
	if result.MatchType != types.MatchDOI {
		t.Errorf("MatchType = %q, want doi", result.MatchType)
	}
}

func TestMatchTitleYearExact(t *testing.T) {
	m := testMatcher()

	result := m.Match(0, types.CandidateRecord{
		Title:   "Consolidation and Mergers among Health Systems in 2021",
		Year:    "2021",
		Authors: "Furukawa, Michael",
	})

	if result.MatchStatus != types.VeryLikelyMatch {
		t.Errorf("MatchStatus = %q, want very_likely_match", result.MatchStatus)
	}
	if result.MatchType != types.MatchTitleYearExact {
		t.Errorf("MatchType = %q, want title_year_exact", result.MatchType)
	}
	if result.MatchConfidence != 90 {
		t.Errorf("MatchConfidence = %f, want 90", result.MatchConfidence)
	}
	if result.ReferenceIdx != 0 {
		t.Errorf("ReferenceIdx = %d, want 0", result.ReferenceIdx)
	}
}

func TestMatchTitleYearNormalizesFormatting(t *testing.T) {
	m := testMatcher()

	// Same title with different case, punctuation, and a float year.
	result := m.Match(0, types.CandidateRecord{
		Title: "consolidation & mergers among health systems in 2021!",
		Year:  "2021.0",
	})
	if result.MatchType != types.MatchTitleYearExact {
		t.Errorf("MatchType = %q, want title_year_exact", result.MatchType)
	}
}

func TestMatchTitleFuzzy(t *testing.T) {
	m := testMatcher()

	// Close but not identical title, one year off.
	result := m.Match(0, types.CandidateRecord{
		Title: "Consolidation and Mergers among US Health Systems in 2021",
		Year:  "2022",
	})

	if result.MatchType != types.MatchTitleFuzzy {
		t.Fatalf("MatchType = %q, want title_fuzzy", result.MatchType)
	}
	if result.MatchConfidence < 70 || result.MatchConfidence > 100 {
		t.Errorf("MatchConfidence = %f, out of expected range", result.MatchConfidence)
	}
	if result.MatchStatus == types.NoMatch {
		t.Errorf("MatchStatus = no_match, want a fuzzy match status")
	}
}

func TestMatchUnrelatedTitleNoMatch(t *testing.T) {
	m := testMatcher()

	result := m.Match(0, types.CandidateRecord{
		Title:   "A totally unrelated paper about diabetes",
		Year:    "2021",
		Authors: "Smith, J.",
	})

	if result.MatchStatus != types.NoMatch {
		t.Errorf("MatchStatus = %q, want no_match", result.MatchStatus)
	}
	if result.MatchType != "" {
		t.Errorf("MatchType = %q, want empty", result.MatchType)
	}
	if result.MatchConfidence != 0 {
		t.Errorf("MatchConfidence = %f, want 0", result.MatchConfidence)
	}
	if result.ReferenceIdx != -1 {
		t.Errorf("ReferenceIdx = %d, want -1", result.ReferenceIdx)
	}
}

func TestMatchFuzzySkipsDistantYears(t *testing.T) {
	m := NewMatcher(NewReferenceIndex([]types.ReferenceRecord{
		{
			Title: "Consolidation and Mergers among Health Systems in 2021",
			Year:  2021,
		},
	}), types.MatchConfig{Workers: 1})

	// Identical title but four years apart: the fuzzy tier must not
	// score it, so the result falls through (no author data either).
	result := m.Match(0, types.CandidateRecord{
		Title: "Consolidation and Mergers among Health Systems in 2021",
		Year:  "2025",
	})

	if result.MatchType == types.MatchTitleFuzzy {
		t.Errorf("fuzzy tier matched across a 4-year gap: %+v", result)
	}
	if result.MatchStatus != types.NoMatch {
		t.Errorf("MatchStatus = %q, want no_match", result.MatchStatus)
	}
}

func TestMatchFuzzySkipsUnparseableYears(t *testing.T) {
	m := testMatcher()

	// A year that cannot be compared excludes references from fuzzy
	// scoring; with no exact key either, this candidate falls through.
	result := m.Match(0, types.CandidateRecord{
		Title: "Consolidation and Mergers among US Health Systems",
		Year:  "n.d.",
	})
	if result.MatchType == types.MatchTitleFuzzy {
		t.Errorf("fuzzy tier matched with unparseable year: %+v", result)
	}
}

func TestMatchAuthorYear(t *testing.T) {
	m := testMatcher()

	result := m.Match(0, types.CandidateRecord{
		Title:   "Early Evidence on Practice Consolidation Patterns",
		Authors: "Furukawa, Michael",
		Year:    "2021",
	})

	if result.MatchStatus != types.PossibleMatch {
		t.Fatalf("MatchStatus = %q, want possible_match", result.MatchStatus)
	}
	if result.MatchType != types.MatchAuthorYear {
		t.Errorf("MatchType = %q, want author_year", result.MatchType)
	}
	if result.MatchConfidence != 60 {
		t.Errorf("MatchConfidence = %f, want base 60", result.MatchConfidence)
	}
}

func TestMatchAuthorYearJournalBonus(t *testing.T) {
	m := testMatcher()

	result := m.Match(0, types.CandidateRecord{
		Title:   "Early Evidence on Practice Consolidation Patterns",
		Authors: "Furukawa, Michael",
		Year:    "2021",
		Journal: "health affairs",
	})

	if result.MatchType != types.MatchAuthorYear {
		t.Fatalf("MatchType = %q, want author_year", result.MatchType)
	}
	if result.MatchConfidence != 70 {
		t.Errorf("MatchConfidence = %f, want 60 + 10 journal bonus", result.MatchConfidence)
	}
}

func TestMatchEmptyCandidate(t *testing.T) {
	m := testMatcher()

	// All fields missing: every tier's predicate fails, no crash.
	result := m.Match(3, types.CandidateRecord{})
	if result.MatchStatus != types.NoMatch {
		t.Errorf("MatchStatus = %q, want no_match", result.MatchStatus)
	}
	if result.SearchIdx != 3 {
		t.Errorf("SearchIdx = %d, want 3", result.SearchIdx)
	}
}

func TestMatchBatchOrderIndependence(t *testing.T) {
	m := testMatcher()
	a := types.CandidateRecord{EID: "a", DOI: "10.1377/x", Title: "Paper A"}
	b := types.CandidateRecord{
		EID:   "b",
		Title: "Consolidation and Mergers among Health Systems in 2021",
		Year:  "2021",
	}

	ab := m.MatchBatch([]types.CandidateRecord{a, b})
	ba := m.MatchBatch([]types.CandidateRecord{b, a})

	// Compare per-candidate results ignoring batch position.
	ab[0].SearchIdx, ab[1].SearchIdx = 0, 0
	ba[0].SearchIdx, ba[1].SearchIdx = 0, 0

	if !reflect.DeepEqual(ab[0], ba[1]) {
		t.Errorf("result for A differs by batch order:\n%+v\n%+v", ab[0], ba[1])
	}
	if !reflect.DeepEqual(ab[1], ba[0]) {
		t.Errorf("result for B differs by batch order:\n%+v\n%+v", ab[1], ba[0])
	}
}

func TestMatchBatchConcurrent(t *testing.T) {
	corpus := testCorpus()
	serial := NewMatcher(NewReferenceIndex(corpus), types.MatchConfig{Workers: 1})
	parallel := NewMatcher(NewReferenceIndex(corpus), types.MatchConfig{Workers: 8})

	var candidates []types.CandidateRecord
	for i := 0; i < 50; i++ {
		candidates = append(candidates,
			types.CandidateRecord{EID: "doi", DOI: "10.1377/x"},
			types.CandidateRecord{EID: "fuzzy", Title: "Hospital Prices and Private Insurance", Year: "2020"},
			types.CandidateRecord{EID: "none", Title: "Unrelated Topic Entirely", Year: "2020"},
		)
	}

	want := serial.MatchBatch(candidates)
	got := parallel.MatchBatch(candidates)
	if !reflect.DeepEqual(want, got) {
		t.Error("concurrent batch results differ from serial results")
	}
}

func TestMatchBatchEmpty(t *testing.T) {
	m := testMatcher()
	results := m.MatchBatch(nil)
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestReferenceIndexDeterministicCollisions(t *testing.T) {
	// Two references sharing a title+year key: the lowest index wins.
	records := []types.ReferenceRecord{
		{Title: "Shared Title", Year: 2021, DOIURL: "10.1000/first"},
		{Title: "Shared Title", Year: 2021, DOIURL: "10.1000/second"},
	}
	m := NewMatcher(NewReferenceIndex(records), types.MatchConfig{Workers: 1})

	result := m.Match(0, types.CandidateRecord{Title: "Shared Title", Year: "2021"})
	if result.ReferenceIdx != 0 {
		t.Errorf("ReferenceIdx = %d, want 0 (lowest index)", result.ReferenceIdx)
	}
}
