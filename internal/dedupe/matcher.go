// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/citetrack/internal/normalize"
	"github.com/pdiddy/citetrack/internal/similarity"
	"github.com/pdiddy/citetrack/pkg/types"
)

// Matcher classifies candidates against a frozen ReferenceIndex. Matching
// one candidate is a pure function of the candidate, the index snapshot,
// and the configured thresholds; a Matcher is safe for concurrent use.
type Matcher struct {
	index *ReferenceIndex
	cfg   types.MatchConfig
}

// NewMatcher returns a Matcher over idx with cfg defaults applied.
func NewMatcher(idx *ReferenceIndex, cfg types.MatchConfig) *Matcher {
	return &Matcher{index: idx, cfg: cfg.WithDefaults()}
}

// Match classifies a single candidate. Tiers are evaluated in strict
// priority order and the first hit wins: DOI, exact title+year, fuzzy
// title, author+year. Missing or malformed fields fail their tier's
// predicate and fall through; Match never returns an error and degrades
// to no_match for unusable input.
func (m *Matcher) Match(searchIdx int, c types.CandidateRecord) types.MatchResult {
	result := types.MatchResult{
		SearchIdx:      searchIdx,
		SearchEID:      c.EID,
		SearchDOI:      c.DOI,
		SearchTitle:    c.Title,
		SearchAuthors:  c.Authors,
		SearchYear:     c.Year,
		MatchStatus:    types.NoMatch,
		ReferenceIdx:   -1,
		RelevanceScore: c.RelevanceScore,
	}

	if m.matchDOI(c, &result) {
		return result
	}

	titleNorm := normalize.Title(c.Title)
	yearKey := normalize.YearKey(c.Year)

	if titleNorm != "" {
		if m.matchTitleYear(titleNorm, yearKey, &result) {
			return result
		}
		if m.matchTitleFuzzy(titleNorm, c.Year, &result) {
			return result
		}
	}

	m.matchAuthorYear(c, yearKey, &result)
	return result
}

// matchDOI checks the candidate DOI against the precomputed DOI lookup.
func (m *Matcher) matchDOI(c types.CandidateRecord, result *types.MatchResult) bool {
	doi := normalize.DOI(c.DOI)
	if doi == "" {
		return false
	}
	refIdx, ok := m.index.doiLookup[doi]
	if !ok {
		return false
	}

	m.fillReference(result, refIdx)
	result.MatchStatus = types.DefiniteMatch
	result.MatchConfidence = round2(m.cfg.DOIConfidence)
	result.MatchType = types.MatchDOI
	result.MatchDetails = fmt.Sprintf("DOI match: %s", doi)
	return true
}

// matchTitleYear checks the (normalized title, year) key against the
// precomputed lookup. When several references share the key, the lowest
// index wins.
func (m *Matcher) matchTitleYear(titleNorm, yearKey string, result *types.MatchResult) bool {
	indices, ok := m.index.titleYearLookup[titleYearKey{title: titleNorm, year: yearKey}]
	if !ok || len(indices) == 0 {
		return false
	}

	m.fillReference(result, indices[0])
	result.MatchStatus = types.VeryLikelyMatch
	result.MatchConfidence = round2(m.cfg.TitleYearConfidence)
	result.MatchType = types.MatchTitleYearExact
	result.MatchDetails = "Exact title and year match"
	return true
}

// matchTitleFuzzy scans the corpus for the highest title similarity,
// skipping references whose publication year is missing, unparseable, or
// more than MaxYearGap away from the candidate's. Threshold decisions use
// the full-precision score.
func (m *Matcher) matchTitleFuzzy(titleNorm, rawYear string, result *types.MatchResult) bool {
	year, yearOK := normalize.YearInt(rawYear)

	bestIdx := -1
	bestScore := 0.0
	for i := range m.index.entries {
		e := &m.index.entries[i]

		// A year that cannot be compared on either side excludes the
		// pair from fuzzy scoring rather than guessing.
		if !yearOK || e.record.Year == 0 {
			continue
		}
		if abs(year-e.record.Year) > m.cfg.MaxYearGap {
			continue
		}

		score := similarity.Title(titleNorm, e.titleNorm)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < m.cfg.FuzzyThreshold {
		return false
	}

	status := types.PossibleMatch
	switch {
	case bestScore >= m.cfg.VeryLikelyThreshold:
		status = types.VeryLikelyMatch
	case bestScore >= m.cfg.ProbableThreshold:
		status = types.ProbableMatch
	}

	m.fillReference(result, bestIdx)
	result.MatchStatus = status
	result.MatchConfidence = round2(bestScore)
	result.MatchType = types.MatchTitleFuzzy
	result.MatchDetails = fmt.Sprintf("Title similarity: %.1f%%", bestScore)
	return true
}

// matchAuthorYear scans for a reference whose first-author surname matches
// case-insensitively and whose year matches exactly, stopping at the first
// hit. An agreeing journal name raises the confidence by JournalBonus.
func (m *Matcher) matchAuthorYear(c types.CandidateRecord, yearKey string, result *types.MatchResult) bool {
	surname := normalize.FirstAuthorSurname(c.Authors)
	if surname == "" || yearKey == "" {
		return false
	}

	for i := range m.index.entries {
		e := &m.index.entries[i]
		if e.yearKey != yearKey || !strings.EqualFold(surname, e.firstAuthor) {
			continue
		}

		confidence := m.cfg.AuthorYearConfidence
		if c.Journal != "" && strings.EqualFold(c.Journal, e.record.Journal) {
			confidence += m.cfg.JournalBonus
		}

		m.fillReference(result, i)
		result.MatchStatus = types.PossibleMatch
		result.MatchConfidence = round2(confidence)
		result.MatchType = types.MatchAuthorYear
		result.MatchDetails = fmt.Sprintf("Author + year match: %s (%s)", surname, yearKey)
		return true
	}
	return false
}

func (m *Matcher) fillReference(result *types.MatchResult, refIdx int) {
	rec := m.index.entries[refIdx].record
	result.ReferenceIdx = refIdx
	result.ReferenceTitle = rec.Title
	result.ReferenceDOI = rec.DOIURL
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// round2 rounds a confidence value to two decimals for storage. Callers
// compare thresholds before rounding.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
