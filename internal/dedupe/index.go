// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe classifies candidate records against a reference corpus
// using a tiered matching pipeline: DOI lookup, exact title+year lookup,
// fuzzy title scan, then author+year scan. Cheap exact-match indices are
// built once per corpus; only the fuzzy tiers walk the full table.
package dedupe

import (
	"strconv"

	"github.com/pdiddy/citetrack/internal/normalize"
	"github.com/pdiddy/citetrack/pkg/types"
)

// titleYearKey keys the exact title+year lookup.
type titleYearKey struct {
	title string
	year  string
}

// refEntry is a reference record with its derived match fields, computed
// once at index construction.
type refEntry struct {
	record        types.ReferenceRecord
	doiNormalized string
	titleNorm     string
	firstAuthor   string
	yearKey       string
}

// ReferenceIndex holds the reference corpus and its lookup structures.
// It is built once before matching begins and is read-only afterwards,
// so any number of matching workers may share it concurrently.
type ReferenceIndex struct {
	entries         []refEntry
	doiLookup       map[string]int
	titleYearLookup map[titleYearKey][]int
}

// NewReferenceIndex normalizes the corpus and builds the DOI and
// title+year lookup tables. When several references share a DOI the
// lowest index wins; title+year collisions keep all indices in corpus
// order so tier 2 can select the first deterministically.
func NewReferenceIndex(records []types.ReferenceRecord) *ReferenceIndex {
	idx := &ReferenceIndex{
		entries:         make([]refEntry, len(records)),
		doiLookup:       make(map[string]int, len(records)),
		titleYearLookup: make(map[titleYearKey][]int),
	}

	for i, rec := range records {
		e := refEntry{
			record:        rec,
			doiNormalized: normalize.DOI(rec.DOIURL),
			titleNorm:     normalize.Title(rec.Title),
			firstAuthor:   normalize.FirstAuthorSurname(rec.Authors),
		}
		if rec.Year > 0 {
			e.yearKey = strconv.Itoa(rec.Year)
		}
		idx.entries[i] = e

		if e.doiNormalized != "" {
			if _, ok := idx.doiLookup[e.doiNormalized]; !ok {
				idx.doiLookup[e.doiNormalized] = i
			}
		}
		key := titleYearKey{title: e.titleNorm, year: e.yearKey}
		idx.titleYearLookup[key] = append(idx.titleYearLookup[key], i)
	}

	return idx
}

// Len returns the number of reference records in the index.
func (idx *ReferenceIndex) Len() int {
	return len(idx.entries)
}

// Record returns the reference record at position i.
func (idx *ReferenceIndex) Record(i int) types.ReferenceRecord {
	return idx.entries[i].record
}
