// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citetrack pipeline:
// reference corpus records, search candidates, match results, and the
// configuration structs consumed by the dedupe and corpus stages.
package types

// MatchStatus classifies how strongly a candidate corresponds to a
// reference record. Statuses are ordered from weakest to strongest.
type MatchStatus string

const (
	NoMatch         MatchStatus = "no_match"
	PossibleMatch   MatchStatus = "possible_match"
	ProbableMatch   MatchStatus = "probable_match"
	VeryLikelyMatch MatchStatus = "very_likely_match"
	DefiniteMatch   MatchStatus = "definite_match"
)

// MatchType identifies which matching tier produced a result.
type MatchType string

const (
	MatchDOI            MatchType = "doi"
	MatchTitleYearExact MatchType = "title_year_exact"
	MatchTitleFuzzy     MatchType = "title_fuzzy"
	MatchAuthorYear     MatchType = "author_year"
)

// ReferenceRecord is an entry in the trusted reference corpus. Records are
// loaded once at matcher initialization and never mutated during a run.
type ReferenceRecord struct {
	// Title is the article title as curated in the corpus.
	Title string `json:"title" yaml:"title"`

	// DOIURL is the DOI, either bare ("10.1377/x") or as a resolver URL.
	DOIURL string `json:"doi_url" yaml:"doi_url"`

	// Authors is a delimited author list (may end with a "+ others" marker).
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year" yaml:"year"`

	// Journal is the journal or venue name.
	Journal string `json:"journal" yaml:"journal"`
}

// CandidateRecord is a newly retrieved record from an upstream search.
// Candidates are produced externally and consumed one at a time; the
// matcher never mutates them.
type CandidateRecord struct {
	// EID is the source-specific identifier (e.g. a Scopus EID).
	EID string `json:"eid" yaml:"eid"`

	// DOI is the candidate DOI in whatever format the source returned.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the candidate title.
	Title string `json:"title" yaml:"title"`

	// Authors is a delimited author list.
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year as received; it may be empty or
	// malformed and is parsed leniently during matching.
	Year string `json:"year" yaml:"year"`

	// Journal is the journal or venue name.
	Journal string `json:"journal" yaml:"journal"`

	// RelevanceScore is the upstream search relevance, echoed into
	// reports so new discoveries can be ranked. Zero when absent.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// MatchResult is the outcome of classifying one candidate against the
// reference corpus. Exactly one MatchResult is produced per candidate;
// results are never mutated after creation.
type MatchResult struct {
	// SearchIdx is the candidate's position in the input batch.
	SearchIdx int `json:"search_idx" yaml:"search_idx"`

	// SearchEID, SearchDOI, SearchTitle, SearchAuthors, and SearchYear
	// echo the candidate's identifying fields.
	SearchEID     string `json:"search_eid" yaml:"search_eid"`
	SearchDOI     string `json:"search_doi" yaml:"search_doi"`
	SearchTitle   string `json:"search_title" yaml:"search_title"`
	SearchAuthors string `json:"search_authors" yaml:"search_authors"`
	SearchYear    string `json:"search_year" yaml:"search_year"`

	// MatchStatus is the classification tier outcome.
	MatchStatus MatchStatus `json:"match_status" yaml:"match_status"`

	// MatchConfidence is a 0-100 score, rounded to two decimals for
	// storage. Threshold decisions are made on full-precision values
	// before rounding.
	MatchConfidence float64 `json:"match_confidence" yaml:"match_confidence"`

	// MatchType names the tier that produced the match; empty for no_match.
	MatchType MatchType `json:"match_type" yaml:"match_type"`

	// ReferenceIdx is the index of the best-matching reference record,
	// or -1 when there is no match.
	ReferenceIdx int `json:"reference_idx" yaml:"reference_idx"`

	// ReferenceTitle and ReferenceDOI identify the matched reference.
	ReferenceTitle string `json:"reference_title" yaml:"reference_title"`
	ReferenceDOI   string `json:"reference_doi" yaml:"reference_doi"`

	// MatchDetails is a free-text explanation of the match.
	MatchDetails string `json:"match_details" yaml:"match_details"`

	// RelevanceScore echoes the candidate's upstream relevance score.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// IsDuplicate reports whether the result is a confirmed duplicate
// (definite or very likely match).
func (r MatchResult) IsDuplicate() bool {
	return r.MatchStatus == DefiniteMatch || r.MatchStatus == VeryLikelyMatch
}

// NeedsReview reports whether the result requires manual review
// (probable or possible match).
func (r MatchResult) NeedsReview() bool {
	return r.MatchStatus == ProbableMatch || r.MatchStatus == PossibleMatch
}
