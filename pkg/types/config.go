package types

// MatchConfig holds the thresholds and tuning knobs for the tiered matcher.
// Zero values are replaced with the defaults noted per field.
type MatchConfig struct {
	// DOIConfidence is the confidence assigned to a DOI-tier match (default 95).
	DOIConfidence float64 `json:"doi_confidence" yaml:"doi_confidence"`

	// TitleYearConfidence is the confidence assigned to an exact
	// title+year match (default 90).
	TitleYearConfidence float64 `json:"title_year_confidence" yaml:"title_year_confidence"`

	// FuzzyThreshold is the minimum similarity score for a fuzzy title
	// match to count at all (default 70).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// VeryLikelyThreshold and ProbableThreshold split fuzzy matches into
	// status bands: >= VeryLikelyThreshold is very_likely_match,
	// >= ProbableThreshold is probable_match, the rest possible_match
	// (defaults 90 and 80).
	VeryLikelyThreshold float64 `json:"very_likely_threshold" yaml:"very_likely_threshold"`
	ProbableThreshold   float64 `json:"probable_threshold" yaml:"probable_threshold"`

	// AuthorYearConfidence is the base confidence for an author+year
	// match (default 60).
	AuthorYearConfidence float64 `json:"author_year_confidence" yaml:"author_year_confidence"`

	// JournalBonus is added to an author+year match when the journal
	// names also agree (default 10).
	JournalBonus float64 `json:"journal_bonus" yaml:"journal_bonus"`

	// MaxYearGap is the largest publication-year difference allowed for
	// fuzzy title comparison (default 1).
	MaxYearGap int `json:"max_year_gap" yaml:"max_year_gap"`

	// Workers is the number of concurrent matching workers for a batch;
	// 0 uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// WithDefaults returns a copy of the config with zero values replaced by
// the documented defaults.
func (c MatchConfig) WithDefaults() MatchConfig {
	if c.DOIConfidence <= 0 {
		c.DOIConfidence = 95
	}
	if c.TitleYearConfidence <= 0 {
		c.TitleYearConfidence = 90
	}
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = 70
	}
	if c.VeryLikelyThreshold <= 0 {
		c.VeryLikelyThreshold = 90
	}
	if c.ProbableThreshold <= 0 {
		c.ProbableThreshold = 80
	}
	if c.AuthorYearConfidence <= 0 {
		c.AuthorYearConfidence = 60
	}
	if c.JournalBonus == 0 {
		c.JournalBonus = 10
	}
	if c.MaxYearGap <= 0 {
		c.MaxYearGap = 1
	}
	return c
}

// CorpusConfig holds settings for the reference corpus store.
type CorpusConfig struct {
	// CorpusDir is the base directory for the corpus database and exports.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// MaxResults limits listing queries against the store (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ReportConfig holds settings for dedupe report output.
type ReportConfig struct {
	// OutputDir is the directory for categorized CSVs and summaries.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the summary format: table, json, or yaml.
	Format string `json:"format" yaml:"format"`
}

// DedupeConfig groups all stage configurations.
type DedupeConfig struct {
	Match  MatchConfig  `json:"match" yaml:"match"`
	Corpus CorpusConfig `json:"corpus" yaml:"corpus"`
	Report ReportConfig `json:"report" yaml:"report"`
}
