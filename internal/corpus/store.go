// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citetrack/internal/dedupe"
	"github.com/pdiddy/citetrack/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the corpus SQLite database: the imported reference corpus
// plus the history of dedupe runs and their results. The store is fully
// read before a batch starts and written only after it completes, so it is
// never touched while matching workers run.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the corpus database at corpusDir/corpus.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CorpusDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CorpusDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			doi_url TEXT,
			authors TEXT,
			year INTEGER,
			journal TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			total_candidates INTEGER NOT NULL,
			reference_records INTEGER NOT NULL,
			new_unique INTEGER NOT NULL,
			definite_matches INTEGER NOT NULL,
			very_likely_matches INTEGER NOT NULL,
			probable_matches INTEGER NOT NULL,
			possible_matches INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			search_idx INTEGER NOT NULL,
			search_eid TEXT,
			search_doi TEXT,
			search_title TEXT,
			search_authors TEXT,
			search_year TEXT,
			match_status TEXT NOT NULL,
			match_confidence REAL NOT NULL,
			match_type TEXT,
			reference_idx INTEGER,
			reference_title TEXT,
			reference_doi TEXT,
			match_details TEXT,
			relevance_score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_results_status ON run_results(match_status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportReferences replaces the stored reference corpus with records in a
// single transaction, returning the number imported.
func (s *Store) ImportReferences(ctx context.Context, records []types.ReferenceRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs`); err != nil {
		return 0, fmt.Errorf("clearing reference corpus: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (title, doi_url, authors, year, journal) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Title, rec.DOIURL, rec.Authors, rec.Year, rec.Journal); err != nil {
			return 0, fmt.Errorf("inserting reference %q: %w", rec.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(records), nil
}

// References loads the stored reference corpus in id order, matching the
// order it was imported in so reference indices stay stable across runs.
func (s *Store) References(ctx context.Context) ([]types.ReferenceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, doi_url, authors, year, journal FROM refs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying reference corpus: %w", err)
	}
	defer rows.Close()

	var records []types.ReferenceRecord
	for rows.Next() {
		var rec types.ReferenceRecord
		if err := rows.Scan(&rec.Title, &rec.DOIURL, &rec.Authors, &rec.Year, &rec.Journal); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ReferenceCount returns the number of stored reference records.
func (s *Store) ReferenceCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM refs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting references: %w", err)
	}
	return n, nil
}

// SaveRun records a completed dedupe run and all its match results in one
// transaction, returning the new run id.
func (s *Store) SaveRun(ctx context.Context, summary dedupe.Summary, results []types.MatchResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (timestamp, total_candidates, reference_records, new_unique,
			definite_matches, very_likely_matches, probable_matches, possible_matches)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Timestamp.UTC().Format(time.RFC3339), summary.TotalCandidates,
		summary.ReferenceRecords, summary.NewUnique, summary.DefiniteMatches,
		summary.VeryLikelyMatches, summary.ProbableMatches, summary.PossibleMatches,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, search_idx, search_eid, search_doi, search_title,
			search_authors, search_year, match_status, match_confidence, match_type,
			reference_idx, reference_title, reference_doi, match_details, relevance_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx, runID, r.SearchIdx, r.SearchEID, r.SearchDOI,
			r.SearchTitle, r.SearchAuthors, r.SearchYear, string(r.MatchStatus),
			r.MatchConfidence, string(r.MatchType), r.ReferenceIdx,
			r.ReferenceTitle, r.ReferenceDOI, r.MatchDetails, r.RelevanceScore)
		if err != nil {
			return 0, fmt.Errorf("inserting result %d: %w", r.SearchIdx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunRecord is a stored dedupe run summary.
type RunRecord struct {
	ID                int64     `json:"id" yaml:"id"`
	Timestamp         time.Time `json:"timestamp" yaml:"timestamp"`
	TotalCandidates   int       `json:"total_candidates" yaml:"total_candidates"`
	ReferenceRecords  int       `json:"reference_records" yaml:"reference_records"`
	NewUnique         int       `json:"new_unique" yaml:"new_unique"`
	DefiniteMatches   int       `json:"definite_matches" yaml:"definite_matches"`
	VeryLikelyMatches int       `json:"very_likely_matches" yaml:"very_likely_matches"`
	ProbableMatches   int       `json:"probable_matches" yaml:"probable_matches"`
	PossibleMatches   int       `json:"possible_matches" yaml:"possible_matches"`
}

// Runs returns stored run summaries, most recent first, limited to the
// store's max results.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, total_candidates, reference_records, new_unique,
			definite_matches, very_likely_matches, probable_matches, possible_matches
		 FROM runs ORDER BY id DESC LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.TotalCandidates, &r.ReferenceRecords,
			&r.NewUnique, &r.DefiniteMatches, &r.VeryLikelyMatches,
			&r.ProbableMatches, &r.PossibleMatches); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
			r.Timestamp = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the stored match results for one run in search order.
func (s *Store) RunResults(ctx context.Context, runID int64) ([]types.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT search_idx, search_eid, search_doi, search_title, search_authors,
			search_year, match_status, match_confidence, match_type, reference_idx,
			reference_title, reference_doi, match_details, relevance_score
		 FROM run_results WHERE run_id = ? ORDER BY search_idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run results: %w", err)
	}
	defer rows.Close()

	var results []types.MatchResult
	for rows.Next() {
		var r types.MatchResult
		var status, matchType string
		if err := rows.Scan(&r.SearchIdx, &r.SearchEID, &r.SearchDOI, &r.SearchTitle,
			&r.SearchAuthors, &r.SearchYear, &status, &r.MatchConfidence, &matchType,
			&r.ReferenceIdx, &r.ReferenceTitle, &r.ReferenceDOI, &r.MatchDetails,
			&r.RelevanceScore); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.MatchStatus = types.MatchStatus(status)
		r.MatchType = types.MatchType(matchType)
		results = append(results, r)
	}
	return results, rows.Err()
}
