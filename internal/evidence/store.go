// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence persists completed pipeline runs in an embedded SQLite
// database so past assessments stay queryable.
// Implements: prd006-evidence-store (R1-R4).
//
// See docs/ARCHITECTURE.md § Evidence Store.
package evidence

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// Store manages the evidence SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the database at cfg.Path, creating parent
// directories and the schema as needed (R1.1, R1.2).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = filepath.Join("evidence", "evidence.db")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			gene TEXT,
			decision TEXT NOT NULL,
			strength TEXT NOT NULL,
			rule TEXT NOT NULL,
			narrative TEXT NOT NULL,
			incomplete INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			pmid TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			disposition TEXT NOT NULL,
			found_by TEXT,
			rationale TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run ON papers(run_id)`,
		`CREATE TABLE IF NOT EXISTS experiments (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			pmid TEXT NOT NULL,
			assay_type TEXT NOT NULL,
			direction TEXT NOT NULL,
			tier TEXT NOT NULL,
			system TEXT,
			summary TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_run ON experiments(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over experiment summaries, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='experiments_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE experiments_fts USING fts5(summary, content=experiments, content_rowid=rowid)`,
			`CREATE TRIGGER experiments_ai AFTER INSERT ON experiments BEGIN
				INSERT INTO experiments_fts(rowid, summary) VALUES (new.rowid, new.summary);
			END`,
			`CREATE TRIGGER experiments_ad AFTER DELETE ON experiments BEGIN
				INSERT INTO experiments_fts(experiments_fts, rowid, summary) VALUES('delete', old.rowid, old.summary);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRun persists one completed run and returns its row ID (R2.1).
func (s *Store) SaveRun(result types.Result) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	a := result.Assessment
	res, err := tx.Exec(
		`INSERT INTO runs (variant, gene, decision, strength, rule, narrative, incomplete, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.VariantInfo.Coordinate(), result.VariantInfo.GeneSymbol,
		string(a.Decision), string(a.Strength), a.Rule, a.Narrative,
		boolInt(result.Incomplete), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	functional := make(map[string]types.FunctionalPaper, len(result.FunctionalPapers))
	for _, fp := range result.FunctionalPapers {
		functional[fp.PMID] = fp
	}
	skipped := make(map[string]string, len(result.SkippedPapers))
	for _, sp := range result.SkippedPapers {
		skipped[sp.PMID] = sp.Reason
	}

	for _, p := range result.CandidatePapers {
		disposition := "rejected"
		rationale := ""
		if fp, ok := functional[p.PMID]; ok {
			disposition = "functional"
			rationale = fp.Justification
		} else if reason, ok := skipped[p.PMID]; ok {
			disposition = "skipped"
			rationale = reason
		}
		if _, err := tx.Exec(
			`INSERT INTO papers (run_id, pmid, title, year, disposition, found_by, rationale)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, p.PMID, p.Title, p.Year, disposition,
			strings.Join(p.FoundBy, "; "), rationale,
		); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.PMID, err)
		}
	}

	for _, e := range result.Experiments {
		if _, err := tx.Exec(
			`INSERT INTO experiments (run_id, pmid, assay_type, direction, tier, system, summary)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, e.PMID, string(e.AssayType), string(e.Direction),
			string(e.Tier()), e.System, e.Summary,
		); err != nil {
			return 0, fmt.Errorf("inserting experiment for %s: %w", e.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
