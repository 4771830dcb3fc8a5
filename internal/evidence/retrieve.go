// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"fmt"
)

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID        int64  `json:"id" yaml:"id"`
	Variant   string `json:"variant" yaml:"variant"`
	Gene      string `json:"gene,omitempty" yaml:"gene,omitempty"`
	Decision  string `json:"decision" yaml:"decision"`
	Strength  string `json:"strength" yaml:"strength"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// RunRecord is one stored run with its narrative and per-paper trail.
type RunRecord struct {
	RunSummary  `yaml:",inline"`
	Rule        string       `json:"rule" yaml:"rule"`
	Narrative   string       `json:"narrative" yaml:"narrative"`
	Incomplete  bool         `json:"incomplete" yaml:"incomplete"`
	Papers      []PaperRow   `json:"papers,omitempty" yaml:"papers,omitempty"`
	Experiments []ExperimentRow `json:"experiments,omitempty" yaml:"experiments,omitempty"`
}

// PaperRow is one paper's stored disposition within a run.
type PaperRow struct {
	PMID        string `json:"pmid" yaml:"pmid"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Year        int    `json:"year,omitempty" yaml:"year,omitempty"`
	Disposition string `json:"disposition" yaml:"disposition"`
	FoundBy     string `json:"found_by,omitempty" yaml:"found_by,omitempty"`
	Rationale   string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// ExperimentRow is one stored experiment within a run.
type ExperimentRow struct {
	PMID      string `json:"pmid" yaml:"pmid"`
	AssayType string `json:"assay_type" yaml:"assay_type"`
	Direction string `json:"direction" yaml:"direction"`
	Tier      string `json:"tier" yaml:"tier"`
	System    string `json:"system,omitempty" yaml:"system,omitempty"`
	Summary   string `json:"summary" yaml:"summary"`
}

// ExperimentHit is one full-text search hit across stored experiments.
type ExperimentHit struct {
	RunID   int64  `json:"run_id" yaml:"run_id"`
	Variant string `json:"variant" yaml:"variant"`
	ExperimentRow `yaml:",inline"`
}

// ListRuns returns the most recent runs, newest first (R3.1).
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.Query(
		`SELECT id, variant, gene, decision, strength, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Variant, &r.Gene, &r.Decision, &r.Strength, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns one stored run with its papers and experiments (R3.2).
func (s *Store) GetRun(id int64) (*RunRecord, error) {
	var r RunRecord
	var incomplete int
	err := s.db.QueryRow(
		`SELECT id, variant, gene, decision, strength, rule, narrative, incomplete, created_at
		 FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Variant, &r.Gene, &r.Decision, &r.Strength, &r.Rule, &r.Narrative, &incomplete, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}
	r.Incomplete = incomplete != 0

	paperRows, err := s.db.Query(
		`SELECT pmid, title, year, disposition, found_by, rationale
		 FROM papers WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying papers for run %d: %w", id, err)
	}
	defer paperRows.Close()
	for paperRows.Next() {
		var p PaperRow
		if err := paperRows.Scan(&p.PMID, &p.Title, &p.Year, &p.Disposition, &p.FoundBy, &p.Rationale); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		r.Papers = append(r.Papers, p)
	}
	if err := paperRows.Err(); err != nil {
		return nil, err
	}

	expRows, err := s.db.Query(
		`SELECT pmid, assay_type, direction, tier, system, summary
		 FROM experiments WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying experiments for run %d: %w", id, err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var e ExperimentRow
		if err := expRows.Scan(&e.PMID, &e.AssayType, &e.Direction, &e.Tier, &e.System, &e.Summary); err != nil {
			return nil, fmt.Errorf("scanning experiment: %w", err)
		}
		r.Experiments = append(r.Experiments, e)
	}
	return &r, expRows.Err()
}

// SearchExperiments runs an FTS query over stored experiment summaries (R4.1).
func (s *Store) SearchExperiments(query string) ([]ExperimentHit, error) {
	rows, err := s.db.Query(
		`SELECT e.run_id, r.variant, e.pmid, e.assay_type, e.direction, e.tier, e.system, e.summary
		 FROM experiments_fts f
		 JOIN experiments e ON e.rowid = f.rowid
		 JOIN runs r ON r.id = e.run_id
		 WHERE experiments_fts MATCH ?
		 ORDER BY rank LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching experiments: %w", err)
	}
	defer rows.Close()

	var out []ExperimentHit
	for rows.Next() {
		var h ExperimentHit
		if err := rows.Scan(&h.RunID, &h.Variant, &h.PMID, &h.AssayType, &h.Direction, &h.Tier, &h.System, &h.Summary); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
