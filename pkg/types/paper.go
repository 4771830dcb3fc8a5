// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CandidatePaper is one literature item surfaced by the search stage,
// identified by its PMID. Per prd002-literature R2.1-R2.3.
type CandidatePaper struct {
	// PMID is the PubMed identifier; unique across the aggregated list.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title; may be empty when metadata fetch failed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract; may be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// FoundBy lists the search keys that surfaced this paper, in the order
	// they were queried. When two keys surface the same PMID the entry is
	// merged and FoundBy is the union (R2.2).
	FoundBy []string `json:"found_by" yaml:"found_by"`

	// Retrieved is the time the paper metadata was fetched.
	Retrieved time.Time `json:"retrieved,omitempty" yaml:"retrieved,omitempty"`
}

// HasText reports whether the paper carries any classifiable text.
func (p CandidatePaper) HasText() bool {
	return p.Title != "" || p.Abstract != ""
}

// FilterConfidence is the categorical confidence attached to a relevance
// verdict by the classification capability.
type FilterConfidence string

const (
	FilterHigh     FilterConfidence = "high"
	FilterModerate FilterConfidence = "moderate"
	FilterLow      FilterConfidence = "low"
)

// FunctionalPaper is a candidate promoted by the relevance filter. Promotion
// is one-way: a functional paper is never demoted back to a candidate.
// Per prd003-relevance R3.2.
type FunctionalPaper struct {
	// PMID references the CandidatePaper this was promoted from.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is carried over from the candidate for reporting.
	Title string `json:"title" yaml:"title"`

	// Abstract is carried over from the candidate; the extractor falls
	// back to it when full text is unavailable.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Confidence is the classifier's categorical confidence in the verdict.
	Confidence FilterConfidence `json:"confidence" yaml:"confidence"`

	// Justification is the classifier's short rationale for the promotion.
	Justification string `json:"justification" yaml:"justification"`
}

// SkippedPaper records a candidate the filter excluded before classification
// was attempted, with the reason. Distinct from a "no" verdict (R3.4).
type SkippedPaper struct {
	PMID   string `json:"pmid" yaml:"pmid"`
	Reason string `json:"reason" yaml:"reason"`
}
