// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Result is the composite output of one pipeline run: the five keyed
// collections plus the audit trail. This is the only surface the pipeline
// exposes to callers; no intermediate mutable state leaks out.
// Per prd007-pipeline R3.1-R3.3.
type Result struct {
	// VariantInfo is the enriched variant the run assessed.
	VariantInfo Variant `json:"variant_info" yaml:"variant_info"`

	// CandidatePapers is the aggregated, deduplicated candidate list.
	CandidatePapers []CandidatePaper `json:"candidate_papers" yaml:"candidate_papers"`

	// FunctionalPapers is the subset promoted by the relevance filter.
	FunctionalPapers []FunctionalPaper `json:"functional_papers" yaml:"functional_papers"`

	// Experiments is the full extracted experiment collection, including
	// inconclusive records retained for audit.
	Experiments []FunctionalExperiment `json:"experiments" yaml:"experiments"`

	// Assessment is the integrated PS3/BS3 call.
	Assessment IntegratedAssessment `json:"assessment" yaml:"assessment"`

	// RejectedPapers holds candidates classified as non-functional.
	RejectedPapers []CandidatePaper `json:"rejected_papers,omitempty" yaml:"rejected_papers,omitempty"`

	// SkippedPapers holds candidates excluded before classification.
	SkippedPapers []SkippedPaper `json:"skipped_papers,omitempty" yaml:"skipped_papers,omitempty"`

	// Warnings collects the per-unit partial failures from all stages:
	// failed search keys, failed metadata fetches, failed classifications
	// and extractions.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Incomplete is true when any stage returned partial results.
	Incomplete bool `json:"incomplete" yaml:"incomplete"`
}
