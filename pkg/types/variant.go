// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the variant-evidence pipeline.
// Implements: prd001-annotation (Variant, R1.1-R1.4, R3.1-R3.3);
//
//	prd002-literature (CandidatePaper, R2.1-R2.4);
//	prd003-relevance (FunctionalPaper, SkippedPaper);
//	prd004-extraction (FunctionalExperiment, R1.1-R1.5);
//	prd005-assessment (IntegratedAssessment, ConfidenceTier).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

import (
	"fmt"
	"strings"
)

// Variant is one genomic variant under assessment. The coordinate fields
// identify the variant; the annotation fields are filled once from the
// annotation service and never mutated afterwards (R1.2).
type Variant struct {
	// Chrom is the chromosome name without prefix (e.g. "2", "X").
	Chrom string `json:"chrom" yaml:"chrom"`

	// Pos is the 1-based genomic position.
	Pos int `json:"pos" yaml:"pos"`

	// Ref is the reference allele.
	Ref string `json:"ref" yaml:"ref"`

	// Alt is the alternate allele.
	Alt string `json:"alt" yaml:"alt"`

	// Assembly is the genome assembly version (default "GRCh38").
	Assembly string `json:"assembly" yaml:"assembly"`

	// GeneSymbol is the HGNC gene symbol, when annotated.
	GeneSymbol string `json:"gene_symbol,omitempty" yaml:"gene_symbol,omitempty"`

	// RSID is the dbSNP identifier (e.g. "rs121913529"), when annotated.
	RSID string `json:"rsid,omitempty" yaml:"rsid,omitempty"`

	// HGVSc is the coding HGVS notation on the selected transcript.
	HGVSc string `json:"hgvsc,omitempty" yaml:"hgvsc,omitempty"`

	// HGVSp is the protein HGVS notation on the selected transcript.
	HGVSp string `json:"hgvsp,omitempty" yaml:"hgvsp,omitempty"`

	// Transcript is the Ensembl transcript the annotation was picked from.
	Transcript string `json:"transcript,omitempty" yaml:"transcript,omitempty"`

	// MANETranscript is the MANE Select transcript, when available.
	MANETranscript string `json:"mane_transcript,omitempty" yaml:"mane_transcript,omitempty"`
}

// Coordinate returns the compact genomic form "2:162279995 C>G".
func (v Variant) Coordinate() string {
	return fmt.Sprintf("%s:%d %s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

// Label returns the one-line variant description used in capability prompts:
// coordinate plus whichever annotations are present.
func (v Variant) Label() string {
	parts := []string{v.Coordinate()}
	if v.GeneSymbol != "" {
		parts = append(parts, "gene:"+v.GeneSymbol)
	}
	if v.HGVSc != "" {
		parts = append(parts, "HGVSc:"+v.HGVSc)
	}
	if v.HGVSp != "" {
		parts = append(parts, "HGVSp:"+v.HGVSp)
	}
	if v.RSID != "" {
		parts = append(parts, "rsID:"+v.RSID)
	}
	return strings.Join(parts, ", ")
}

// SearchKeys returns the deduplicated literature search keys for the variant
// in fixed priority order: the genomic coordinate string first, then rsID,
// coding HGVS, protein HGVS, and finally gene-qualified text forms (R3.1).
// The order is load-bearing: the aggregator queries keys in this order and
// candidate insertion order follows from it (prd002-literature R2.4).
//
// Missing annotation fields produce fewer keys. A variant with no usable
// identifiers at all returns an empty slice, never an error (R3.3).
func (v Variant) SearchKeys() []string {
	genomic := fmt.Sprintf("%s:%d%s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)

	candidates := []string{
		genomic,
		v.RSID,
		v.HGVSc,
		v.HGVSp,
	}
	if v.GeneSymbol != "" && v.HGVSp != "" {
		candidates = append(candidates, v.GeneSymbol+" "+v.HGVSp)
	}
	if v.GeneSymbol != "" && v.HGVSc != "" {
		candidates = append(candidates, v.GeneSymbol+" "+v.HGVSc)
	}

	seen := make(map[string]bool, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		keys = append(keys, c)
	}
	return keys
}

// Annotation holds the fields returned by the annotation service. Any field
// may be empty; absent fields are valid (prd001-annotation R2.3).
type Annotation struct {
	RSID           string `json:"rsid,omitempty" yaml:"rsid,omitempty"`
	HGVSc          string `json:"hgvsc,omitempty" yaml:"hgvsc,omitempty"`
	HGVSp          string `json:"hgvsp,omitempty" yaml:"hgvsp,omitempty"`
	GeneSymbol     string `json:"gene_symbol,omitempty" yaml:"gene_symbol,omitempty"`
	Transcript     string `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	MANETranscript string `json:"mane_transcript,omitempty" yaml:"mane_transcript,omitempty"`
}

// Enrich fills the variant's annotation fields from a. Fields already set on
// the variant are kept; Enrich is called once per pipeline run (R1.2).
func (v *Variant) Enrich(a Annotation) {
	if v.RSID == "" {
		v.RSID = a.RSID
	}
	if v.GeneSymbol == "" {
		v.GeneSymbol = a.GeneSymbol
	}
	if a.HGVSc != "" {
		v.HGVSc = a.HGVSc
	}
	if a.HGVSp != "" {
		v.HGVSp = a.HGVSp
	}
	if a.Transcript != "" {
		v.Transcript = a.Transcript
	}
	if a.MANETranscript != "" {
		v.MANETranscript = a.MANETranscript
	}
}
