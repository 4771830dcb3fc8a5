// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AssayType enumerates the functional assay categories the extraction stage
// recognizes. Anything outside the enumeration maps to AssayOther rather
// than being rejected (prd004-extraction R1.3).
type AssayType string

const (
	AssayEnzymatic     AssayType = "enzymatic_activity"
	AssaySplicing      AssayType = "splicing"
	AssayExpression    AssayType = "expression_stability"
	AssayInteraction   AssayType = "protein_interaction"
	AssayOtherInVitro  AssayType = "other_in_vitro"
	AssayInVivo        AssayType = "in_vivo"
	AssayOther         AssayType = "other"
)

// validAssayTypes is the accepted AssayType set.
var validAssayTypes = map[AssayType]bool{
	AssayEnzymatic:    true,
	AssaySplicing:     true,
	AssayExpression:   true,
	AssayInteraction:  true,
	AssayOtherInVitro: true,
	AssayInVivo:       true,
	AssayOther:        true,
}

// NormalizeAssayType maps s to a known AssayType, falling back to AssayOther.
func NormalizeAssayType(s string) AssayType {
	a := AssayType(s)
	if validAssayTypes[a] {
		return a
	}
	return AssayOther
}

// EffectDirection is the direction of effect an experiment reports for the
// variant. Experiments whose direction cannot be determined are tagged
// inconclusive and retained for audit but excluded from scoring (R1.4).
type EffectDirection string

const (
	DirectionDamaging     EffectDirection = "damaging"
	DirectionNotDamaging  EffectDirection = "not_damaging"
	DirectionInconclusive EffectDirection = "inconclusive"
)

// NormalizeDirection maps s to a known EffectDirection, falling back to
// inconclusive for anything unrecognized.
func NormalizeDirection(s string) EffectDirection {
	switch EffectDirection(s) {
	case DirectionDamaging:
		return DirectionDamaging
	case DirectionNotDamaging:
		return DirectionNotDamaging
	default:
		return DirectionInconclusive
	}
}

// ConfidenceTier is the evidentiary weight of one experiment, derived
// deterministically from its recorded quality cues (prd005-assessment R2.1).
type ConfidenceTier string

const (
	TierHigh     ConfidenceTier = "high"
	TierModerate ConfidenceTier = "moderate"
	TierLow      ConfidenceTier = "low"
)

// FunctionalExperiment is one structured functional-assay finding extracted
// from a functional paper. Multiple experiments may derive from one paper.
// Per prd004-extraction R1.1-R1.5.
type FunctionalExperiment struct {
	// PMID references the source paper; always present in the functional
	// paper set for the same run.
	PMID string `json:"pmid" yaml:"pmid"`

	// AssayType is the assay category.
	AssayType AssayType `json:"assay_type" yaml:"assay_type"`

	// System is the experimental system (e.g. "HEK293 cells", "mouse model").
	System string `json:"system,omitempty" yaml:"system,omitempty"`

	// Readout is what the assay measured (e.g. "catalytic activity").
	Readout string `json:"readout,omitempty" yaml:"readout,omitempty"`

	// Direction is the reported direction of effect for the variant.
	Direction EffectDirection `json:"direction" yaml:"direction"`

	// ValidatedAssay records whether the study used a validated or standard
	// assay for this readout.
	ValidatedAssay bool `json:"validated_assay" yaml:"validated_assay"`

	// Replicated records whether the result was replicated (biological
	// replicates or an independent confirmatory assay).
	Replicated bool `json:"replicated" yaml:"replicated"`

	// Magnitude summarizes fold-changes, p-values, replicate counts.
	Magnitude string `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`

	// Summary is a short free-text account of the experiment and outcome.
	Summary string `json:"summary" yaml:"summary"`
}

// Tier computes the experiment's confidence tier from its recorded cues:
// validated assay with replication is high, exactly one of the two is
// moderate, neither is low. Pure function of the struct fields (R2.1).
func (e FunctionalExperiment) Tier() ConfidenceTier {
	switch {
	case e.ValidatedAssay && e.Replicated:
		return TierHigh
	case e.ValidatedAssay || e.Replicated:
		return TierModerate
	default:
		return TierLow
	}
}

// Scorable reports whether the experiment participates in decision scoring.
func (e FunctionalExperiment) Scorable() bool {
	return e.Direction == DirectionDamaging || e.Direction == DirectionNotDamaging
}
