// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Decision is the ACMG functional-criterion call.
type Decision string

const (
	DecisionPS3  Decision = "PS3"
	DecisionBS3  Decision = "BS3"
	DecisionNone Decision = "none"
)

// Strength qualifies a PS3/BS3 decision.
type Strength string

const (
	StrengthStrong     Strength = "strong"
	StrengthSupporting Strength = "supporting"
	StrengthNone       Strength = "none"
)

// IntegratedAssessment is the terminal artifact of a pipeline run: the
// decision, its strength, a deterministic narrative, and the evidentiary
// trail. Created once by the consolidator; immutable.
// Per prd005-assessment R3.1-R3.4.
type IntegratedAssessment struct {
	// Decision is PS3, BS3, or none.
	Decision Decision `json:"decision" yaml:"decision"`

	// Strength is strong, supporting, or none.
	Strength Strength `json:"strength" yaml:"strength"`

	// Rule names the decision rule that fired (e.g. "ps3-strong",
	// "conflict", "no-evidence"), for reporting and audit.
	Rule string `json:"rule" yaml:"rule"`

	// Narrative explains the decision: contributing papers, assay types,
	// and the rule that fired. Assembled from a deterministic template,
	// never from a generative capability (R3.3).
	Narrative string `json:"narrative" yaml:"narrative"`

	// KeyPMIDs lists the papers whose experiments were scored, sorted.
	KeyPMIDs []string `json:"key_pmids,omitempty" yaml:"key_pmids,omitempty"`

	// DamagingCount and NotDamagingCount are the scored experiment counts
	// per direction; InconclusiveCount is retained for audit only.
	DamagingCount     int `json:"damaging_count" yaml:"damaging_count"`
	NotDamagingCount  int `json:"not_damaging_count" yaml:"not_damaging_count"`
	InconclusiveCount int `json:"inconclusive_count" yaml:"inconclusive_count"`

	// Incomplete is true when an upstream stage returned partial results
	// (timeout or exhausted retries); the narrative discloses it (R3.4).
	Incomplete bool `json:"incomplete" yaml:"incomplete"`
}
