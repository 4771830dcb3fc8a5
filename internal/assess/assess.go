// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess consolidates extracted experiments into a PS3/BS3 decision.
// Integrate is a pure function: no I/O, no capability calls, no state across
// invocations: the same experiment list always yields the same assessment.
// Implements: prd005-assessment (R1-R3).
//
// See docs/ARCHITECTURE.md § Consolidation.
package assess

import (
	"sort"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// Options holds the tunable decision thresholds.
type Options struct {
	// ModerateForStrong is how many independent moderate-confidence
	// experiments from distinct papers equal one strong call (default 2).
	ModerateForStrong int

	// Incomplete marks the evidence set as partial (upstream timeout or
	// exhausted retries); the narrative discloses it.
	Incomplete bool
}

// sideStrength is the strength one direction's evidence reaches on its own.
type sideStrength int

const (
	sideNone sideStrength = iota
	sideSupporting
	sideStrong
)

// Rule names for IntegratedAssessment.Rule.
const (
	RuleNoEvidence    = "no-evidence"
	RuleConflict      = "conflict"
	RulePS3Strong     = "ps3-strong"
	RulePS3Supporting = "ps3-supporting"
	RuleBS3Strong     = "bs3-strong"
	RuleBS3Supporting = "bs3-supporting"
)

// Integrate applies the decision rule to the full experiment collection.
//
// Inconclusive experiments are dropped from scoring but counted in the
// trail (R1.1). Each scorable experiment is tiered from its recorded cues
// (R2.1). A direction reaches "strong" with one high-confidence experiment
// or ModerateForStrong moderate-confidence experiments from distinct
// papers, and "supporting" with any scorable experiment at all.
//
// Conflict is checked before either criterion is applied: when both
// directions independently reach at least supporting strength the decision
// is "none" and the narrative states the conflict rather than picking a
// side (R3.2). This also resolves the strong-vs-strong case symmetrically.
func Integrate(experiments []types.FunctionalExperiment, opts Options) types.IntegratedAssessment {
	if opts.ModerateForStrong <= 0 {
		opts.ModerateForStrong = 2
	}

	var damaging, notDamaging []types.FunctionalExperiment
	inconclusive := 0
	for _, e := range experiments {
		switch e.Direction {
		case types.DirectionDamaging:
			damaging = append(damaging, e)
		case types.DirectionNotDamaging:
			notDamaging = append(notDamaging, e)
		default:
			inconclusive++
		}
	}

	a := types.IntegratedAssessment{
		Decision:          types.DecisionNone,
		Strength:          types.StrengthNone,
		DamagingCount:     len(damaging),
		NotDamagingCount:  len(notDamaging),
		InconclusiveCount: inconclusive,
		KeyPMIDs:          keyPMIDs(damaging, notDamaging),
		Incomplete:        opts.Incomplete,
	}

	dStr := strengthOf(damaging, opts.ModerateForStrong)
	bStr := strengthOf(notDamaging, opts.ModerateForStrong)

	switch {
	case dStr == sideNone && bStr == sideNone:
		a.Rule = RuleNoEvidence
	case dStr != sideNone && bStr != sideNone:
		a.Rule = RuleConflict
	case dStr == sideStrong:
		a.Decision, a.Strength, a.Rule = types.DecisionPS3, types.StrengthStrong, RulePS3Strong
	case dStr == sideSupporting:
		a.Decision, a.Strength, a.Rule = types.DecisionPS3, types.StrengthSupporting, RulePS3Supporting
	case bStr == sideStrong:
		a.Decision, a.Strength, a.Rule = types.DecisionBS3, types.StrengthStrong, RuleBS3Strong
	default:
		a.Decision, a.Strength, a.Rule = types.DecisionBS3, types.StrengthSupporting, RuleBS3Supporting
	}

	a.Narrative = narrative(a, experiments, damaging, notDamaging)
	return a
}

// strengthOf computes one direction's standalone strength: strong with at
// least one high-tier experiment or ModerateForStrong moderate-tier
// experiments from distinct papers; supporting with any experiment (R2.2).
func strengthOf(side []types.FunctionalExperiment, moderateForStrong int) sideStrength {
	if len(side) == 0 {
		return sideNone
	}

	moderatePapers := make(map[string]bool)
	for _, e := range side {
		switch e.Tier() {
		case types.TierHigh:
			return sideStrong
		case types.TierModerate:
			moderatePapers[e.PMID] = true
		}
	}
	if len(moderatePapers) >= moderateForStrong {
		return sideStrong
	}
	return sideSupporting
}

// keyPMIDs returns the sorted distinct PMIDs of the scored experiments.
func keyPMIDs(sides ...[]types.FunctionalExperiment) []string {
	seen := make(map[string]bool)
	for _, side := range sides {
		for _, e := range side {
			seen[e.PMID] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	pmids := make([]string, 0, len(seen))
	for pmid := range seen {
		pmids = append(pmids, pmid)
	}
	sort.Strings(pmids)
	return pmids
}
