// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// narrative assembles the explanation for an assessment from a fixed
// template: contributing papers, assay types, and the rule that fired.
// Plain string assembly, reproducible from the same evidence set (R3.3).
func narrative(a types.IntegratedAssessment, all, damaging, notDamaging []types.FunctionalExperiment) string {
	if len(all) == 0 {
		s := "No functional experiments directly testing this variant were identified in the retrieved literature. Therefore, PS3 and BS3 are not applied."
		if a.Incomplete {
			s += " " + incompleteSentence
		}
		return s
	}

	var parts []string

	if len(damaging) > 0 {
		parts = append(parts, fmt.Sprintf(
			"%d experiment(s) across %d paper(s) (%s) reported impaired or abnormal function consistent with a damaging effect.",
			len(damaging), distinctPapers(damaging), describeSide(damaging)))
	}
	if len(notDamaging) > 0 {
		parts = append(parts, fmt.Sprintf(
			"%d experiment(s) across %d paper(s) (%s) reported normal or near-normal function, consistent with a benign effect.",
			len(notDamaging), distinctPapers(notDamaging), describeSide(notDamaging)))
	}
	if a.InconclusiveCount > 0 {
		parts = append(parts, fmt.Sprintf(
			"%d experiment(s) had no determinable direction of effect and were excluded from scoring.",
			a.InconclusiveCount))
	}

	switch a.Rule {
	case RulePS3Strong, RulePS3Supporting:
		parts = append(parts, fmt.Sprintf(
			"Taken together, these studies provide functional evidence supporting a damaging effect on the gene product, compatible with application of PS3 (%s strength).",
			a.Strength))
	case RuleBS3Strong, RuleBS3Supporting:
		parts = append(parts, fmt.Sprintf(
			"Taken together, these studies provide functional evidence supporting a non-damaging effect on the gene product, compatible with application of BS3 (%s strength).",
			a.Strength))
	case RuleConflict:
		parts = append(parts, fmt.Sprintf(
			"The evidence is conflicting: damaging results (PMIDs %s) and not-damaging results (PMIDs %s) each independently meet an evidence threshold. Neither PS3 nor BS3 is applied.",
			pmidList(damaging), pmidList(notDamaging)))
	default:
		parts = append(parts, "The overall body of functional evidence is insufficient to apply PS3 or BS3.")
	}

	if a.Incomplete {
		parts = append(parts, incompleteSentence)
	}

	return strings.Join(parts, " ")
}

const incompleteSentence = "Note: literature retrieval or analysis was interrupted before completion, so this evidence set may be incomplete."

// describeSide lists the sorted distinct assay types of one side.
func describeSide(side []types.FunctionalExperiment) string {
	seen := make(map[string]bool)
	for _, e := range side {
		seen[string(e.AssayType)] = true
	}
	assays := make([]string, 0, len(seen))
	for a := range seen {
		assays = append(assays, a)
	}
	sort.Strings(assays)
	return "assays: " + strings.Join(assays, ", ")
}

// pmidList returns the sorted distinct PMIDs of one side as a comma list.
func pmidList(side []types.FunctionalExperiment) string {
	return strings.Join(keyPMIDs(side), ", ")
}

// distinctPapers counts the distinct PMIDs on one side.
func distinctPapers(side []types.FunctionalExperiment) int {
	return len(keyPMIDs(side))
}
