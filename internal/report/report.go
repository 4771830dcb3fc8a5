// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a completed pipeline run for human or machine
// consumption. Implements: prd007-pipeline (R4).
//
// See docs/ARCHITECTURE.md § Reporting.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// WriteConsole writes the six-section human-readable report to w (R4.2):
// variant identifiers, retrieval summary, functional papers, extracted
// experiments grouped by paper, the narrative, and the criterion call.
func WriteConsole(result *types.Result, w io.Writer) {
	v := result.VariantInfo

	fmt.Fprintln(w, "=== Variant ===")
	fmt.Fprintf(w, "Coordinate: %s (%s)\n", v.Coordinate(), v.Assembly)
	writeField(w, "Gene", v.GeneSymbol)
	writeField(w, "rsID", v.RSID)
	writeField(w, "HGVS cDNA", v.HGVSc)
	writeField(w, "HGVS protein", v.HGVSp)
	writeField(w, "Transcript", v.Transcript)

	fmt.Fprintln(w, "\n=== Literature retrieval ===")
	fmt.Fprintf(w, "Candidates: %d   Functional: %d   Rejected: %d   Skipped: %d\n",
		len(result.CandidatePapers), len(result.FunctionalPapers),
		len(result.RejectedPapers), len(result.SkippedPapers))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	fmt.Fprintln(w, "\n=== Functional papers ===")
	if len(result.FunctionalPapers) == 0 {
		fmt.Fprintln(w, "None.")
	} else {
		fmt.Fprintf(w, "%-10s  %-10s  %s\n", "PMID", "Confidence", "Title")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for _, p := range result.FunctionalPapers {
			fmt.Fprintf(w, "%-10s  %-10s  %s\n", p.PMID, p.Confidence, truncate(p.Title, 66))
		}
	}

	fmt.Fprintln(w, "\n=== Experiments ===")
	if len(result.Experiments) == 0 {
		fmt.Fprintln(w, "None extracted.")
	} else {
		writeExperiments(result.Experiments, w)
	}

	fmt.Fprintln(w, "\n=== Narrative ===")
	fmt.Fprintln(w, result.Assessment.Narrative)

	fmt.Fprintln(w, "\n=== Assessment ===")
	a := result.Assessment
	fmt.Fprintf(w, "Criterion: %s   Strength: %s\n", a.Decision, a.Strength)
	if len(a.KeyPMIDs) > 0 {
		fmt.Fprintf(w, "Key PMIDs: %s\n", strings.Join(a.KeyPMIDs, ", "))
	}
	if result.Incomplete {
		fmt.Fprintln(w, "Note: this run is marked incomplete.")
	}
}

// writeExperiments groups records by PMID, preserving extraction order
// within and across papers.
func writeExperiments(exps []types.FunctionalExperiment, w io.Writer) {
	var order []string
	byPMID := make(map[string][]types.FunctionalExperiment)
	for _, e := range exps {
		if _, ok := byPMID[e.PMID]; !ok {
			order = append(order, e.PMID)
		}
		byPMID[e.PMID] = append(byPMID[e.PMID], e)
	}

	for _, pmid := range order {
		fmt.Fprintf(w, "PMID %s:\n", pmid)
		for _, e := range byPMID[pmid] {
			fmt.Fprintf(w, "  [%s] %s, %s (tier %s)\n", e.Direction, e.AssayType, e.System, e.Tier())
			if e.Summary != "" {
				fmt.Fprintf(w, "    %s\n", e.Summary)
			}
		}
	}
}

// WriteJSON writes the full result as indented JSON to w (R4.3).
func WriteJSON(result *types.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteYAML writes the full result as YAML to w (R4.4).
func WriteYAML(result *types.Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(result)
}

func writeField(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", name, value)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
