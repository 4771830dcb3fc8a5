// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package experiments extracts structured functional-experiment records from
// papers the relevance filter promoted. Implements: prd004-extraction (R1-R5).
//
// See docs/ARCHITECTURE.md § Experiment Extraction.
package experiments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/variant-evidence/internal/fulltext"
	"github.com/pdiddy/variant-evidence/internal/llm"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

const defaultWorkers = 4

// ExtractOutput holds the extracted experiments and the partial-failure
// record for the stage.
type ExtractOutput struct {
	// Experiments is ordered by source-paper insertion order, then by
	// extraction-response order within a paper (R4.2).
	Experiments []types.FunctionalExperiment

	// SkippedPapers records PMIDs whose extraction was abandoned: transport
	// failure after retries, or a second schema failure after the
	// validation re-prompt (R3.3).
	SkippedPapers []string

	// EmptyPapers records PMIDs for which extraction cleanly found no
	// structured experiment. Valid, logged, not an error (R3.1).
	EmptyPapers []string

	// Incomplete is true when the run deadline expired mid-stage.
	Incomplete bool
}

// experimentRecord is one experiment as returned by the extraction
// capability, prior to validation.
type experimentRecord struct {
	AssayType      string `json:"assay_type"`
	System         string `json:"system"`
	Readout        string `json:"readout"`
	Direction      string `json:"direction"`
	ValidatedAssay bool   `json:"validated_assay"`
	Replicated     bool   `json:"replicated"`
	Magnitude      string `json:"magnitude"`
	Summary        string `json:"summary"`
}

// extractionResponse is the expected top-level response shape.
type extractionResponse struct {
	Experiments *[]experimentRecord `json:"experiments"`
}

// paperOutcome is one paper's extraction result.
type paperOutcome struct {
	experiments []types.FunctionalExperiment
	skippedErr  error
}

// Extract retrieves the best available text for each functional paper (full
// text through the shared document cache, else the abstract) and asks the
// extraction capability for experiment records. Papers are processed
// independently under a bounded worker pool; one bad paper never blocks the
// batch (R3.3).
//
// A response failing schema validation triggers exactly one re-prompt that
// includes the validation errors; a second failure skips the paper.
func Extract(ctx context.Context, papers []types.FunctionalPaper, backend llm.Backend, texts *fulltext.Cache, label string, cfg types.AIConfig, w io.Writer) ExtractOutput {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	outcomes := make([]paperOutcome, len(papers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, paper := range papers {
		g.Go(func() error {
			outcomes[i] = extractOne(gctx, paper, backend, texts, label, cfg)
			return nil
		})
	}
	_ = g.Wait() // failures are captured per-outcome

	var out ExtractOutput
	if ctx.Err() != nil {
		out.Incomplete = true
	}

	for i, oc := range outcomes {
		pmid := papers[i].PMID
		switch {
		case oc.skippedErr != nil:
			out.SkippedPapers = append(out.SkippedPapers, pmid)
			fmt.Fprintf(w, "warning: extraction skipped for PMID %s: %v\n", pmid, oc.skippedErr)
		case len(oc.experiments) == 0:
			out.EmptyPapers = append(out.EmptyPapers, pmid)
			fmt.Fprintf(w, "no structured experiments found in PMID %s\n", pmid)
		default:
			out.Experiments = append(out.Experiments, oc.experiments...)
		}
	}

	fmt.Fprintf(w, "extract: %d experiments from %d papers (%d empty, %d skipped)\n",
		len(out.Experiments), len(papers), len(out.EmptyPapers), len(out.SkippedPapers))
	return out
}

// extractOne runs the extraction protocol for a single paper.
func extractOne(ctx context.Context, paper types.FunctionalPaper, backend llm.Backend, texts *fulltext.Cache, label string, cfg types.AIConfig) paperOutcome {
	text := ""
	if texts != nil {
		fetched, err := texts.FetchText(ctx, paper.PMID)
		if err == nil {
			text = fetched
		}
	}
	if text == "" {
		text = paper.Abstract
	}

	data := promptData{Label: label, PMID: paper.PMID, Title: paper.Title, Text: text}

	var lastErrs []string
	for attempt := 0; attempt < 2; attempt++ {
		data.Errors = lastErrs

		prompt, err := renderPrompt(data)
		if err != nil {
			return paperOutcome{skippedErr: fmt.Errorf("rendering prompt: %w", err)}
		}

		raw, err := llm.CompleteWithRetry(ctx, backend, prompt, cfg.MaxRetries)
		if err != nil {
			return paperOutcome{skippedErr: err}
		}

		records, validationErrs := parseResponse(raw)
		if len(validationErrs) > 0 {
			lastErrs = validationErrs
			continue
		}

		return paperOutcome{experiments: convertRecords(records, paper.PMID)}
	}

	return paperOutcome{skippedErr: fmt.Errorf("response failed validation twice: %v", lastErrs)}
}

// parseResponse validates the raw response against the extraction schema.
// The schema is permissive about field values (normalization happens in
// convertRecords) and strict about shape: a JSON object with an
// "experiments" array whose records each carry a non-empty summary.
func parseResponse(raw string) ([]experimentRecord, []string) {
	var resp extractionResponse
	if err := json.Unmarshal(llm.CleanJSON([]byte(raw)), &resp); err != nil {
		return nil, []string{fmt.Sprintf("response is not a JSON object: %v", err)}
	}
	if resp.Experiments == nil {
		return nil, []string{`missing "experiments" array`}
	}

	var errs []string
	for i, rec := range *resp.Experiments {
		if rec.Summary == "" {
			errs = append(errs, fmt.Sprintf("experiment %d: empty summary", i))
		}
		if rec.Direction == "" {
			errs = append(errs, fmt.Sprintf("experiment %d: missing direction", i))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return *resp.Experiments, nil
}

// convertRecords maps validated records to FunctionalExperiments. Unknown
// assay types map to "other" and unknown directions to "inconclusive"
// rather than being rejected (R1.3, R1.4).
func convertRecords(records []experimentRecord, pmid string) []types.FunctionalExperiment {
	result := make([]types.FunctionalExperiment, 0, len(records))
	for _, rec := range records {
		result = append(result, types.FunctionalExperiment{
			PMID:           pmid,
			AssayType:      types.NormalizeAssayType(rec.AssayType),
			System:         rec.System,
			Readout:        rec.Readout,
			Direction:      types.NormalizeDirection(rec.Direction),
			ValidatedAssay: rec.ValidatedAssay,
			Replicated:     rec.Replicated,
			Magnitude:      rec.Magnitude,
			Summary:        rec.Summary,
		})
	}
	return result
}
