// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance classifies candidate papers as containing a qualifying
// functional experiment or not. Implements: prd003-relevance (R1-R5).
//
// See docs/ARCHITECTURE.md § Relevance Filter.
package relevance

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

// FilterOutput partitions the candidates after classification.
type FilterOutput struct {
	// Functional holds promoted papers, in candidate order.
	Functional []types.FunctionalPaper

	// Rejected holds candidates classified "no", including fail-closed
	// exclusions after an unparsable response.
	Rejected []types.CandidatePaper

	// Skipped holds candidates excluded before classification for lack of
	// usable text (R1.4).
	Skipped []types.SkippedPaper

	// Failed records PMIDs whose classification failed on transport after
	// retries; they are excluded from the functional set.
	Failed []string

	// Incomplete is true when the run deadline expired mid-stage.
	Incomplete bool
}

// verdict is the expected classifier response shape. IsFunctional is a
// pointer so a response missing the key fails validation instead of
// defaulting to "no" silently.
type verdict struct {
	IsFunctional  *bool  `json:"is_functional"`
	Confidence    string `json:"confidence"`
	Justification string `json:"justification"`
}

// outcome is one candidate's classification result.
type outcome struct {
	promoted  *types.FunctionalPaper
	skipped   *types.SkippedPaper
	failedErr error
}

// Filter classifies each candidate independently with a bounded worker pool
// and partitions the list. Classification of one paper never affects
// another's (R2.1); output order follows candidate order regardless of
// completion order, so results are deterministic for fixed responses.
//
// An unparsable classifier response gets exactly one clarifying re-prompt,
// then the paper is excluded fail-closed (R5.4). Candidates with no usable
// text, after consulting the document cache, are recorded as skipped (R1.4).
func Filter(ctx context.Context, candidates []types.CandidatePaper, backend llm.Backend, texts *fulltext.Cache, label string, cfg types.AIConfig, w io.Writer) FilterOutput {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, paper := range candidates {
		g.Go(func() error {
			outcomes[i] = classifyOne(gctx, paper, backend, texts, label, cfg)
			return nil
		})
	}
	_ = g.Wait() // failures are captured per-outcome

	var out FilterOutput
	if ctx.Err() != nil {
		out.Incomplete = true
	}

	for i, oc := range outcomes {
		paper := candidates[i]
		switch {
		case oc.promoted != nil:
			out.Functional = append(out.Functional, *oc.promoted)
		case oc.skipped != nil:
			out.Skipped = append(out.Skipped, *oc.skipped)
			fmt.Fprintf(w, "skipped PMID %s: %s\n", paper.PMID, oc.skipped.Reason)
		case oc.failedErr != nil:
			out.Failed = append(out.Failed, paper.PMID)
			fmt.Fprintf(w, "warning: classification failed for PMID %s: %v\n", paper.PMID, oc.failedErr)
		default:
			out.Rejected = append(out.Rejected, paper)
		}
	}

	fmt.Fprintf(w, "filter: %d functional, %d rejected, %d skipped, %d failed\n",
		len(out.Functional), len(out.Rejected), len(out.Skipped), len(out.Failed))
	return out
}

// classifyOne runs the classification protocol for a single candidate.
func classifyOne(ctx context.Context, paper types.CandidatePaper, backend llm.Backend, texts *fulltext.Cache, label string, cfg types.AIConfig) outcome {
	text := paper.Abstract
	if text == "" && paper.Title == "" && texts != nil {
		// No metadata text at all; fall back to the document-retrieval
		// collaborator before giving up (R1.4).
		fetched, err := texts.FetchText(ctx, paper.PMID)
		if err == nil {
			text = fetched
		}
	}
	if paper.Title == "" && text == "" {
		return outcome{skipped: &types.SkippedPaper{PMID: paper.PMID, Reason: "insufficient text"}}
	}

	data := promptData{Label: label, PMID: paper.PMID, Title: paper.Title, Text: text}

	for _, clarify := range []bool{false, true} {
		prompt, err := renderPrompt(data, clarify)
		if err != nil {
			return outcome{failedErr: fmt.Errorf("rendering prompt: %w", err)}
		}

		raw, err := llm.CompleteWithRetry(ctx, backend, prompt, cfg.MaxRetries)
		if err != nil {
			return outcome{failedErr: err}
		}

		v, ok := parseVerdict(raw)
		if !ok {
			// One clarifying re-prompt, then fail closed.
			continue
		}

		if !*v.IsFunctional {
			return outcome{}
		}
		return outcome{promoted: &types.FunctionalPaper{
			PMID:          paper.PMID,
			Title:         paper.Title,
			Abstract:      paper.Abstract,
			Confidence:    normalizeConfidence(v.Confidence),
			Justification: v.Justification,
		}}
	}

	// Both responses unparsable: fail-closed "no" (R5.4).
	return outcome{}
}

// parseVerdict validates the raw response against the verdict schema.
func parseVerdict(raw string) (verdict, bool) {
	var v verdict
	if err := json.Unmarshal(llm.CleanJSON([]byte(raw)), &v); err != nil {
		return verdict{}, false
	}
	if v.IsFunctional == nil {
		return verdict{}, false
	}
	return v, true
}

// normalizeConfidence maps the classifier's confidence to the known set,
// defaulting to low for anything unrecognized.
func normalizeConfidence(s string) types.FilterConfidence {
	switch types.FilterConfidence(s) {
	case types.FilterHigh:
		return types.FilterHigh
	case types.FilterModerate:
		return types.FilterModerate
	default:
		return types.FilterLow
	}
}
