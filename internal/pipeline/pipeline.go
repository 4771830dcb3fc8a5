// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains the five evidence stages for one variant:
// annotation, candidate aggregation, relevance filtering, experiment
// extraction, and consolidation. Stage boundaries are hard synchronization
// points: a later stage never starts on a subset of the earlier stage's
// output. Implements: prd007-pipeline (R1-R3).
//
// See docs/ARCHITECTURE.md § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/variant-evidence/internal/annotate"
	"github.com/pdiddy/variant-evidence/internal/assess"
	"github.com/pdiddy/variant-evidence/internal/experiments"
	"github.com/pdiddy/variant-evidence/internal/fulltext"
	"github.com/pdiddy/variant-evidence/internal/literature"
	"github.com/pdiddy/variant-evidence/internal/llm"
	"github.com/pdiddy/variant-evidence/internal/relevance"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

// Annotator resolves a variant's identifiers via the annotation service.
type Annotator interface {
	Annotate(ctx context.Context, v types.Variant, cfg types.AnnotationConfig) (types.Annotation, error)
}

// Pipeline wires the collaborators for one or more runs. Each Run produces
// a fresh Result; the pipeline itself holds no per-run state.
type Pipeline struct {
	Annotator Annotator
	Search    literature.SearchBackend
	Metadata  literature.MetadataBackend
	Texts     *fulltext.Cache
	AI        llm.Backend
	Config    types.PipelineConfig
}

// New builds a pipeline with the production collaborators. A missing API
// key for the configured AI provider is a hard configuration error,
// detected here before any stage runs (R1.2).
func New(cfg types.PipelineConfig) (*Pipeline, error) {
	backend, err := llm.New(cfg.AI)
	if err != nil {
		return nil, err
	}

	annotateClient := &http.Client{Timeout: cfg.Annotation.Timeout}
	literatureClient := &http.Client{Timeout: cfg.Literature.Timeout}

	return &Pipeline{
		Annotator: &annotate.Service{Client: annotateClient},
		Search:    &literature.LitVarBackend{Client: literatureClient},
		Metadata:  &literature.EntrezBackend{Client: literatureClient},
		Texts: fulltext.NewCache(&fulltext.EntrezFetcher{
			Client: literatureClient,
			Config: cfg.Literature,
		}),
		AI:     backend,
		Config: cfg,
	}, nil
}

// Run executes the five stages for one variant and always returns a
// well-formed Result: total input exhaustion at any stage (no identifiers,
// no candidates, no functional papers) resolves to a "none" assessment
// with an explanatory narrative, never an error (R2.4). Progress and
// partial-failure warnings go to w.
func (p *Pipeline) Run(ctx context.Context, v types.Variant, w io.Writer) *types.Result {
	if p.Config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Config.RunTimeout)
		defer cancel()
	}

	result := &types.Result{}

	// Stage 1: annotation. Failure is a partial-data condition; the
	// genomic coordinate alone still forms a search key.
	fmt.Fprintf(w, "annotating %s\n", v.Coordinate())
	annotation, err := p.Annotator.Annotate(ctx, v, p.Config.Annotation)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("annotation: %v", err))
		fmt.Fprintf(w, "warning: annotation failed: %v\n", err)
	} else {
		v.Enrich(annotation)
	}
	result.VariantInfo = v

	keys := v.SearchKeys()
	if len(keys) == 0 {
		fmt.Fprintln(w, "no search keys could be formed; skipping literature search")
		result.Assessment = p.integrate(result)
		return result
	}
	fmt.Fprintf(w, "search keys (%d): %v\n", len(keys), keys)

	// Stage 2: candidate aggregation.
	agg := literature.Aggregate(ctx, keys, p.Search, p.Metadata, p.Config.Literature, w)
	result.CandidatePapers = agg.Papers
	result.Incomplete = result.Incomplete || agg.Incomplete
	for _, e := range agg.KeyErrors {
		result.Warnings = append(result.Warnings, "search: "+e)
	}
	for _, pmid := range agg.MetadataErrors {
		result.Warnings = append(result.Warnings, "metadata: PMID "+pmid)
	}
	fmt.Fprintf(w, "aggregated %d candidate papers\n", len(agg.Papers))

	if len(agg.Papers) == 0 {
		result.Assessment = p.integrate(result)
		return result
	}

	// Stage 3: relevance filter.
	label := v.Label()
	filt := relevance.Filter(ctx, agg.Papers, p.AI, p.Texts, label, p.Config.AI, w)
	result.FunctionalPapers = filt.Functional
	result.RejectedPapers = filt.Rejected
	result.SkippedPapers = filt.Skipped
	result.Incomplete = result.Incomplete || filt.Incomplete
	for _, pmid := range filt.Failed {
		result.Warnings = append(result.Warnings, "classification: PMID "+pmid)
	}

	if len(filt.Functional) == 0 {
		result.Assessment = p.integrate(result)
		return result
	}

	// Stage 4: experiment extraction.
	ext := experiments.Extract(ctx, filt.Functional, p.AI, p.Texts, label, p.Config.AI, w)
	result.Experiments = ext.Experiments
	result.Incomplete = result.Incomplete || ext.Incomplete
	for _, pmid := range ext.SkippedPapers {
		result.Warnings = append(result.Warnings, "extraction: PMID "+pmid)
	}

	// Stage 5: consolidation.
	result.Assessment = p.integrate(result)
	return result
}

// integrate runs the pure consolidation stage over whatever evidence the
// run gathered.
func (p *Pipeline) integrate(result *types.Result) types.IntegratedAssessment {
	return assess.Integrate(result.Experiments, assess.Options{
		ModerateForStrong: p.Config.Assessment.ModerateForStrong,
		Incomplete:        result.Incomplete,
	})
}
