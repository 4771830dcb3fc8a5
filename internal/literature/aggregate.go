// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature turns a variant's search keys into a deduplicated
// candidate paper list. Implements: prd002-literature (R1-R4).
//
// See docs/ARCHITECTURE.md § Aggregation.
package literature

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// SearchBackend queries the literature-search collaborator for one key.
type SearchBackend interface {
	Name() string
	Search(ctx context.Context, key string, cfg types.LiteratureConfig) ([]string, error)
}

// MetadataBackend fetches bibliographic metadata for one PMID.
type MetadataBackend interface {
	FetchMetadata(ctx context.Context, pmid string, cfg types.LiteratureConfig) (Metadata, error)
}

// AggregateOutput holds the merged candidate list and the partial-failure
// record for the stage.
type AggregateOutput struct {
	// Papers is the deduplicated candidate list in insertion order: the
	// first time each PMID was observed across keys in priority order (R2.4).
	Papers []types.CandidatePaper

	// KeyErrors records search keys whose query failed after retries.
	KeyErrors []string

	// MetadataErrors records PMIDs whose metadata fetch failed; those
	// papers are kept with empty metadata rather than dropped.
	MetadataErrors []string

	// Incomplete is true when the run deadline expired before all keys
	// were queried.
	Incomplete bool
}

// Aggregate queries the search backend once per key, fetches metadata for
// each newly seen PMID, and merges the results by PMID. On a repeat PMID the
// contributing-key set is unioned and the first-seen metadata kept (R2.2).
//
// Per-key failures are logged to w and collected; they never abort the
// stage (R4.1). When every key fails the output is simply empty; the
// caller reads that as "no candidates found", not as an error.
func Aggregate(ctx context.Context, keys []string, search SearchBackend, meta MetadataBackend, cfg types.LiteratureConfig, w io.Writer) AggregateOutput {
	var out AggregateOutput
	seen := make(map[string]int) // PMID → index in out.Papers

	for i, key := range keys {
		if ctx.Err() != nil {
			out.Incomplete = true
			fmt.Fprintf(w, "warning: aggregation stopped before key %q: %v\n", key, ctx.Err())
			break
		}
		if i > 0 && cfg.PerKeyDelay > 0 {
			time.Sleep(cfg.PerKeyDelay)
		}

		pmids, err := search.Search(ctx, key, cfg)
		if err != nil {
			out.KeyErrors = append(out.KeyErrors, fmt.Sprintf("%s: %v", key, err))
			fmt.Fprintf(w, "warning: %s query failed for %q: %v\n", search.Name(), key, err)
			continue
		}

		for _, pmid := range pmids {
			if idx, ok := seen[pmid]; ok {
				unionKey(&out.Papers[idx], key)
				continue
			}

			paper := types.CandidatePaper{
				PMID:      pmid,
				FoundBy:   []string{key},
				Retrieved: time.Now().UTC(),
			}

			m, err := meta.FetchMetadata(ctx, pmid, cfg)
			if err != nil {
				// Keep the paper; the filter handles missing text (R4.2).
				out.MetadataErrors = append(out.MetadataErrors, pmid)
				fmt.Fprintf(w, "warning: metadata fetch failed for PMID %s: %v\n", pmid, err)
			} else {
				paper.Title = m.Title
				paper.Abstract = m.Abstract
				paper.Year = m.Year
			}

			seen[pmid] = len(out.Papers)
			out.Papers = append(out.Papers, paper)
		}
	}

	return out
}

// unionKey appends key to the paper's contributing-key set if absent,
// preserving first-seen order.
func unionKey(p *types.CandidatePaper, key string) {
	for _, k := range p.FoundBy {
		if k == key {
			return
		}
	}
	p.FoundBy = append(p.FoundBy, key)
}
