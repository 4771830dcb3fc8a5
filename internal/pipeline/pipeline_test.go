// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/variant-evidence/internal/literature"
	"github.com/pdiddy/variant-evidence/internal/llm"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

func init() {
	llm.BackoffBase = time.Millisecond
}

// --- mock collaborators ---

type mockAnnotator struct {
	annotation types.Annotation
	err        error
}

func (m *mockAnnotator) Annotate(_ context.Context, _ types.Variant, _ types.AnnotationConfig) (types.Annotation, error) {
	return m.annotation, m.err
}

type mockSearch struct {
	results map[string][]string
}

func (m *mockSearch) Name() string { return "mock" }

func (m *mockSearch) Search(_ context.Context, key string, _ types.LiteratureConfig) ([]string, error) {
	return m.results[key], nil
}

type mockMeta struct {
	records map[string]literature.Metadata
}

func (m *mockMeta) FetchMetadata(_ context.Context, pmid string, _ types.LiteratureConfig) (literature.Metadata, error) {
	return m.records[pmid], nil
}

// scriptedBackend answers classification and extraction prompts by PMID.
// Classification prompts are told apart from extraction prompts by a
// template marker.
type scriptedBackend struct {
	verdicts    map[string]string
	extractions map[string]string
}

func (s *scriptedBackend) Complete(_ context.Context, prompt string) (string, error) {
	classify := strings.Contains(prompt, "Does this paper include experimental functional data")
	for pmid := range s.verdicts {
		if strings.Contains(prompt, "PMID: "+pmid) && classify {
			return s.verdicts[pmid], nil
		}
	}
	for pmid := range s.extractions {
		if strings.Contains(prompt, "PMID: "+pmid) && !classify {
			return s.extractions[pmid], nil
		}
	}
	return "", fmt.Errorf("unexpected prompt: %q", prompt)
}

func testPipeline(backend llm.Backend, search literature.SearchBackend, meta literature.MetadataBackend, ann Annotator) *Pipeline {
	return &Pipeline{
		Annotator: ann,
		Search:    search,
		Metadata:  meta,
		AI:        backend,
		Config: types.PipelineConfig{
			AI: types.AIConfig{Model: "test-model", MaxRetries: 1, Workers: 2},
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	ann := &mockAnnotator{annotation: types.Annotation{
		RSID: "rs35667974", GeneSymbol: "IFIH1",
	}}
	search := &mockSearch{results: map[string][]string{
		"2:162279995C>G": {"100"},
		"rs35667974":     {"100", "200"},
	}}
	meta := &mockMeta{records: map[string]literature.Metadata{
		"100": {Title: "Functional study", Abstract: "We tested the variant.", Year: 2019},
		"200": {Title: "Review", Abstract: "A review.", Year: 2021},
	}}
	backend := &scriptedBackend{
		verdicts: map[string]string{
			"100": `{"is_functional": true, "confidence": "high", "justification": "direct assay"}`,
			"200": `{"is_functional": false, "confidence": "high", "justification": "no experiments"}`,
		},
		extractions: map[string]string{
			"100": `{"experiments": [{"assay_type": "enzymatic_activity", "system": "HEK293 cells",
				"direction": "damaging", "validated_assay": true, "replicated": true,
				"summary": "Severe loss of catalytic activity."}]}`,
		},
	}

	p := testPipeline(backend, search, meta, ann)

	var buf bytes.Buffer
	result := p.Run(context.Background(), types.Variant{
		Chrom: "2", Pos: 162279995, Ref: "C", Alt: "G", Assembly: "GRCh38",
	}, &buf)

	if result.VariantInfo.RSID != "rs35667974" || result.VariantInfo.GeneSymbol != "IFIH1" {
		t.Errorf("variant not enriched: %+v", result.VariantInfo)
	}
	if len(result.CandidatePapers) != 2 {
		t.Fatalf("candidates = %+v", result.CandidatePapers)
	}
	if len(result.FunctionalPapers) != 1 || result.FunctionalPapers[0].PMID != "100" {
		t.Fatalf("functional = %+v", result.FunctionalPapers)
	}
	if len(result.Experiments) != 1 {
		t.Fatalf("experiments = %+v", result.Experiments)
	}
	if result.Assessment.Decision != types.DecisionPS3 || result.Assessment.Strength != types.StrengthStrong {
		t.Errorf("assessment = %+v", result.Assessment)
	}
	if result.Incomplete {
		t.Error("clean run marked incomplete")
	}
	if len(result.RejectedPapers) != 1 || result.RejectedPapers[0].PMID != "200" {
		t.Errorf("rejected = %+v", result.RejectedPapers)
	}
}

func TestRunAnnotationFailureDegrades(t *testing.T) {
	ann := &mockAnnotator{err: fmt.Errorf("VEP unavailable")}
	search := &mockSearch{results: map[string][]string{}}
	meta := &mockMeta{}
	backend := &scriptedBackend{}

	p := testPipeline(backend, search, meta, ann)

	var buf bytes.Buffer
	result := p.Run(context.Background(), types.Variant{
		Chrom: "2", Pos: 100, Ref: "C", Alt: "G",
	}, &buf)

	// The coordinate key still runs; no candidates found resolves to "none".
	if result.Assessment.Decision != types.DecisionNone {
		t.Errorf("decision = %s", result.Assessment.Decision)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "annotation") {
		t.Errorf("Warnings = %v, want annotation warning", result.Warnings)
	}
	if !strings.Contains(buf.String(), "warning: annotation failed") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestRunNoCandidates(t *testing.T) {
	ann := &mockAnnotator{}
	search := &mockSearch{results: map[string][]string{}}
	meta := &mockMeta{}
	backend := &scriptedBackend{}

	p := testPipeline(backend, search, meta, ann)

	var buf bytes.Buffer
	result := p.Run(context.Background(), types.Variant{
		Chrom: "1", Pos: 5, Ref: "A", Alt: "T",
	}, &buf)

	if result.Assessment.Decision != types.DecisionNone || result.Assessment.Strength != types.StrengthNone {
		t.Errorf("assessment = %+v", result.Assessment)
	}
	if !strings.Contains(result.Assessment.Narrative, "No functional experiments") {
		t.Errorf("narrative = %q", result.Assessment.Narrative)
	}
	if result.Incomplete {
		t.Error("empty result marked incomplete")
	}
}

func TestRunNoFunctionalPapersSkipsExtraction(t *testing.T) {
	ann := &mockAnnotator{}
	search := &mockSearch{results: map[string][]string{
		"1:5A>T": {"100"},
	}}
	meta := &mockMeta{records: map[string]literature.Metadata{
		"100": {Title: "Review", Abstract: "No experiments here."},
	}}
	backend := &scriptedBackend{
		verdicts: map[string]string{
			"100": `{"is_functional": false, "confidence": "high", "justification": "review"}`,
		},
	}

	p := testPipeline(backend, search, meta, ann)

	var buf bytes.Buffer
	result := p.Run(context.Background(), types.Variant{
		Chrom: "1", Pos: 5, Ref: "A", Alt: "T",
	}, &buf)

	if len(result.Experiments) != 0 {
		t.Errorf("experiments = %+v", result.Experiments)
	}
	if result.Assessment.Rule != "no-evidence" {
		t.Errorf("rule = %q", result.Assessment.Rule)
	}
}

func TestRunDeterministicForFixedResponses(t *testing.T) {
	build := func() *Pipeline {
		return testPipeline(
			&scriptedBackend{
				verdicts: map[string]string{
					"100": `{"is_functional": true, "confidence": "high", "justification": "assay"}`,
					"200": `{"is_functional": true, "confidence": "moderate", "justification": "assay"}`,
				},
				extractions: map[string]string{
					"100": `{"experiments": [{"direction": "damaging", "validated_assay": true, "replicated": true, "summary": "a"}]}`,
					"200": `{"experiments": [{"direction": "damaging", "summary": "b"}]}`,
				},
			},
			&mockSearch{results: map[string][]string{"1:5A>T": {"100", "200"}}},
			&mockMeta{records: map[string]literature.Metadata{
				"100": {Title: "A", Abstract: "x"},
				"200": {Title: "B", Abstract: "y"},
			}},
			&mockAnnotator{},
		)
	}

	v := types.Variant{Chrom: "1", Pos: 5, Ref: "A", Alt: "T"}

	var buf1, buf2 bytes.Buffer
	first := build().Run(context.Background(), v, &buf1)
	second := build().Run(context.Background(), v, &buf2)

	if first.Assessment.Narrative != second.Assessment.Narrative {
		t.Errorf("narratives differ:\n%s\n%s", first.Assessment.Narrative, second.Assessment.Narrative)
	}
	if len(first.Experiments) != len(second.Experiments) {
		t.Errorf("experiment counts differ: %d vs %d", len(first.Experiments), len(second.Experiments))
	}
	for i := range first.Experiments {
		if first.Experiments[i].PMID != second.Experiments[i].PMID {
			t.Errorf("experiment order differs at %d", i)
		}
	}
}
