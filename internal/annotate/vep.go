// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate resolves a variant's identifiers through the Ensembl VEP
// REST service. Implements: prd001-annotation (R2).
//
// See docs/ARCHITECTURE.md § Annotation.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/variant-evidence/internal/httputil"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

// VEP endpoints per assembly. Declared as vars so tests can substitute an
// httptest server.
var (
	vepBaseGRCh38 = "https://rest.ensembl.org"
	vepBaseGRCh37 = "https://grch37.rest.ensembl.org"
)

const vepEndpoint = "/vep/homo_sapiens/region"

// Service queries Ensembl VEP for variant annotation.
type Service struct {
	Client *http.Client
}

// vepRequest is the request body for the VEP region endpoint. Variants are
// whitespace-delimited VCF-style strings; hgvs/pick/mane ask VEP to return
// HGVS notations for the single best transcript consequence.
type vepRequest struct {
	Variants []string `json:"variants"`
	HGVS     int      `json:"hgvs"`
	Pick     int      `json:"pick"`
	MANE     int      `json:"mane"`
}

// vepEntry is one annotated variant in the VEP response.
type vepEntry struct {
	ColocatedVariants []struct {
		ID  string   `json:"id"`
		IDs []string `json:"ids"`
	} `json:"colocated_variants"`
	TranscriptConsequences []struct {
		HGVSc        string `json:"hgvsc"`
		HGVSp        string `json:"hgvsp"`
		GeneSymbol   string `json:"gene_symbol"`
		TranscriptID string `json:"transcript_id"`
		MANESelect   string `json:"mane_select"`
	} `json:"transcript_consequences"`
}

// Annotate queries VEP for the variant's rsID, HGVS notations, and gene
// symbol. Absent fields in the response are valid: the returned Annotation
// may be partially (or entirely) empty (R2.3). A transport failure or a
// non-200 status is an error; the caller treats it as a partial-data
// condition, not a run abort.
func (s *Service) Annotate(ctx context.Context, v types.Variant, cfg types.AnnotationConfig) (types.Annotation, error) {
	base := vepBaseGRCh38
	if cfg.Assembly == "GRCh37" {
		base = vepBaseGRCh37
	}

	// VCF-style line: CHROM POS ID REF ALT QUAL FILTER INFO.
	variantStr := fmt.Sprintf("%s %d . %s %s . . .", v.Chrom, v.Pos, v.Ref, v.Alt)

	body, err := json.Marshal(vepRequest{
		Variants: []string{variantStr},
		HGVS:     1,
		Pick:     1,
		MANE:     1,
	})
	if err != nil {
		return types.Annotation{}, fmt.Errorf("marshaling VEP request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+vepEndpoint, bytes.NewReader(body))
	if err != nil {
		return types.Annotation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return types.Annotation{}, fmt.Errorf("VEP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Annotation{}, fmt.Errorf("VEP returned HTTP %d", resp.StatusCode)
	}

	var entries []vepEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return types.Annotation{}, fmt.Errorf("parsing VEP response: %w", err)
	}
	if len(entries) == 0 {
		return types.Annotation{}, nil
	}

	return fromEntry(entries[0]), nil
}

// fromEntry extracts the annotation fields from one VEP entry. The rsID is
// taken from the first colocated variant whose ID carries the "rs" prefix;
// transcript fields come from the single picked consequence.
func fromEntry(e vepEntry) types.Annotation {
	var a types.Annotation

	for _, cv := range e.ColocatedVariants {
		if strings.HasPrefix(cv.ID, "rs") {
			a.RSID = cv.ID
			break
		}
		for _, id := range cv.IDs {
			if strings.HasPrefix(id, "rs") {
				a.RSID = id
				break
			}
		}
		if a.RSID != "" {
			break
		}
	}

	if len(e.TranscriptConsequences) > 0 {
		tc := e.TranscriptConsequences[0]
		a.HGVSc = tc.HGVSc
		a.HGVSp = tc.HGVSp
		a.GeneSymbol = tc.GeneSymbol
		a.Transcript = tc.TranscriptID
		a.MANETranscript = tc.MANESelect
	}

	return a
}
