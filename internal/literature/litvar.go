// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/variant-evidence/internal/httputil"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

// litvarAPIBase is the LitVar2 API root. Declared as a var so tests can
// substitute an httptest server.
var litvarAPIBase = "https://www.ncbi.nlm.nih.gov/research/litvar2-api"

// LitVarBackend queries the LitVar2 publications endpoint for one search
// key (R1.1). It implements SearchBackend.
type LitVarBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *LitVarBackend) Name() string { return "litvar2" }

// Search returns the PMIDs of publications mentioning the identifier.
// An empty result is valid and is not an error (R1.3); only transport
// failures and non-200 statuses are reported as errors.
func (b *LitVarBackend) Search(ctx context.Context, key string, cfg types.LiteratureConfig) ([]string, error) {
	// LitVar2 variant IDs are wrapped as litvar@<encoded>## in the path.
	reqURL := fmt.Sprintf("%s/variant/get/litvar%%40%s%%23%%23/publications",
		litvarAPIBase, url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("LitVar2 request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LitVar2 returned HTTP %d for %q", resp.StatusCode, key)
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing LitVar2 response: %w", err)
	}

	return extractPMIDs(payload), nil
}

// extractPMIDs walks the LitVar2 payload, which has been observed in several
// shapes: a bare list of publication objects, a bare list of scalars, or an
// object keyed by one of a few list-bearing field names. Order within the
// payload is preserved; unrecognized shapes yield no PMIDs.
func extractPMIDs(payload json.RawMessage) []string {
	var list []json.RawMessage
	if err := json.Unmarshal(payload, &list); err == nil {
		return pmidsFromList(list)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil
	}
	for _, field := range []string{"pmids", "PMIDs", "publications", "results", "data"} {
		raw, ok := obj[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &list); err == nil {
			return pmidsFromList(list)
		}
	}
	return nil
}

// pmidsFromList converts list entries to PMID strings. Entries may be
// objects carrying a pmid/PMID field, strings, or numbers.
func pmidsFromList(list []json.RawMessage) []string {
	var pmids []string
	for _, raw := range list {
		var entry struct {
			PMID      json.Number `json:"pmid"`
			PMIDUpper json.Number `json:"PMID"`
		}
		if err := json.Unmarshal(raw, &entry); err == nil {
			if s := entry.PMID.String(); s != "" {
				pmids = append(pmids, s)
				continue
			}
			if s := entry.PMIDUpper.String(); s != "" {
				pmids = append(pmids, s)
				continue
			}
		}

		var num json.Number
		if err := json.Unmarshal(raw, &num); err == nil && num.String() != "" {
			pmids = append(pmids, num.String())
			continue
		}

		var str string
		if err := json.Unmarshal(raw, &str); err == nil && str != "" {
			pmids = append(pmids, str)
		}
	}
	return pmids
}
