// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fulltext retrieves the best available document text for a paper
// and caches it for the run. Implements: prd003-relevance R4.3,
// prd004-extraction R2.1-R2.3; docs/ARCHITECTURE.md § Document Retrieval.
package fulltext

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/pdiddy/variant-evidence/internal/httputil"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

// entrezAPIBase is the NCBI Entrez E-utilities root. Declared as a var so
// tests can substitute an httptest server.
var entrezAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Fetcher retrieves document text for one PMID. An empty string with a nil
// error means no text is available; only transport failures are errors.
type Fetcher interface {
	FetchText(ctx context.Context, pmid string) (string, error)
}

// EntrezFetcher fetches the PubMed record XML for a PMID and strips markup,
// yielding the abstract plus surrounding metadata text.
type EntrezFetcher struct {
	Client *http.Client
	Config types.LiteratureConfig
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// FetchText retrieves and flattens the PubMed XML for pmid.
func (f *EntrezFetcher) FetchText(ctx context.Context, pmid string) (string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	if f.Config.NCBIEmail != "" {
		params.Set("email", f.Config.NCBIEmail)
	}
	if f.Config.NCBIAPIKey != "" {
		params.Set("api_key", f.Config.NCBIAPIKey)
	}

	reqURL := entrezAPIBase + "/efetch.fcgi?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, f.Config.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("Entrez request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Entrez returned HTTP %d for PMID %s", resp.StatusCode, pmid)
	}

	var sb strings.Builder
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if readErr != nil {
			break
		}
	}

	text := tagPattern.ReplaceAllString(sb.String(), " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

// Cache memoizes fetched text per PMID for one run. Writes happen at most
// once per PMID; concurrent readers in the filter and extractor stages share
// the same entry (write-once-read-many).
type Cache struct {
	fetcher Fetcher

	mu      sync.Mutex
	entries map[string]string
}

// NewCache wraps fetcher with a run-scoped memo.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string]string),
	}
}

// FetchText returns the cached text for pmid, fetching it on first use.
// Failed fetches are not cached, so a later stage may retry.
func (c *Cache) FetchText(ctx context.Context, pmid string) (string, error) {
	c.mu.Lock()
	text, ok := c.entries[pmid]
	c.mu.Unlock()
	if ok {
		return text, nil
	}

	text, err := c.fetcher.FetchText(ctx, pmid)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	// First writer wins; a concurrent fetch of the same PMID returns
	// identical text anyway.
	if cached, ok := c.entries[pmid]; ok {
		text = cached
	} else {
		c.entries[pmid] = text
	}
	c.mu.Unlock()

	return text, nil
}
