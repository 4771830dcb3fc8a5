// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/variant-evidence/internal/httputil"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

// entrezAPIBase is the NCBI Entrez E-utilities root. Declared as a var so
// tests can substitute an httptest server.
var entrezAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// Metadata is the bibliographic record for one PMID. Any field may be
// absent (R2.3).
type Metadata struct {
	Title    string
	Abstract string
	Year     int
}

// EntrezBackend fetches article metadata from PubMed via efetch. It
// implements MetadataBackend.
type EntrezBackend struct {
	Client *http.Client
}

// pubmedArticleSet is the subset of the PubMed efetch XML the pipeline needs.
type pubmedArticleSet struct {
	Articles []struct {
		Citation struct {
			Article struct {
				Title    string `xml:"ArticleTitle"`
				Abstract struct {
					Text []string `xml:"AbstractText"`
				} `xml:"Abstract"`
				Journal struct {
					Issue struct {
						PubDate struct {
							Year       string `xml:"Year"`
							MedlineDate string `xml:"MedlineDate"`
						} `xml:"PubDate"`
					} `xml:"JournalIssue"`
				} `xml:"Journal"`
			} `xml:"Article"`
		} `xml:"MedlineCitation"`
	} `xml:"PubmedArticle"`
}

// FetchMetadata retrieves title, abstract, and publication year for a PMID.
// Missing fields in the record are returned empty, not as errors.
func (b *EntrezBackend) FetchMetadata(ctx context.Context, pmid string, cfg types.LiteratureConfig) (Metadata, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}
	if cfg.NCBIEmail != "" {
		params.Set("email", cfg.NCBIEmail)
	}
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}

	reqURL := entrezAPIBase + "/efetch.fcgi?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return Metadata{}, fmt.Errorf("Entrez request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("Entrez returned HTTP %d for PMID %s", resp.StatusCode, pmid)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return Metadata{}, fmt.Errorf("parsing PubMed XML for PMID %s: %w", pmid, err)
	}
	if len(set.Articles) == 0 {
		return Metadata{}, nil
	}

	article := set.Articles[0].Citation.Article

	m := Metadata{
		Title:    strings.TrimSpace(article.Title),
		Abstract: strings.TrimSpace(strings.Join(article.Abstract.Text, " ")),
	}

	pd := article.Journal.Issue.PubDate
	if pd.Year != "" {
		m.Year, _ = strconv.Atoi(pd.Year)
	} else if len(pd.MedlineDate) >= 4 {
		// MedlineDate holds free-form ranges like "2019 Nov-Dec".
		m.Year, _ = strconv.Atoi(pd.MedlineDate[:4])
	}

	return m, nil
}
