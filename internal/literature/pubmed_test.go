// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

const pubmedXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate><Year>2019</Year></PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Functional analysis of an IFIH1 variant.</ArticleTitle>
        <Abstract>
          <AbstractText>Background text.</AbstractText>
          <AbstractText>Results text.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestFetchMetadata(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, pubmedXML)
	}))
	defer ts.Close()

	old := entrezAPIBase
	entrezAPIBase = ts.URL
	defer func() { entrezAPIBase = old }()

	b := &EntrezBackend{Client: ts.Client()}
	cfg := types.LiteratureConfig{NCBIEmail: "user@example.com", NCBIAPIKey: "nk_1"}
	m, err := b.FetchMetadata(context.Background(), "31589614", cfg)
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}

	if m.Title != "Functional analysis of an IFIH1 variant." {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Abstract != "Background text. Results text." {
		t.Errorf("Abstract = %q", m.Abstract)
	}
	if m.Year != 2019 {
		t.Errorf("Year = %d", m.Year)
	}

	for _, param := range []string{"db=pubmed", "id=31589614", "retmode=xml", "email=user%40example.com", "api_key=nk_1"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("query %q missing %q", gotQuery, param)
		}
	}
}

func TestFetchMetadataMedlineDate(t *testing.T) {
	xml := `<PubmedArticleSet><PubmedArticle><MedlineCitation><Article>
		<Journal><JournalIssue><PubDate><MedlineDate>2019 Nov-Dec</MedlineDate></PubDate></JournalIssue></Journal>
		<ArticleTitle>T</ArticleTitle>
	</Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, xml)
	}))
	defer ts.Close()

	old := entrezAPIBase
	entrezAPIBase = ts.URL
	defer func() { entrezAPIBase = old }()

	b := &EntrezBackend{Client: ts.Client()}
	m, err := b.FetchMetadata(context.Background(), "1", types.LiteratureConfig{})
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if m.Year != 2019 {
		t.Errorf("Year = %d, want 2019 from MedlineDate", m.Year)
	}
}

func TestFetchMetadataNoArticle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<PubmedArticleSet></PubmedArticleSet>`)
	}))
	defer ts.Close()

	old := entrezAPIBase
	entrezAPIBase = ts.URL
	defer func() { entrezAPIBase = old }()

	b := &EntrezBackend{Client: ts.Client()}
	m, err := b.FetchMetadata(context.Background(), "0", types.LiteratureConfig{})
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if m != (Metadata{}) {
		t.Errorf("metadata = %+v, want zero value", m)
	}
}
