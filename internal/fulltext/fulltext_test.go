// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fulltext

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

func TestEntrezFetcherStripsMarkup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<PubmedArticleSet>\n  <ArticleTitle>A title.</ArticleTitle>\n  <AbstractText>Some   body\ttext.</AbstractText>\n</PubmedArticleSet>")
	}))
	defer ts.Close()

	old := entrezAPIBase
	entrezAPIBase = ts.URL
	defer func() { entrezAPIBase = old }()

	f := &EntrezFetcher{Client: ts.Client(), Config: types.LiteratureConfig{}}
	text, err := f.FetchText(context.Background(), "100")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "A title. Some body text." {
		t.Errorf("text = %q", text)
	}
}

// countingFetcher records how many times each PMID was fetched.
type countingFetcher struct {
	calls int32
	text  string
	err   error
}

func (c *countingFetcher) FetchText(_ context.Context, _ string) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.text, c.err
}

func TestCacheFetchesOnce(t *testing.T) {
	f := &countingFetcher{text: "document text"}
	cache := NewCache(f)

	for i := 0; i < 3; i++ {
		text, err := cache.FetchText(context.Background(), "100")
		if err != nil {
			t.Fatalf("FetchText: %v", err)
		}
		if text != "document text" {
			t.Errorf("text = %q", text)
		}
	}

	if got := atomic.LoadInt32(&f.calls); got != 1 {
		t.Errorf("fetcher called %d times, want 1", got)
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	f := &countingFetcher{err: fmt.Errorf("boom")}
	cache := NewCache(f)

	if _, err := cache.FetchText(context.Background(), "100"); err == nil {
		t.Fatal("expected error")
	}

	// A later caller retries instead of seeing a cached failure.
	f.err = nil
	f.text = "recovered"
	text, err := cache.FetchText(context.Background(), "100")
	if err != nil {
		t.Fatalf("FetchText after recovery: %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q", text)
	}
	if got := atomic.LoadInt32(&f.calls); got != 2 {
		t.Errorf("fetcher called %d times, want 2", got)
	}
}

func TestCacheConcurrentReaders(t *testing.T) {
	f := &countingFetcher{text: "shared"}
	cache := NewCache(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := cache.FetchText(context.Background(), "100")
			if err != nil || text != "shared" {
				t.Errorf("FetchText = %q, %v", text, err)
			}
		}()
	}
	wg.Wait()
}
