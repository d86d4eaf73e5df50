package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"newsradar/internal/cache"
	"newsradar/internal/dates"
	"newsradar/internal/news"
)

func newTestSearcher(t *testing.T, handler http.Handler) (*Searcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := testLogger()
	c, err := cache.New(t.TempDir(), 6*time.Hour, log)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	planner := NewPlanner(rand.New(rand.NewSource(1)))
	planner.BaseURL = srv.URL
	fetcher := NewFetcher(5*time.Second, rate.NewLimiter(rate.Inf, 1), log)
	fetcher.baseDelay = time.Millisecond
	fuser := NewFuser(dates.NewParser(), log)
	return NewSearcher(c, planner, fetcher, fuser, log), srv
}

func rssWith(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>results</title>%s</channel></rss>`, items)
}

func rssItem(title, link, pub string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>`, title, link, pub)
}

func TestSearchOneInvalidRangeMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, rssWith(""))
	}))

	start := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.SearchOne(context.Background(), "acquisition", start, end, news.Portuguese)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero network calls, got %d", calls.Load())
	}
}

func TestSearchOneDeduplicatesAcrossVariants(t *testing.T) {
	// Every variant returns the same link with different titles; the
	// fused result must contain exactly one article for it.
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssWith(
			rssItem("Aquisição anunciada - Valor", "https://valor.example.com/deal", "Fri, 05 Jan 2024 10:00:00 +0000")+
				rssItem("Empresa compra rival - Exame", "https://valor.example.com/deal", "Fri, 05 Jan 2024 11:00:00 +0000"),
		))
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC)
	res, err := s.SearchOne(context.Background(), "acquisition", start, end, news.Portuguese)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Articles) != 1 {
		t.Fatalf("expected exactly 1 article for the duplicated link, got %d", len(res.Articles))
	}
	if res.Articles[0].Link != "https://valor.example.com/deal" {
		t.Errorf("link = %q", res.Articles[0].Link)
	}
}

func TestSearchOneUsesCacheOnSecondCall(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, rssWith(rssItem("Story - A", "https://a.example.com/1", "Fri, 05 Jan 2024 10:00:00 +0000")))
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	first, err := s.SearchOne(context.Background(), "merger", start, end, news.Portuguese)
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	if first.FromCache {
		t.Error("first search should not come from cache")
	}
	fetched := calls.Load()
	if fetched == 0 {
		t.Fatal("expected network calls on first search")
	}

	second, err := s.SearchOne(context.Background(), "merger", start.Add(3*time.Hour), end.Add(5*time.Hour), news.Portuguese)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if !second.FromCache {
		t.Error("second search should hit the cache (same calendar range)")
	}
	if calls.Load() != fetched {
		t.Errorf("cache hit still made network calls: %d -> %d", fetched, calls.Load())
	}
	if len(second.Articles) != len(first.Articles) {
		t.Errorf("cached list differs: %d vs %d", len(second.Articles), len(first.Articles))
	}
}

func TestSearchOneSurvivesVariantFailures(t *testing.T) {
	// The plain variant fails hard; the others serve one article each.
	var calls atomic.Int32
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= 3 { // all retry attempts of the first variant
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, rssWith(rssItem("Story - A", "https://a.example.com/1", "Fri, 05 Jan 2024 10:00:00 +0000")))
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	res, err := s.SearchOne(context.Background(), "rates", start, end, news.English)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Articles) != 1 {
		t.Errorf("expected surviving variants to contribute 1 article, got %d", len(res.Articles))
	}
}

func TestSearchBatchOrderingAndIsolation(t *testing.T) {
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "bad"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.Contains(q, "old"):
			fmt.Fprint(w, rssWith(rssItem("Old story - A", "https://a.example.com/old", "Tue, 02 Jan 2024 09:00:00 +0000")))
		default:
			fmt.Fprint(w, rssWith(rssItem("New story - B", "https://b.example.com/new", "Sat, 06 Jan 2024 18:00:00 +0000")))
		}
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	batch, err := s.SearchBatch(context.Background(),
		[]string{"old", "new", "bad"},
		[]news.Language{news.English},
		start, end)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	if batch.Attempted != 3 {
		t.Errorf("Attempted = %d", batch.Attempted)
	}
	if len(batch.Articles) != 2 {
		t.Fatalf("expected 2 articles from the surviving pairs, got %d", len(batch.Articles))
	}
	for i := 1; i < len(batch.Articles); i++ {
		if batch.Articles[i-1].Published.Before(batch.Articles[i].Published) {
			t.Errorf("batch not sorted newest-first at index %d", i)
		}
	}
	if batch.Articles[0].Link != "https://b.example.com/new" {
		t.Errorf("newest article first, got %q", batch.Articles[0].Link)
	}
}

func TestSearchOneDoesNotCacheTotalFailure(t *testing.T) {
	var calls atomic.Int32
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	res, err := s.SearchOne(context.Background(), "outage", start, end, news.English)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Articles) != 0 {
		t.Fatalf("expected zero articles, got %d", len(res.Articles))
	}
	first := calls.Load()

	// The failed query must not have been cached as an empty result.
	res, err = s.SearchOne(context.Background(), "outage", start, end, news.English)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if res.FromCache {
		t.Error("total fetch failure was served from cache")
	}
	if calls.Load() == first {
		t.Error("expected the second search to hit the network again")
	}
}

func TestSearchOneReturnsResultsWhenCacheWriteFails(t *testing.T) {
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssWith(rssItem("Story - A", "https://a.example.com/1", "Fri, 05 Jan 2024 10:00:00 +0000")))
	}))

	// Replace the cache directory with a regular file so Store cannot
	// write its entry. The cache is an optimization, not a correctness
	// dependency: the fused articles must still come back.
	dir := s.cache.Dir()
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	res, err := s.SearchOne(context.Background(), "merger", start, end, news.English)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Articles) != 1 {
		t.Fatalf("expected 1 article despite cache write failure, got %d", len(res.Articles))
	}
	if res.CacheWriteErr == nil {
		t.Error("expected CacheWriteErr to report the failed store")
	}
}

func TestSearchBatchInvalidRange(t *testing.T) {
	s, _ := newTestSearcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssWith(""))
	}))
	start := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.SearchBatch(context.Background(), []string{"a"}, []news.Language{news.English}, start, end); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}
