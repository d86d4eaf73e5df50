package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"newsradar/internal/cache"
	"newsradar/internal/news"
)

// ErrInvalidRange rejects queries whose start date is after the end
// date, before any network access happens.
var ErrInvalidRange = errors.New("start date is after end date")

// ErrUnknownLanguage rejects languages without an edition profile.
var ErrUnknownLanguage = errors.New("unknown language")

// Result is the outcome of one (keyword, language, range) search.
// CacheWriteErr is advisory: the articles are valid even when caching
// them failed.
type Result struct {
	Articles      []news.Article
	FromCache     bool
	CacheWriteErr error
}

// PairError records a (keyword, language) pair whose search failed
// outright inside a batch.
type PairError struct {
	Keyword  string
	Language news.Language
	Err      error
}

// BatchResult aggregates a cross-product search. Zero articles with
// empty Errors means the feed genuinely had nothing; Errors carries the
// pairs that failed without aborting the rest.
type BatchResult struct {
	Articles  []news.Article
	Attempted int
	Errors    []PairError
}

// Searcher is the pipeline entry point: cache lookup, fetch on miss,
// fuse, cache store.
type Searcher struct {
	cache   *cache.Cache
	planner *Planner
	fetcher *Fetcher
	fuser   *Fuser
	log     *logrus.Logger
}

func NewSearcher(c *cache.Cache, planner *Planner, fetcher *Fetcher, fuser *Fuser, log *logrus.Logger) *Searcher {
	return &Searcher{cache: c, planner: planner, fetcher: fetcher, fuser: fuser, log: log}
}

// SearchOne runs a single (keyword, language) query over [start, end].
// Variants are fetched sequentially; one variant's failure only costs
// that variant's results.
func (s *Searcher) SearchOne(ctx context.Context, keyword string, start, end time.Time, lang news.Language) (Result, error) {
	if start.After(end) {
		return Result{}, ErrInvalidRange
	}
	if !lang.Valid() {
		return Result{}, ErrUnknownLanguage
	}

	fp := cache.Fingerprint(keyword, lang, start, end)
	if articles, ok := s.cache.Lookup(fp); ok {
		s.log.WithFields(logrus.Fields{"keyword": keyword, "lang": lang}).Debug("cache hit")
		return Result{Articles: articles, FromCache: true}, nil
	}

	variants := s.planner.Plan(keyword, lang)
	feeds := make([]*gofeed.Feed, 0, len(variants))
	for _, v := range variants {
		feed, err := s.fetcher.Fetch(ctx, v.URL)
		if err != nil {
			s.log.WithFields(logrus.Fields{"keyword": keyword, "variant": v.Label}).
				Warnf("variant fetch failed: %v", err)
			continue
		}
		feeds = append(feeds, feed)
	}

	fused := s.fuser.Fuse(feeds, keyword, lang, start, end)

	res := Result{Articles: fused}
	// Only a successful fetch creates an entry; caching an empty list
	// after every variant failed would hide the outage for the whole
	// freshness window.
	if len(feeds) > 0 {
		if err := s.cache.Store(fp, fused); err != nil {
			s.log.WithField("keyword", keyword).Warnf("cache write failed: %v", err)
			res.CacheWriteErr = err
		}
	}
	return res, nil
}

// SearchBatch searches the cross product of keywords and languages and
// returns the combined list sorted by publication date, newest first.
// A failing pair contributes zero articles and is reported, not fatal.
func (s *Searcher) SearchBatch(ctx context.Context, keywords []string, langs []news.Language, start, end time.Time) (BatchResult, error) {
	if start.After(end) {
		return BatchResult{}, ErrInvalidRange
	}

	var batch BatchResult
	for _, kw := range keywords {
		for _, lang := range langs {
			batch.Attempted++
			res, err := s.SearchOne(ctx, kw, start, end, lang)
			if err != nil {
				batch.Errors = append(batch.Errors, PairError{Keyword: kw, Language: lang, Err: err})
				continue
			}
			batch.Articles = append(batch.Articles, res.Articles...)
		}
	}

	sort.SliceStable(batch.Articles, func(i, j int) bool {
		return batch.Articles[i].Published.After(batch.Articles[j].Published)
	})
	return batch, nil
}
