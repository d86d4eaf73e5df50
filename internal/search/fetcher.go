package search

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 500 * time.Millisecond

	// Browser-like UA; the endpoint serves bots a degraded feed.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 newsradar/0.1 (+personal use)"
)

// FetchError reports retry exhaustion for one variant URL. Callers treat
// it as "zero results for this variant", never as a fatal abort.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves one feed URL with bounded exponential-backoff retry.
// All variants of all queries go to the same endpoint, so a shared rate
// limiter throttles request starts.
type Fetcher struct {
	parser    *gofeed.Parser
	limiter   *rate.Limiter
	log       *logrus.Logger
	baseDelay time.Duration
}

func NewFetcher(timeout time.Duration, limiter *rate.Limiter, log *logrus.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent
	return &Fetcher{parser: parser, limiter: limiter, log: log, baseDelay: fetchBaseDelay}
}

// Fetch parses the feed at url, retrying transient failures up to
// fetchAttempts total attempts. A feed with zero items is a valid
// outcome, not an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, &FetchError{URL: url, Attempts: attempt, Err: err}
			}
		}

		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err == nil {
			if len(feed.Items) == 0 {
				f.log.WithField("url", url).Debug("feed returned zero items")
			}
			return feed, nil
		}
		lastErr = err
		f.log.WithFields(logrus.Fields{"url": url, "attempt": attempt}).
			Debugf("fetch attempt failed: %v", err)

		if attempt == fetchAttempts {
			break
		}
		select {
		case <-time.After(f.backoff(attempt)):
		case <-ctx.Done():
			return nil, &FetchError{URL: url, Attempts: attempt, Err: ctx.Err()}
		}
	}
	return nil, &FetchError{URL: url, Attempts: fetchAttempts, Err: lastErr}
}

// backoff doubles the base delay per attempt and adds up to 50% jitter.
func (f *Fetcher) backoff(attempt int) time.Duration {
	d := f.baseDelay << (attempt - 1)
	return d + time.Duration(rand.Int63n(int64(d/2)+1))
}
