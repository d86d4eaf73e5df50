package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"newsradar/internal/news"
)

// DefaultFreshness is how long a stored result set is served before the
// query goes back to the network.
const DefaultFreshness = 6 * time.Hour

// Fingerprint derives the cache key for a query. Keyword whitespace and
// the time-of-day of the range bounds are irrelevant: the same calendar
// range always collapses to the same slot.
func Fingerprint(keyword string, lang news.Language, start, end time.Time) string {
	key := fmt.Sprintf("%s|%s|%s|%s",
		strings.TrimSpace(keyword),
		lang,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

type entry struct {
	WrittenAt time.Time      `json:"written_at"`
	Articles  []news.Article `json:"articles"`
}

// Cache stores one JSON blob per fingerprint under dir. Entries are
// overwritten whole, never updated in place; expired entries stay on
// disk until Clear.
type Cache struct {
	dir       string
	freshness time.Duration
	clock     func() time.Time
	log       *logrus.Logger
}

func New(dir string, freshness time.Duration, log *logrus.Logger) (*Cache, error) {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir, freshness: freshness, clock: time.Now, log: log}, nil
}

// Lookup returns the cached article list for fp, or ok=false when the
// entry is absent, expired, or unreadable. Corrupt entries degrade to a
// miss; they are never fatal.
func (c *Cache) Lookup(fp string) ([]news.Article, bool) {
	data, err := os.ReadFile(c.entryPath(fp))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.WithField("fingerprint", fp).Warnf("discarding corrupt cache entry: %v", err)
		return nil, false
	}
	if c.clock().Sub(e.WrittenAt) > c.freshness {
		return nil, false
	}
	return e.Articles, true
}

// Store overwrites the entry for fp atomically (temp file then rename),
// so a crash mid-write never leaves a half-written entry behind.
func (c *Cache) Store(fp string, articles []news.Article) error {
	e := entry{WrittenAt: c.clock(), Articles: articles}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	path := c.entryPath(fp)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

// Clear deletes every persisted entry and reports how many were removed.
func (c *Cache) Clear() (int, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return removed, fmt.Errorf("removing %s: %w", filepath.Base(m), err)
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) entryPath(fp string) string {
	return filepath.Join(c.dir, fp+".json")
}

// Dir returns the directory holding the persisted entries.
func (c *Cache) Dir() string {
	return c.dir
}

// SetClock replaces the time source; tests use it to exercise expiry.
func (c *Cache) SetClock(clock func() time.Time) {
	c.clock = clock
}
