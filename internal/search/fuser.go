package search

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"newsradar/internal/dates"
	"newsradar/internal/news"
)

// placeholderAge is subtracted from now when an entry's date resists
// every parsing strategy. Surfacing an undated article beats dropping
// it.
const placeholderAge = 24 * time.Hour

// reTitleDate finds a date-like substring inside a headline, tried when
// the entry's own date field is unparseable.
var reTitleDate = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2})\b`)

// Fuser merges the raw feeds of all query variants into one
// deduplicated, date-filtered article list.
type Fuser struct {
	dates *dates.Parser
	clock func() time.Time
	log   *logrus.Logger
}

func NewFuser(dp *dates.Parser, log *logrus.Logger) *Fuser {
	return &Fuser{dates: dp, clock: time.Now, log: log}
}

// Fuse walks feeds in feed order then item order. The first item seen
// for a link wins; later duplicates from other variants are dropped
// silently. Only items whose resolved publication instant falls inside
// [start, end] survive.
func (f *Fuser) Fuse(feeds []*gofeed.Feed, keyword string, lang news.Language, start, end time.Time) []news.Article {
	seen := make(map[string]struct{})
	var out []news.Article

	for _, feed := range feeds {
		if feed == nil {
			continue
		}
		for _, item := range feed.Items {
			link := news.NormalizeLink(item.Link)
			if link == "" {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}

			title, source := splitTitleSource(item.Title)
			if title == "" {
				continue
			}

			published := f.resolvePublished(item)
			if published.Before(start) || published.After(end) {
				continue
			}

			seen[link] = struct{}{}
			out = append(out, news.Article{
				Title:       title,
				Link:        link,
				Published:   published,
				Source:      source,
				Keyword:     keyword,
				Language:    lang.DisplayName(),
				Description: descriptionText(item.Description),
			})
		}
	}
	return out
}

func (f *Fuser) resolvePublished(item *gofeed.Item) time.Time {
	if t, err := f.dates.Parse(item.Published); err == nil {
		return t
	}
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if m := reTitleDate.FindString(item.Title); m != "" {
		if t, err := f.dates.Parse(m); err == nil {
			return t
		}
	}
	f.log.WithField("link", item.Link).Debug("entry date unparseable, using placeholder")
	return f.clock().UTC().Add(-placeholderAge)
}

// Google News headlines arrive as "Headline - Publisher"; the feed has
// no reliable publisher field once parsed, so the suffix is the source.
func splitTitleSource(title string) (string, string) {
	title = strings.TrimSpace(title)
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		head := strings.TrimSpace(title[:idx])
		src := strings.TrimSpace(title[idx+3:])
		if head != "" && src != "" {
			return head, src
		}
	}
	return title, news.UnknownSource
}

// descriptionText reduces a feed summary, usually an HTML fragment, to
// plain text.
func descriptionText(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return desc
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
