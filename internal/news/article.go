package news

import (
	"strings"
	"time"
)

// UnknownSource is attached to articles whose feed entry carries no
// publisher information.
const UnknownSource = "unknown source"

// Language selects which Google News edition a search runs against.
type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

func (l Language) Valid() bool {
	return l == Portuguese || l == English
}

// DisplayName is the label attached to articles for presentation.
func (l Language) DisplayName() string {
	switch l {
	case Portuguese:
		return "Portuguese"
	case English:
		return "English"
	}
	return string(l)
}

// ParseLanguage accepts both codes ("pt") and display names ("portuguese").
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pt", "pt-br", "portuguese", "português":
		return Portuguese, true
	case "en", "en-us", "english":
		return English, true
	}
	return "", false
}

// Article is one fused search result. Link doubles as the dedupe key
// within a single query; Keyword and Language are provenance of the
// search that produced it, so the same story fetched under two keywords
// yields two records.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Published   time.Time `json:"published"`
	Source      string    `json:"source"`
	Keyword     string    `json:"keyword"`
	Language    string    `json:"language"`
	Description string    `json:"description,omitempty"`
}

// PublishedDisplay renders the publication instant at minute precision.
func (a Article) PublishedDisplay() string {
	return a.Published.Format("02/01/2006 15:04")
}

// NormalizeLink guarantees an explicit scheme so links are stable dedupe
// keys and clickable when exported.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return "https://" + strings.TrimLeft(link, "/")
}
