package search

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"newsradar/internal/news"
)

// DefaultBaseURL is the Google News RSS search endpoint.
const DefaultBaseURL = "https://news.google.com/rss/search"

const maxExtraVariants = 2

// Variant is one differently-phrased request for the same logical
// keyword search.
type Variant struct {
	Label string
	Query string
	URL   string
}

// Planner expands a keyword into query variants: the plain query, the
// exact-phrase query, a date-ordered query, and up to two queries
// augmented with a sampled domain term to widen recall. The sampling
// source is injected so tests can pin a seed; which extra variants run
// varies between calls on purpose.
type Planner struct {
	BaseURL string
	rng     *rand.Rand
}

func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{BaseURL: DefaultBaseURL, rng: rng}
}

func (p *Planner) Plan(keyword string, lang news.Language) []Variant {
	keyword = strings.TrimSpace(keyword)
	prof := profiles[lang]

	variants := []Variant{
		{Label: "plain", Query: keyword},
		{Label: "exact", Query: fmt.Sprintf("%q", keyword)},
		{Label: "date-sorted", Query: keyword},
	}

	terms := domainTerms[lang]
	for _, i := range p.rng.Perm(len(terms))[:min(maxExtraVariants, len(terms))] {
		variants = append(variants, Variant{
			Label: "domain:" + terms[i],
			Query: keyword + " " + terms[i],
		})
	}

	for i := range variants {
		variants[i].URL = p.buildURL(variants[i], prof)
	}
	return variants
}

func (p *Planner) buildURL(v Variant, prof Profile) string {
	u := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s",
		p.BaseURL,
		url.QueryEscape(v.Query),
		url.QueryEscape(prof.HL),
		url.QueryEscape(prof.GL),
		url.QueryEscape(prof.CEID),
	)
	if v.Label == "date-sorted" {
		u += "&scoring=n"
	}
	return u
}
