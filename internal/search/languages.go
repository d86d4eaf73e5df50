package search

import "newsradar/internal/news"

// Profile carries the Google News edition parameters for a language.
// HL/GL/CEID influence what the endpoint returns.
type Profile struct {
	HL   string // e.g. "pt-BR"
	GL   string // e.g. "BR"
	CEID string // e.g. "BR:pt-419"
}

var profiles = map[news.Language]Profile{
	news.Portuguese: {HL: "pt-BR", GL: "BR", CEID: "BR:pt-419"},
	news.English:    {HL: "en-US", GL: "US", CEID: "US:en"},
}

// domainTerms is the per-language vocabulary sampled by the planner to
// bias extra query variants toward market news.
var domainTerms = map[news.Language][]string{
	news.Portuguese: {"mercado", "finanças", "economia", "negócios", "investimentos"},
	news.English:    {"market", "finance", "economy", "business", "investing"},
}
