package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gingfrederik/docx"

	"newsradar/internal/news"
)

// WriteDocx renders the article list as a Word report.
func WriteDocx(path string, articles []news.Article) error {
	f := docx.NewFile()

	titleP := f.AddParagraph()
	titleRun := titleP.AddText("News Monitoring Report")
	titleRun.Size(20)
	f.AddParagraph()

	for _, a := range articles {
		p := f.AddParagraph()
		run := p.AddText(a.Title)
		run.Size(14)

		p = f.AddParagraph()
		run = p.AddText(fmt.Sprintf("Source: %s | Date: %s | Keyword: %s | Language: %s",
			a.Source, a.PublishedDisplay(), a.Keyword, a.Language))
		run.Size(10)
		run.Color("808080")

		p = f.AddParagraph()
		run = p.AddText(a.Link)
		run.Size(10)
		run.Color("0000FF")

		if a.Description != "" {
			f.AddParagraph().AddText(a.Description)
		}
		f.AddParagraph().AddText("--------------------------------------------------")
	}

	return f.Save(path)
}

// WriteText writes the plain-text export, one numbered block per
// article.
func WriteText(path string, articles []news.Article) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Search Results (%d articles) ===\n\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(&b, "   Source: %s\n", a.Source)
		fmt.Fprintf(&b, "   Date: %s\n", a.PublishedDisplay())
		fmt.Fprintf(&b, "   Keyword: %s\n", a.Keyword)
		fmt.Fprintf(&b, "   Language: %s\n", a.Language)
		fmt.Fprintf(&b, "   Link: %s\n\n", a.Link)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteJSON writes the article list as indented JSON.
func WriteJSON(path string, articles []news.Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
