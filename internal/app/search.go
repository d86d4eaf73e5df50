package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newsradar/internal/news"
	"newsradar/internal/report"
	"newsradar/internal/search"
)

var (
	flagKeywords []string
	flagLangs    []string
	flagFrom     string
	flagTo       string
	flagOut      string
	flagFormat   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search Google News for keywords within a date window",
	Example: `  newsradar search -k "petrobras acquisition" -l pt -l en --from 01/01/2024 --to 07/01/2024
  newsradar search --from 01/01/2024 --to 07/01/2024 --out results.docx --format docx`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&flagKeywords, "keyword", "k", nil, "keyword to search (repeatable; default: stored keywords)")
	searchCmd.Flags().StringSliceVarP(&flagLangs, "lang", "l", []string{"pt", "en"}, "language editions to search (pt, en)")
	searchCmd.Flags().StringVar(&flagFrom, "from", "", "start date (DD/MM/YYYY); default: 7 days ago")
	searchCmd.Flags().StringVar(&flagTo, "to", "", "end date (DD/MM/YYYY); default: today")
	searchCmd.Flags().StringVar(&flagOut, "out", "", "export results to this file")
	searchCmd.Flags().StringVar(&flagFormat, "format", "text", "export format: text, json, docx")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := buildEnv()
	if err != nil {
		return err
	}

	keywords := flagKeywords
	if len(keywords) == 0 {
		keywords = e.keywords.Load(flagUser)
	}
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords: pass --keyword or store some with 'newsradar keywords add'")
	}

	langs, err := parseLangs(flagLangs)
	if err != nil {
		return err
	}
	start, end, err := parseRange(flagFrom, flagTo)
	if err != nil {
		return err
	}

	fmt.Printf("Searching %d keyword(s) in %d language(s), %s to %s...\n",
		len(keywords), len(langs), start.Format("02/01/2006"), end.Format("02/01/2006"))

	batch, err := e.searcher.SearchBatch(cmd.Context(), keywords, langs, start, end)
	if err != nil {
		return err
	}
	printBatch(batch)

	if flagOut != "" {
		if err := exportArticles(flagOut, flagFormat, batch.Articles); err != nil {
			return err
		}
		fmt.Printf("Exported %d article(s) to %s\n", len(batch.Articles), flagOut)
	}
	return nil
}

func parseLangs(raw []string) ([]news.Language, error) {
	var langs []news.Language
	for _, r := range raw {
		lang, ok := news.ParseLanguage(r)
		if !ok {
			return nil, fmt.Errorf("unknown language %q (supported: pt, en)", r)
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

// parseRange accepts DD/MM/YYYY and YYYY-MM-DD; the end date is pushed
// to the last second of its day so the window is inclusive.
func parseRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -7)
	end := now
	if from != "" {
		t, err := parseDay(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
		start = t
	}
	if to != "" {
		t, err := parseDay(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
		end = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return start, end, nil
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use DD/MM/YYYY)", s)
}

func printBatch(batch search.BatchResult) {
	fmt.Printf("\n=== Search Results (%d articles) ===\n", len(batch.Articles))
	for i, a := range batch.Articles {
		fmt.Printf("\n%d. %s\n", i+1, a.Title)
		fmt.Printf("   Source: %s\n", a.Source)
		fmt.Printf("   Date: %s\n", a.PublishedDisplay())
		fmt.Printf("   Keyword: %s | Language: %s\n", a.Keyword, a.Language)
		fmt.Printf("   Link: %s\n", a.Link)
	}
	if len(batch.Errors) > 0 {
		fmt.Printf("\n%d of %d keyword/language pairs failed:\n", len(batch.Errors), batch.Attempted)
		for _, pe := range batch.Errors {
			fmt.Printf("  - %q (%s): %v\n", pe.Keyword, pe.Language, pe.Err)
		}
	} else if len(batch.Articles) == 0 {
		fmt.Println("\nNo articles found for the selected keywords and period.")
	}
}

func exportArticles(path, format string, articles []news.Article) error {
	switch strings.ToLower(format) {
	case "text", "txt":
		return report.WriteText(path, articles)
	case "json":
		return report.WriteJSON(path, articles)
	case "docx":
		return report.WriteDocx(path, articles)
	}
	return fmt.Errorf("unknown export format %q (supported: text, json, docx)", format)
}
