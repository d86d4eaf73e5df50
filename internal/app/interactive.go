package app

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newsradar/internal/news"
	"newsradar/internal/search"
	"newsradar/internal/store"
)

// runInteractive is the dashboard replacement: login, then a menu loop
// over keyword management, searching, relevance marking and export.
func runInteractive(cmd *cobra.Command, args []string) error {
	e, err := buildEnv()
	if err != nil {
		return err
	}
	in := bufio.NewReader(os.Stdin)

	username, err := login(in, e)
	if err != nil {
		return err
	}

	var lastResults []news.Article
	for {
		fmt.Println("\n=== newsradar ===")
		fmt.Println("1. Add keywords")
		fmt.Println("2. Remove keywords")
		fmt.Println("3. View keywords")
		fmt.Println("4. Search news")
		fmt.Println("5. Export last results")
		fmt.Println("6. Clear cache")
		fmt.Println("7. Quit")
		choice, err := prompt(in, "\nChoose an option (1-7): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := addKeywordsLoop(in, e, username); err != nil {
				fmt.Println("error:", err)
			}
		case "2":
			if err := removeKeywordsLoop(in, e, username); err != nil {
				fmt.Println("error:", err)
			}
		case "3":
			listKeywords(e, username)
		case "4":
			results, err := interactiveSearch(cmd, in, e, username)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if len(results) > 0 {
				lastResults = results
			}
		case "5":
			if len(lastResults) == 0 {
				fmt.Println("No results to export; run a search first.")
				continue
			}
			if err := interactiveExport(in, lastResults); err != nil {
				fmt.Println("error:", err)
			}
		case "6":
			n, err := e.cache.Clear()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("Removed %d cache entr%s.\n", n, plural(n, "y", "ies"))
		case "7":
			fmt.Println("Bye.")
			return nil
		default:
			fmt.Println("Invalid option, choose 1-7.")
		}
	}
}

func login(in *bufio.Reader, e *env) (string, error) {
	for {
		username := flagUser
		if username == "" {
			u, err := prompt(in, "Username: ")
			if err != nil {
				return "", err
			}
			username = u
		}
		password, err := prompt(in, "Password: ")
		if err != nil {
			return "", err
		}
		if e.auth.Verify(username, password) {
			entries, err := e.history.Load(username)
			if err != nil {
				fmt.Println("warning: could not load history:", err)
			} else if len(entries) > 0 {
				fmt.Printf("Welcome, %s. %d saved search(es) in your history.\n", username, len(entries))
			} else {
				fmt.Printf("Welcome, %s.\n", username)
			}
			return username, nil
		}
		fmt.Println("Invalid credentials, try again.")
	}
}

func addKeywordsLoop(in *bufio.Reader, e *env, username string) error {
	fmt.Println("Enter keywords one per line; blank line to finish.")
	for {
		kw, err := prompt(in, "> ")
		if err != nil {
			return err
		}
		if kw == "" {
			return nil
		}
		if _, err := e.keywords.Add(username, kw); err != nil {
			return err
		}
		fmt.Printf("Added %q.\n", kw)
	}
}

func removeKeywordsLoop(in *bufio.Reader, e *env, username string) error {
	keywords := e.keywords.Load(username)
	if len(keywords) == 0 {
		fmt.Println("No keywords stored.")
		return nil
	}
	listKeywords(e, username)
	choice, err := prompt(in, "Number to remove (blank to cancel): ")
	if err != nil || choice == "" {
		return err
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(keywords) {
		fmt.Println("Invalid number.")
		return nil
	}
	removed := keywords[idx-1]
	if _, err := e.keywords.Remove(username, removed); err != nil {
		return err
	}
	fmt.Printf("Removed %q.\n", removed)
	return nil
}

func listKeywords(e *env, username string) {
	keywords := e.keywords.Load(username)
	if len(keywords) == 0 {
		fmt.Println("No keywords stored.")
		return
	}
	for i, kw := range keywords {
		fmt.Printf("%d. %s\n", i+1, kw)
	}
}

func interactiveSearch(cmd *cobra.Command, in *bufio.Reader, e *env, username string) ([]news.Article, error) {
	keywords := e.keywords.Load(username)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords stored; add some first")
	}

	listKeywords(e, username)
	selected, err := selectKeywords(in, keywords)
	if err != nil || len(selected) == 0 {
		return nil, err
	}
	langs, err := selectLanguages(in)
	if err != nil {
		return nil, err
	}
	start, end, err := selectPeriod(in)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Searching %s to %s...\n", start.Format("02/01/2006"), end.Format("02/01/2006"))
	batch, err := e.searcher.SearchBatch(cmd.Context(), selected, langs, start, end)
	if err != nil {
		return nil, err
	}
	printBatch(batch)
	if len(batch.Articles) == 0 {
		return nil, nil
	}

	if err := markAndSave(in, e, username, selected, langs, start, end, batch); err != nil {
		fmt.Println("warning: could not save history:", err)
	}
	return batch.Articles, nil
}

func selectKeywords(in *bufio.Reader, keywords []string) ([]string, error) {
	choice, err := prompt(in, "Keyword numbers, comma-separated ('all' for all): ")
	if err != nil {
		return nil, err
	}
	if choice == "" {
		return nil, nil
	}
	if strings.EqualFold(choice, "all") {
		return keywords, nil
	}
	var selected []string
	for _, part := range strings.Split(choice, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 1 || idx > len(keywords) {
			continue
		}
		selected = append(selected, keywords[idx-1])
	}
	if len(selected) == 0 {
		fmt.Println("No valid keywords selected.")
	}
	return selected, nil
}

func selectLanguages(in *bufio.Reader) ([]news.Language, error) {
	fmt.Println("Languages: 1. Portuguese  2. English  3. Both")
	choice, err := prompt(in, "Choose (1-3): ")
	if err != nil {
		return nil, err
	}
	switch choice {
	case "1":
		return []news.Language{news.Portuguese}, nil
	case "2":
		return []news.Language{news.English}, nil
	default:
		return []news.Language{news.Portuguese, news.English}, nil
	}
}

func selectPeriod(in *bufio.Reader) (time.Time, time.Time, error) {
	fmt.Println("Period: 1. Last 24 hours  2. Last week  3. Last month  4. Custom")
	choice, err := prompt(in, "Choose (1-4): ")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := time.Now().UTC()
	switch choice {
	case "1":
		return now.AddDate(0, 0, -1), now, nil
	case "2":
		return now.AddDate(0, 0, -7), now, nil
	case "3":
		return now.AddDate(0, -1, 0), now, nil
	case "4":
		fromRaw, err := prompt(in, "Start date (DD/MM/YYYY): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		toRaw, err := prompt(in, "End date (DD/MM/YYYY): ")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start, err := parseDay(fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := parseDay(toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end.AddDate(0, 0, 1).Add(-time.Second), nil
	default:
		return now.AddDate(0, 0, -7), now, nil
	}
}

func markAndSave(in *bufio.Reader, e *env, username string, keywords []string, langs []news.Language, start, end time.Time, batch search.BatchResult) error {
	choice, err := prompt(in, "\nMark relevant articles? Numbers comma-separated (blank to skip): ")
	if err != nil {
		return err
	}
	relevant := map[int]bool{}
	for _, part := range strings.Split(choice, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && idx >= 1 && idx <= len(batch.Articles) {
			relevant[idx-1] = true
		}
	}

	save, err := prompt(in, "Save this search to history? (y/n): ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(save, "y") {
		return nil
	}

	var langNames []string
	for _, l := range langs {
		langNames = append(langNames, l.DisplayName())
	}
	_, err = e.history.Append(username, store.HistoryEntry{
		Keyword:  strings.Join(keywords, ", "),
		Language: strings.Join(langNames, ", "),
		Start:    start,
		End:      end,
		Articles: batch.Articles,
		Relevant: relevant,
	})
	if err == nil {
		fmt.Println("Search saved to history.")
	}
	return err
}

func interactiveExport(in *bufio.Reader, articles []news.Article) error {
	path, err := prompt(in, "Output file (.txt, .json or .docx): ")
	if err != nil || path == "" {
		return err
	}
	format := "text"
	switch {
	case strings.HasSuffix(path, ".json"):
		format = "json"
	case strings.HasSuffix(path, ".docx"):
		format = "docx"
	}
	if err := exportArticles(path, format, articles); err != nil {
		return err
	}
	fmt.Printf("Exported %d article(s) to %s\n", len(articles), path)
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
