package app

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"newsradar/internal/auth"
	"newsradar/internal/cache"
	"newsradar/internal/config"
	"newsradar/internal/dates"
	"newsradar/internal/logging"
	"newsradar/internal/search"
	"newsradar/internal/store"
)

var version = "dev"

var (
	flagConfig string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:   "newsradar",
	Short: "Keyword-driven Google News monitor",
	Long:  "newsradar registers search keywords, queries Google News per (keyword, language) pair within a date window, deduplicates and caches the results, and lets an analyst mark articles as relevant for export.",
	RunE:  runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "username scoping keywords and history (empty = global)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsradar %s\n", version)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env holds everything built from configuration; no package-level state
// beyond the cobra wiring.
type env struct {
	cfg      *config.Config
	searcher *search.Searcher
	cache    *cache.Cache
	keywords *store.Keywords
	history  *store.History
	auth     *auth.Authenticator
}

func buildEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel)

	c, err := cache.New(cfg.CacheDir, cfg.FreshnessDuration(), log)
	if err != nil {
		return nil, err
	}

	limit := rate.Limit(cfg.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	planner := search.NewPlanner(rand.New(rand.NewSource(time.Now().UnixNano())))
	fetcher := search.NewFetcher(cfg.RequestTimeoutDuration(), rate.NewLimiter(limit, 1), log)
	fuser := search.NewFuser(dates.NewParser(), log)
	searcher := search.NewSearcher(c, planner, fetcher, fuser, log)

	authn, err := auth.New(cfg.UsersFile)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:      cfg,
		searcher: searcher,
		cache:    c,
		keywords: store.NewKeywords(cfg, log),
		history:  store.NewHistory(cfg.HistoryDir),
		auth:     authn,
	}, nil
}
