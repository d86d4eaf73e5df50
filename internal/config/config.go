package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the explicit wiring for the tool: no module-level globals,
// everything the cache, stores and searcher need is passed in from here.
type Config struct {
	CacheDir        string  `yaml:"cache_dir"`
	FreshnessWindow string  `yaml:"freshness_window"`
	ConfigFilePath  string  `yaml:"config_file_path"` // global keywords file
	UsersFile       string  `yaml:"users_file"`
	HistoryDir      string  `yaml:"history_dir"`
	LogLevel        string  `yaml:"log_level"`
	RequestTimeout  string  `yaml:"request_timeout"`
	RateLimit       float64 `yaml:"rate_limit"` // requests per second
}

func Default() *Config {
	return &Config{
		CacheDir:        "data/cache",
		FreshnessWindow: "6h",
		ConfigFilePath:  "data/keywords.json",
		UsersFile:       "data/users.json",
		HistoryDir:      "data/history",
		LogLevel:        "info",
		RequestTimeout:  "20s",
		RateLimit:       2,
	}
}

// Load reads the YAML config at path. A missing file is not an error:
// the defaults apply, matching first-run behavior.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.CacheDir == "" {
		return fmt.Errorf("cache_dir is required")
	}
	if cfg.HistoryDir == "" {
		return fmt.Errorf("history_dir is required")
	}
	if _, err := time.ParseDuration(cfg.FreshnessWindow); cfg.FreshnessWindow != "" && err != nil {
		return fmt.Errorf("freshness_window: %w", err)
	}
	if _, err := time.ParseDuration(cfg.RequestTimeout); cfg.RequestTimeout != "" && err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	return nil
}

func (c *Config) FreshnessDuration() time.Duration {
	d, err := time.ParseDuration(c.FreshnessWindow)
	if err != nil || d <= 0 {
		return 6 * time.Hour
	}
	return d
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// KeywordsFile resolves the keyword file for a user; the empty username
// is the global scope.
func (c *Config) KeywordsFile(username string) string {
	if username == "" {
		return c.ConfigFilePath
	}
	return filepath.Join(filepath.Dir(c.ConfigFilePath), username+"_keywords.json")
}
