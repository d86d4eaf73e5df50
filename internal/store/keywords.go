package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"newsradar/internal/config"
)

// Keywords persists per-user keyword lists; the empty username is the
// global scope. The pipeline only ever consumes the loaded list as a
// batch-search input.
type Keywords struct {
	cfg *config.Config
	log *logrus.Logger
}

func NewKeywords(cfg *config.Config, log *logrus.Logger) *Keywords {
	return &Keywords{cfg: cfg, log: log}
}

type keywordsFile struct {
	Keywords []string `json:"keywords"`
}

// Load returns the stored keyword list. A missing or malformed file
// yields an empty list with a logged warning, never an error: a broken
// keywords file should not block searching.
func (k *Keywords) Load(username string) []string {
	path := k.cfg.KeywordsFile(username)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			k.log.Warnf("reading keywords file %s: %v", path, err)
		}
		return nil
	}
	var f keywordsFile
	if err := json.Unmarshal(data, &f); err != nil {
		k.log.Warnf("keywords file %s is malformed, starting empty: %v", path, err)
		return nil
	}
	return f.Keywords
}

// Save writes the keyword list atomically.
func (k *Keywords) Save(username string, keywords []string) error {
	path := k.cfg.KeywordsFile(username)
	data, err := json.MarshalIndent(keywordsFile{Keywords: keywords}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing keywords: %w", err)
	}
	return os.Rename(tmp, path)
}

// Add appends keywords that are not already present, preserving order.
func (k *Keywords) Add(username string, keywords ...string) ([]string, error) {
	current := k.Load(username)
	existing := make(map[string]struct{}, len(current))
	for _, kw := range current {
		existing[kw] = struct{}{}
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := existing[kw]; dup {
			continue
		}
		current = append(current, kw)
		existing[kw] = struct{}{}
	}
	return current, k.Save(username, current)
}

// Remove drops a keyword; removing an absent keyword is a no-op.
func (k *Keywords) Remove(username, keyword string) ([]string, error) {
	current := k.Load(username)
	out := current[:0]
	for _, kw := range current {
		if kw != keyword {
			out = append(out, kw)
		}
	}
	return out, k.Save(username, out)
}
