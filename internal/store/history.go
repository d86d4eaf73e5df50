package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"newsradar/internal/news"
)

// HistoryEntry is one saved search: the query that produced it, its
// articles, and which of them the analyst marked relevant (by index into
// Articles). The pipeline never reads history back; it is write-only
// from the core's point of view.
type HistoryEntry struct {
	ID       string         `json:"id"`
	Keyword  string         `json:"keyword"`
	Language string         `json:"language"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	SavedAt  time.Time      `json:"saved_at"`
	Articles []news.Article `json:"articles"`
	Relevant map[int]bool   `json:"relevant"`
}

// History persists per-user search history as one JSON file per user.
// Unlike the cache, a corrupt history file is surfaced: it is user data,
// not a disposable optimization.
type History struct {
	dir   string
	clock func() time.Time
}

func NewHistory(dir string) *History {
	return &History{dir: dir, clock: time.Now}
}

func (h *History) path(username string) string {
	return filepath.Join(h.dir, username+"_history.json")
}

// Load returns the user's saved entries; a missing file is an empty
// history.
func (h *History) Load(username string) ([]HistoryEntry, error) {
	data, err := os.ReadFile(h.path(username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("history file for %s is corrupt: %w", username, err)
	}
	return entries, nil
}

// Append saves a new entry and returns it with its assigned ID.
func (h *History) Append(username string, entry HistoryEntry) (HistoryEntry, error) {
	entries, err := h.Load(username)
	if err != nil {
		return HistoryEntry{}, err
	}
	entry.ID = uuid.NewString()
	entry.SavedAt = h.clock()
	if entry.Relevant == nil {
		entry.Relevant = map[int]bool{}
	}
	entries = append(entries, entry)
	if err := h.save(username, entries); err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

// Clear removes the user's history file and reports how many entries it
// held.
func (h *History) Clear(username string) (int, error) {
	entries, err := h.Load(username)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := os.Remove(h.path(username)); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (h *History) save(username string, entries []HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}
	path := h.path(username)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return os.Rename(tmp, path)
}
