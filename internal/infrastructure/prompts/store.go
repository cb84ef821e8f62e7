// Package prompts serves prompt templates from a directory of plain text
// files, so operators can tune extraction behavior without a rebuild.
package prompts

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store loads "<name>.txt" files from a single directory. Templates are read
// once and cached; the service restarts to pick up edits.
type Store struct {
	dir string
	log *slog.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	template string
	found    bool
}

func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir:   dir,
		log:   log,
		cache: make(map[string]cacheEntry),
	}
}

// Load returns the template body for name and whether it exists. Template
// names must be plain identifiers; anything with a path separator is refused.
func (s *Store) Load(name string) (string, bool) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", false
	}

	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return entry.template, entry.found
	}

	path := filepath.Join(s.dir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("prompt_template_read_failed", "name", name, "path", path, "error", err)
		}
		s.store(name, cacheEntry{})
		return "", false
	}

	template := strings.TrimSpace(string(data))
	if template == "" {
		s.store(name, cacheEntry{})
		return "", false
	}

	s.store(name, cacheEntry{template: template, found: true})
	return template, true
}

func (s *Store) store(name string, entry cacheEntry) {
	s.mu.Lock()
	s.cache[name] = entry
	s.mu.Unlock()
}
