// Package state persists per-root session state between runs.
package state

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// MaxSessions bounds how many roots are remembered. The least recently
// saved sessions are dropped first.
const MaxSessions = 50

// State holds every remembered session, keyed by absolute root path.
type State struct {
	Sessions map[string]Session `json:"sessions,omitempty"`
}

// Session is what birdeye remembers about one root.
type Session struct {
	Expanded []string  `json:"expanded,omitempty"` // Root-relative expanded directories
	Cursor   string    `json:"cursor,omitempty"`   // Root-relative path under the cursor
	Sort     string    `json:"sort,omitempty"`
	SavedAt  time.Time `json:"savedAt"`
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "birdeye"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{Sessions: make(map[string]Session)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, current); err != nil {
		return err
	}
	if current.Sessions == nil {
		current.Sessions = make(map[string]Session)
	}
	return nil
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetSession returns the session saved for root.
func GetSession(root string) (Session, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Session{}, false
	}
	s, ok := current.Sessions[root]
	return s, ok
}

// SetSession stores the session for root and saves state.
func SetSession(root string, s Session) error {
	mu.Lock()
	if current == nil {
		current = &State{Sessions: make(map[string]Session)}
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	current.Sessions[root] = s
	prune(current.Sessions)
	mu.Unlock()
	return Save()
}

// prune drops the oldest sessions beyond MaxSessions.
func prune(sessions map[string]Session) {
	if len(sessions) <= MaxSessions {
		return
	}
	roots := make([]string, 0, len(sessions))
	for r := range sessions {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool {
		return sessions[roots[i]].SavedAt.After(sessions[roots[j]].SavedAt)
	})
	for _, r := range roots[MaxSessions:] {
		delete(sessions, r)
	}
}
