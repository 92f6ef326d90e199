package config

import (
	"fmt"
	"time"

	"github.com/marcus/birdeye/internal/tree"
)

// Config is the root configuration structure.
type Config struct {
	Tree   TreeConfig   `json:"tree" yaml:"tree"`
	Watch  WatchConfig  `json:"watch" yaml:"watch"`
	UI     UIConfig     `json:"ui" yaml:"ui"`
	Keymap KeymapConfig `json:"keymap" yaml:"keymap"`
}

// TreeConfig controls which entries are listed and how they are ordered.
type TreeConfig struct {
	UseGitignore    bool   `json:"useGitignore" yaml:"useGitignore"`
	ShowHidden      bool   `json:"showHidden" yaml:"showHidden"`
	HideSystemFiles bool   `json:"hideSystemFiles" yaml:"hideSystemFiles"`
	Sort            string `json:"sort" yaml:"sort"` // "dirs-first" or "name"

	// RestoreSession reopens the directories and cursor left at the last
	// exit from the same root.
	RestoreSession bool `json:"restoreSession" yaml:"restoreSession"`
}

// WatchConfig configures automatic refresh on filesystem changes.
type WatchConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool   `json:"showFooter" yaml:"showFooter"`
	ShowIcons  bool   `json:"showIcons" yaml:"showIcons"`
	Theme      string `json:"theme" yaml:"theme"`
	// Colors overrides single palette entries, e.g. {"directory": "#3B82F6"}.
	Colors map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// DefaultDebounce is the watcher debounce used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tree: TreeConfig{
			UseGitignore:    true,
			ShowHidden:      true,
			HideSystemFiles: true,
			Sort:            "dirs-first",
			RestoreSession:  false,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: DefaultDebounce,
		},
		UI: UIConfig{
			ShowFooter: true,
			ShowIcons:  true,
			Theme:      "default",
			Colors:     make(map[string]string),
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultDebounce
	}
	if _, err := tree.ParseSortMode(c.Tree.Sort); err != nil {
		return fmt.Errorf("tree.sort: %w", err)
	}
	return nil
}

// SortMode returns the parsed tree.sort value.
func (c *Config) SortMode() tree.SortMode {
	mode, _ := tree.ParseSortMode(c.Tree.Sort)
	return mode
}
