package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/birdeye"
	configFile = "config.json"
)

// yamlNames are tried, in order, when no config.json exists.
var yamlNames = []string{"config.yaml", "config.yml"}

// rawConfig is the unmarshaling intermediary. Pointer fields tell an
// explicit false apart from a missing key.
type rawConfig struct {
	Tree   rawTreeConfig  `json:"tree" yaml:"tree"`
	Watch  rawWatchConfig `json:"watch" yaml:"watch"`
	UI     rawUIConfig    `json:"ui" yaml:"ui"`
	Keymap KeymapConfig   `json:"keymap" yaml:"keymap"`
}

type rawTreeConfig struct {
	UseGitignore    *bool  `json:"useGitignore" yaml:"useGitignore"`
	ShowHidden      *bool  `json:"showHidden" yaml:"showHidden"`
	HideSystemFiles *bool  `json:"hideSystemFiles" yaml:"hideSystemFiles"`
	Sort            string `json:"sort" yaml:"sort"`
	RestoreSession  *bool  `json:"restoreSession" yaml:"restoreSession"`
}

type rawWatchConfig struct {
	Enabled  *bool  `json:"enabled" yaml:"enabled"`
	Debounce string `json:"debounce" yaml:"debounce"`
}

type rawUIConfig struct {
	ShowFooter *bool             `json:"showFooter" yaml:"showFooter"`
	ShowIcons  *bool             `json:"showIcons" yaml:"showIcons"`
	Theme      string            `json:"theme" yaml:"theme"`
	Colors     map[string]string `json:"colors" yaml:"colors"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/birdeye/config.json, then
// config.yaml and config.yml in the same directory.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw rawConfig
	if err := unmarshal(path, data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// findConfig returns the first existing config file in the config
// directory, or "" if there is none.
func findConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, configDir)
	for _, name := range append([]string{configFile}, yamlNames...) {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func unmarshal(path string, data []byte, raw *rawConfig) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, raw)
	}
	return json.Unmarshal(data, raw)
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// Tree
	if raw.Tree.UseGitignore != nil {
		cfg.Tree.UseGitignore = *raw.Tree.UseGitignore
	}
	if raw.Tree.ShowHidden != nil {
		cfg.Tree.ShowHidden = *raw.Tree.ShowHidden
	}
	if raw.Tree.HideSystemFiles != nil {
		cfg.Tree.HideSystemFiles = *raw.Tree.HideSystemFiles
	}
	if raw.Tree.Sort != "" {
		cfg.Tree.Sort = raw.Tree.Sort
	}
	if raw.Tree.RestoreSession != nil {
		cfg.Tree.RestoreSession = *raw.Tree.RestoreSession
	}

	// Watch
	if raw.Watch.Enabled != nil {
		cfg.Watch.Enabled = *raw.Watch.Enabled
	}
	if raw.Watch.Debounce != "" {
		d, err := time.ParseDuration(raw.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		cfg.Watch.Debounce = d
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.ShowIcons != nil {
		cfg.UI.ShowIcons = *raw.UI.ShowIcons
	}
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
	for k, v := range raw.UI.Colors {
		cfg.UI.Colors[k] = v
	}

	// Keymap
	for k, v := range raw.Keymap.Overrides {
		cfg.Keymap.Overrides[k] = v
	}
	return nil
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// testConfigPath replaces ConfigPath in tests.
var testConfigPath string

// SetTestConfigPath points ConfigPath at path. For tests only.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath undoes SetTestConfigPath.
func ResetTestConfigPath() { testConfigPath = "" }

// ConfigPath returns the path to the JSON config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
