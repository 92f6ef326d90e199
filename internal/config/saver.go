package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// saveConfig is the marshaling intermediary that uses string durations.
type saveConfig struct {
	Tree   TreeConfig      `json:"tree" yaml:"tree"`
	Watch  saveWatchConfig `json:"watch" yaml:"watch"`
	UI     UIConfig        `json:"ui" yaml:"ui"`
	Keymap KeymapConfig    `json:"keymap" yaml:"keymap"`
}

type saveWatchConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// toSaveConfig converts Config to the serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Tree: cfg.Tree,
		Watch: saveWatchConfig{
			Enabled:  cfg.Watch.Enabled,
			Debounce: cfg.Watch.Debounce.String(),
		},
		UI:     cfg.UI,
		Keymap: cfg.Keymap,
	}
}

// Save writes the config to ~/.config/birdeye/config.json.
func Save(cfg *Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("no home directory for config")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to path, as YAML when the extension is .yaml
// or .yml and as JSON otherwise.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(sc)
	} else {
		data, err = marshalJSONPreserving(path, sc)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// marshalJSONPreserving encodes sc on top of the keys already present in
// the JSON file at path, so keys birdeye does not manage survive a save.
func marshalJSONPreserving(path string, sc saveConfig) ([]byte, error) {
	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// An unparseable file is overwritten.
		_ = json.Unmarshal(existing, &merged)
	}
	if merged == nil {
		merged = make(map[string]json.RawMessage)
	}

	managed, err := json.Marshal(sc)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.MarshalIndent(merged, "", "  ")
}
