// Package config handles loading and saving treelist configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/treelist/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme          string `yaml:"theme,omitempty"`           // "dark", "light", "auto"
	ViewportHeight int    `yaml:"viewport_height,omitempty"` // 0 = use terminal height
	ShowDetail     *bool  `yaml:"show_detail,omitempty"`     // Detail pane for the selection
}

// LoadConfig controls how forests are loaded at startup.
type LoadConfig struct {
	DataPath string `yaml:"data_path,omitempty"` // Default forest file (JSONL or SQLite)
	OpenAll  bool   `yaml:"open_all,omitempty"`  // Auto-open every node on load
	Watch    bool   `yaml:"watch,omitempty"`     // Reload when the data file changes
}

// Config is the top-level configuration for treelist.
type Config struct {
	UI   UIConfig   `yaml:"ui,omitempty"`
	Load LoadConfig `yaml:"load,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		UI: UIConfig{
			Theme: "auto",
		},
		Load: LoadConfig{
			Watch: true,
		},
	}
}

// ShowDetail reports the detail-pane preference, defaulting to on.
func (c Config) ShowDetail() bool {
	if c.UI.ShowDetail == nil {
		return true
	}
	return *c.UI.ShowDetail
}

// Dir returns the XDG config directory for treelist.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "treelist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treelist")
}

// Path returns the path to the config file.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file, returning defaults when the file does not
// exist. A corrupt file is an error; a missing one is not.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path, creating the directory if
// needed.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to an explicit path.
func SaveTo(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("no config path available")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
