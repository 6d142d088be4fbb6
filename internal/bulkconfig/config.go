// Package bulkconfig loads the process-wide settings the bulk core treats
// as shared, externally-owned state: stealth mode, the CliFM temp
// directory, the auto-list preference, and an editor override.
package bulkconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only configuration schema version this package
// understands.
const CurrentVersion = 1

// Config is the bulk-core configuration file shape.
type Config struct {
	Version        int    `yaml:"version"`
	StealthMode    bool   `yaml:"stealth_mode"`
	TempDir        string `yaml:"temp_dir"`
	AutoList       bool   `yaml:"auto_list"`
	EditorOverride string `yaml:"editor_override,omitempty"`
}

// Default returns the configuration CliFM ships with out of the box.
func Default() *Config {
	return &Config{
		Version:  CurrentVersion,
		TempDir:  filepath.Join(os.TempDir(), "clifm"),
		AutoList: true,
	}
}

// Load reads and parses the configuration file at path. A missing file is
// not an error — it yields Default() — but a malformed or unsupported one
// is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied config, intentional
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, cfg.Version, CurrentVersion)
	}

	if errs := Validate(cfg); errs.HasErrors() {
		return nil, errs
	}

	return cfg, nil
}

// DefaultPath returns ~/.config/clifm-bulk/bulk.yaml, the conventional
// location for this configuration file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "clifm-bulk", "bulk.yaml"), nil
}
