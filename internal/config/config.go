// Package config handles wikid's optional on-disk configuration: an
// XDG-style TOML file carrying a default vault path, workspace-walk
// ignore rules, and a debug flag.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is wikid's on-disk configuration.
type Config struct {
	// VaultPath is the default workspace root, used when the LSP client's
	// initialize request omits rootUri/workspaceFolders and no --vault-path
	// flag was given.
	VaultPath string `toml:"vault_path"`

	// Ignore lists additional directory names the workspace walk skips,
	// beyond the built-in defaults (.git, node_modules, dotdirs).
	Ignore []string `toml:"ignore"`

	// Debug enables verbose stderr logging.
	Debug bool `toml:"debug"`
}

// Load reads the configuration from the default XDG-style location. A
// missing file is not an error: it yields a zero-value Config, since
// wikid's server also accepts its workspace root from the client's
// initialize request and runs fine with no config file at all.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns ~/.config/wikid/config.toml, falling back to
// os.UserConfigDir and finally the current directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "wikid", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "wikid", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

const defaultConfigTemplate = `# wikid configuration
# See: https://github.com/wrenote/wikid

# Default vault path, used when the editor does not supply one.
# vault_path = "/path/to/your/notes"

# Additional directory names to skip during workspace discovery.
# ignore = ["drafts", "archive"]

# debug = false
`

// CreateDefault writes a commented-out default config file if none exists
// yet, returning its path either way.
func CreateDefault() (string, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
