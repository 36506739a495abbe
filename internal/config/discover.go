package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "MEDIARENAME_CONFIG"

// ErrNotFound is returned by Discover when no candidate exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath is where init writes a config: $XDG_CONFIG_HOME/mediarename,
// falling back to ~/.config/mediarename.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mediarename", "config.toml")
}

// SearchPaths lists the locations Discover tries, in order.
func SearchPaths() []string {
	return []string{
		"mediarename.toml",
		"config.toml",
		DefaultPath(),
		"/etc/mediarename/config.toml",
	}
}

// Discover returns $MEDIARENAME_CONFIG when set, otherwise the first of
// SearchPaths that exists.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s: %w", EnvConfig, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(paths, ", "))
}
