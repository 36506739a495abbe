// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Rename.Dir == "" {
		errs = append(errs, "rename.dir: required")
	} else if _, err := os.Stat(c.Rename.Dir); os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("rename.dir: directory %q does not exist", c.Rename.Dir))
	}
	if c.Rename.MaxEpisodeCount < 0 {
		errs = append(errs, fmt.Sprintf("rename.max_episode_count: must be positive, got %d", c.Rename.MaxEpisodeCount))
	}
	if c.Rename.MaxIterations < 0 {
		errs = append(errs, fmt.Sprintf("rename.max_iterations: must be positive, got %d", c.Rename.MaxIterations))
	}
	for _, ext := range c.Rename.ExcludeFileTypes {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, "rename.exclude_file_types: empty entry")
		}
	}

	if c.Copy.Enabled {
		if c.Copy.Dir == "" {
			errs = append(errs, "copy.dir: required when copy is enabled")
		}
		if !strings.Contains(c.Copy.Structure, "{title}") {
			errs = append(errs, fmt.Sprintf("copy.structure: must contain {title}, got %q", c.Copy.Structure))
		}
	}

	if c.Backup.Enabled {
		if c.Backup.Source == "" {
			errs = append(errs, "backup.source: required when backup is enabled")
		}
		if c.Backup.Destination == "" {
			errs = append(errs, "backup.destination: required when backup is enabled")
		}
	}
	if _, err := c.Backup.SinceTime(); err != nil {
		errs = append(errs, err.Error())
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
