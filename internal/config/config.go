// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load.
const (
	DefaultMaxEpisodeCount = 999
	DefaultMaxIterations   = 256
	DefaultCopyStructure   = "{title}/{title} {season}"
	DefaultLogLevel        = "info"

	DefaultTitlesFile     = "titles.txt"
	DefaultOffsetsFile    = "offsets.txt"
	DefaultMediaTypesFile = "media_types.txt"
	DefaultHistoryFile    = "mediarename.db"
)

// Config is the root configuration structure.
type Config struct {
	Rename  RenameConfig  `toml:"rename"`
	Copy    CopyConfig    `toml:"copy"`
	Tables  TablesConfig  `toml:"tables"`
	Backup  BackupConfig  `toml:"backup"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

type RenameConfig struct {
	Dir              string   `toml:"dir"`
	MaxEpisodeCount  int      `toml:"max_episode_count"`
	MaxIterations    int      `toml:"max_iterations"`
	ExcludeFileTypes []string `toml:"exclude_file_types"`
	UserInteraction  bool     `toml:"user_interaction"`
}

type CopyConfig struct {
	Enabled          bool   `toml:"enabled"`
	Dir              string `toml:"dir"`
	MediaDivision    bool   `toml:"media_division"`
	Structure        string `toml:"structure"`
	DefaultMediaType string `toml:"default_media_type"`
}

// TablesConfig locates the flat key: value override files.
type TablesConfig struct {
	Titles     string `toml:"titles"`
	Offsets    string `toml:"offsets"`
	MediaTypes string `toml:"media_types"`
}

type BackupConfig struct {
	Enabled     bool   `toml:"enabled"`
	Source      string `toml:"source"`
	Destination string `toml:"destination"`
	Since       string `toml:"since"`
}

type HistoryConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// sinceLayouts are accepted for backup.since.
var sinceLayouts = []string{time.RFC3339, "2006-01-02"}

// SinceTime parses backup.since. The zero time means "newest destination file".
func (b BackupConfig) SinceTime() (time.Time, error) {
	if b.Since == "" {
		return time.Time{}, nil
	}
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, b.Since); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("backup.since: cannot parse %q, want YYYY-MM-DD or RFC3339", b.Since)
}

// Load reads, substitutes, decodes and validates the configuration file.
// Problems are reported as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and decodes the file, applying defaults but
// skipping validation and tolerating unresolved environment variables.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	// user_interaction defaults to true, which the zero value cannot express.
	if !md.IsDefined("rename", "user_interaction") {
		cfg.Rename.UserInteraction = true
	}
	cfg.applyDefaults(filepath.Dir(path))

	return &cfg, missing, nil
}

// applyDefaults fills unset fields. Table and history files default to the
// directory holding the config file.
func (c *Config) applyDefaults(dir string) {
	if c.Rename.MaxEpisodeCount == 0 {
		c.Rename.MaxEpisodeCount = DefaultMaxEpisodeCount
	}
	if c.Rename.MaxIterations == 0 {
		c.Rename.MaxIterations = DefaultMaxIterations
	}
	if c.Copy.Structure == "" {
		c.Copy.Structure = DefaultCopyStructure
	}
	if c.Tables.Titles == "" {
		c.Tables.Titles = filepath.Join(dir, DefaultTitlesFile)
	}
	if c.Tables.Offsets == "" {
		c.Tables.Offsets = filepath.Join(dir, DefaultOffsetsFile)
	}
	if c.Tables.MediaTypes == "" {
		c.Tables.MediaTypes = filepath.Join(dir, DefaultMediaTypesFile)
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(dir, DefaultHistoryFile)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references. Unresolved references
// are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
