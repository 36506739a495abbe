package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[rename]
dir = "`+dir+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	base := filepath.Dir(path)
	assert.Equal(t, DefaultMaxEpisodeCount, cfg.Rename.MaxEpisodeCount)
	assert.Equal(t, DefaultMaxIterations, cfg.Rename.MaxIterations)
	assert.True(t, cfg.Rename.UserInteraction)
	assert.Equal(t, DefaultCopyStructure, cfg.Copy.Structure)
	assert.Equal(t, filepath.Join(base, DefaultTitlesFile), cfg.Tables.Titles)
	assert.Equal(t, filepath.Join(base, DefaultOffsetsFile), cfg.Tables.Offsets)
	assert.Equal(t, filepath.Join(base, DefaultMediaTypesFile), cfg.Tables.MediaTypes)
	assert.Equal(t, filepath.Join(base, DefaultHistoryFile), cfg.History.Path)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[rename]
dir = "`+dir+`"
max_episode_count = 500
exclude_file_types = ["nfo"]
user_interaction = false

[copy]
enabled = true
dir = "/media"
media_division = true
structure = "{title}/Season {season_number:02}"
default_media_type = "TV Shows"

[tables]
titles = "/etc/mediarename/titles.txt"

[backup]
since = "2024-03-01"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Rename.MaxEpisodeCount)
	assert.Equal(t, []string{"nfo"}, cfg.Rename.ExcludeFileTypes)
	assert.False(t, cfg.Rename.UserInteraction)
	assert.True(t, cfg.Copy.MediaDivision)
	assert.Equal(t, "{title}/Season {season_number:02}", cfg.Copy.Structure)
	assert.Equal(t, "TV Shows", cfg.Copy.DefaultMediaType)
	assert.Equal(t, "/etc/mediarename/titles.txt", cfg.Tables.Titles)
	assert.Equal(t, "debug", cfg.Log.Level)

	since, err := cfg.Backup.SinceTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), since)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEDIARENAME_TEST_DIR", dir)

	path := writeConfig(t, `
[rename]
dir = "${MEDIARENAME_TEST_DIR}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Rename.Dir)
}

func TestLoad_MissingEnv(t *testing.T) {
	path := writeConfig(t, `
[rename]
dir = "${MEDIARENAME_TEST_UNSET_DIR:?downloads directory}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"MEDIARENAME_TEST_UNSET_DIR: downloads directory"}, cfgErr.Missing)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[copy]
enabled = true
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Errors, "rename.dir: required")
	assert.Contains(t, cfgErr.Errors, "copy.dir: required when copy is enabled")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[rename\ndir = ")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, `
[rename]
dir = "${MEDIARENAME_TEST_UNSET_DIR}"
`)

	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "${MEDIARENAME_TEST_UNSET_DIR}", cfg.Rename.Dir)
	assert.Equal(t, DefaultMaxEpisodeCount, cfg.Rename.MaxEpisodeCount)
}

func TestBackupConfig_SinceTime(t *testing.T) {
	tests := []struct {
		name    string
		since   string
		want    time.Time
		wantErr bool
	}{
		{"empty", "", time.Time{}, false},
		{"date", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), false},
		{"garbage", "last tuesday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BackupConfig{Since: tt.since}.SinceTime()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
