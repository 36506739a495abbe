// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "mediarename", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read written file")

	assert.Contains(t, string(content), "[rename]")
	assert.Contains(t, string(content), "[copy]")
	assert.Contains(t, string(content), "${MEDIARENAME_DIR:-/srv/downloads}")
}

func TestWriteDefault_CreatesDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "deep", "config.toml")

	err := WriteDefault(path)
	require.NoError(t, err, "WriteDefault failed")

	_, err = os.Stat(path)
	assert.False(t, os.IsNotExist(err), "file was not created")
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine"), 0644))

	err := WriteDefault(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "# mine", string(content))
}

func TestWriteDefault_Loads(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")
	require.NoError(t, WriteDefault(path))

	t.Setenv("MEDIARENAME_DIR", tmp)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tmp, cfg.Rename.Dir)
	assert.Equal(t, []string{"nfo", "txt", "srt"}, cfg.Rename.ExcludeFileTypes)
	assert.True(t, cfg.Rename.UserInteraction)
	assert.False(t, cfg.Copy.Enabled)
}

func TestConfig_Write(t *testing.T) {
	cfg := &Config{
		Rename: RenameConfig{Dir: "/downloads", MaxEpisodeCount: 500},
		Copy:   CopyConfig{Enabled: true, Dir: "/media/library", Structure: DefaultCopyStructure},
	}

	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	err := cfg.Write(path)
	require.NoError(t, err, "Write failed")

	content, _ := os.ReadFile(path)
	assert.Contains(t, string(content), "/media/library")
	assert.Contains(t, string(content), "500")

	back, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Copy.Dir, back.Copy.Dir)
	assert.False(t, back.Rename.UserInteraction, "explicit false survives reload")
}
