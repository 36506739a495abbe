package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestFindAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.mkv"), 1)
	writeFile(t, filepath.Join(dir, "a.nfo"), 1)
	writeFile(t, filepath.Join(dir, "Show", "Season 1", "c.mkv"), 1)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))

	files, err := FindAllFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Show", "Season 1", "c.mkv"),
		filepath.Join(dir, "a.nfo"),
		filepath.Join(dir, "b.mkv"),
	}, files)
}

func TestFindAllFiles_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "real.mkv"), 1)
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.mkv"), filepath.Join(dir, "link.mkv")))

	files, err := FindAllFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "real.mkv")}, files)
}

func TestFindAllFiles_MissingRoot(t *testing.T) {
	_, err := FindAllFiles(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
