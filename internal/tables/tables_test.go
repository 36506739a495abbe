package tables

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"### titles",
		"# comment",
		"",
		"The Big Bang Theory: BBT",
		"Steins;Gate: Steins Gate",
		"Re:Zero: Re Zero",
		"NCIS:LA",
		"no separator here",
		"   ",
		": empty key",
		"Windows line: value\r",
	}, "\n")

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	got := make([][2]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, [2]string{e.Key, e.Value})
	}
	assert.Equal(t, [][2]string{
		{"The Big Bang Theory", "BBT"},
		{"Steins;Gate", "Steins Gate"},
		{"Re:Zero", "Re Zero"},
		{"NCIS", "LA"},
		{"Windows line", "value"},
	}, got)
	assert.Equal(t, 4, entries[0].Line)
}

func TestLoad_Missing(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Map())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\nb: 2\na: 3\n"), 0644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, table.Map())

	v, ok := table.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = table.Get("c")
	assert.False(t, ok)
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "media_types.txt")

	require.NoError(t, Append(path, "Tokyo Ghoul", "Anime"))
	require.NoError(t, Append(path, " Family Guy ", " TV Shows "))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo Ghoul: Anime\nFamily Guy: TV Shows\n", string(content))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Tokyo Ghoul": "Anime", "Family Guy": "TV Shows"}, table.Map())
}

func TestAppend_MissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")
	require.NoError(t, os.WriteFile(path, []byte("a: 1"), 0644))

	require.NoError(t, Append(path, "b", "2"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb: 2\n", string(content))
}

func TestAppend_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")

	for _, key := range []string{"", "  ", "two\nlines", "# comment"} {
		err := Append(path, key, "x")
		assert.ErrorIs(t, err, ErrInvalidEntry, "key %q", key)
	}
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAppend_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, Append(path, "key", strings.Repeat("v", i+1)))
		}(i)
	}
	wg.Wait()

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, table.Len())
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.txt")

	require.NoError(t, EnsureFile(path, "Show Title: S01E25\nsecond line"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Show Title: S01E25\n# second line\n", string(content))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	require.NoError(t, os.WriteFile(path, []byte("kept: yes\n"), 0644))
	require.NoError(t, EnsureFile(path, "ignored"))
	content, _ = os.ReadFile(path)
	assert.Equal(t, "kept: yes\n", string(content))
}
