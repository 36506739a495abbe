package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediarename/pkg/release"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadNames(t *testing.T) {
	content := `[HorribleSubs] Tokyo Ghoul - 01 [720p].mkv
# This is a comment
The.Big.Bang.Theory.S10E03.HDTV.XviD-FUM[ettv].avi

  Pans.Labyrinth.2006.BluRay.mkv
`
	names, err := readNames(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[HorribleSubs] Tokyo Ghoul - 01 [720p].mkv",
		"The.Big.Bang.Theory.S10E03.HDTV.XviD-FUM[ettv].avi",
		"Pans.Labyrinth.2006.BluRay.mkv",
	}, names)
}

func TestReadNames_Empty(t *testing.T) {
	names, err := readNames(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPrintParseRows_Table(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })
	jsonOutput = false

	var buf bytes.Buffer
	rows := []release.Summary{
		{Input: "Tokyo Ghoul - 01.mkv", Title: "Tokyo Ghoul", Season: "01", Episode: "01", Extension: "mkv", Name: "Tokyo Ghoul S01E01.mkv"},
		{Input: "sample.mkv"},
	}
	require.NoError(t, printParseRows(&buf, rows, testLogger()))

	out := buf.String()
	assert.Contains(t, out, "Tokyo Ghoul S01E01.mkv")
	assert.Contains(t, out, "sample.mkv")
	assert.Contains(t, out, "Title")
}

func TestPrintParseRows_JSON(t *testing.T) {
	t.Cleanup(func() { jsonOutput = false })
	jsonOutput = true

	var buf bytes.Buffer
	rows := []release.Summary{{Input: "Pans Labyrinth 2006.mkv", Title: "Pans Labyrinth", Year: "2006", Movie: true, Extension: "mkv", Name: "Pans Labyrinth 2006.mkv"}}
	require.NoError(t, printParseRows(&buf, rows, testLogger()))

	var got []release.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, rows, got)
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	titles := filepath.Join(dir, "titles.txt")
	offsets := filepath.Join(dir, "offsets.txt")
	require.NoError(t, os.WriteFile(titles, []byte("Tokyo Ghoul: Tokyo Ghoul Root A\n"), 0644))
	require.NoError(t, os.WriteFile(offsets, []byte("# none\n"), 0644))

	out, err := execute(t, "parse", "--json", "--titles", titles, "--offsets", offsets,
		"[HorribleSubs] Tokyo Ghoul - 01 [720p].mkv",
		"The.Big.Bang.Theory.S10E03.HDTV.XviD-FUM[ettv].avi",
		"Pans.Labyrinth.2006.BluRay.mkv",
	)
	require.NoError(t, err)

	var got []release.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Tokyo Ghoul Root A S01E01.mkv", got[0].Name)
	assert.Equal(t, "The Big Bang Theory S10E03.avi", got[1].Name)
	assert.Equal(t, "Pans Labyrinth 2006.mkv", got[2].Name)
	assert.True(t, got[2].Movie)
}
