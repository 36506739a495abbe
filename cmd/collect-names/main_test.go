package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediarename/pkg/release"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestCollect_Dedupes(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	touch(t, filepath.Join(a, "Tokyo Ghoul - 01.mkv"))
	touch(t, filepath.Join(a, "sub", "Pans.Labyrinth.2006.mkv"))
	touch(t, filepath.Join(b, "Tokyo Ghoul - 01.mkv"))

	names, err := collect([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pans.Labyrinth.2006.mkv", "Tokyo Ghoul - 01.mkv"}, names)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	parser := release.NewParser(release.Options{Now: time.Now}, nil, nil)
	records := parseAll(parser, []string{"[HorribleSubs] Tokyo Ghoul - 01 [720p].mkv", "sample"}, 0)

	path := filepath.Join(t.TempDir(), "testdata", "filenames.csv")
	require.NoError(t, writeCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"input", "max_episode_count", "expected"},
		{"[HorribleSubs] Tokyo Ghoul - 01 [720p].mkv", "", "Tokyo Ghoul S01E01.mkv"},
		{"sample", "", ""},
	}, rows)
}
