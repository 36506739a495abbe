package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/mediarename/internal/config"
	"github.com/vmunix/mediarename/internal/tables"
	"github.com/vmunix/mediarename/pkg/release"
)

// loadTitleTable reads a titles file. An empty path yields an empty table.
func loadTitleTable(path string) (*release.TitleTable, error) {
	if path == "" {
		return release.NewTitleTable(nil), nil
	}
	t, err := tables.Load(path)
	if err != nil {
		return nil, err
	}
	return release.NewTitleTable(t.Map()), nil
}

// loadOffsetTable reads an offsets file. Malformed entries are logged and
// left out.
func loadOffsetTable(path string, log *slog.Logger) (*release.OffsetTable, error) {
	if path == "" {
		return &release.OffsetTable{}, nil
	}
	t, err := tables.Load(path)
	if err != nil {
		return nil, err
	}
	offsets, err := release.NewOffsetTable(t.Map())
	if err != nil {
		log.Warn("ignoring malformed offsets", "path", path, "error", err)
	}
	return offsets, nil
}

// newParser builds a parser from the rename settings and table files.
func newParser(cfg *config.Config, log *slog.Logger) (*release.Parser, error) {
	titles, err := loadTitleTable(cfg.Tables.Titles)
	if err != nil {
		return nil, fmt.Errorf("load titles: %w", err)
	}
	offsets, err := loadOffsetTable(cfg.Tables.Offsets, log)
	if err != nil {
		return nil, fmt.Errorf("load offsets: %w", err)
	}

	opts := release.Options{
		MaxEpisodeCount:  cfg.Rename.MaxEpisodeCount,
		MaxIterations:    cfg.Rename.MaxIterations,
		ExcludeFileTypes: cfg.Rename.ExcludeFileTypes,
		Now:              time.Now,
	}
	log.Debug("tables loaded", "titles", titles.Len(), "offsets", offsets.Len())
	return release.NewParser(opts, titles, offsets), nil
}
