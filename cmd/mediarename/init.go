package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/config"
	"github.com/vmunix/mediarename/internal/tables"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and empty table files",
	Long: `Write the default config to --config, or to the XDG config directory, and
create empty titles, offsets and media type tables next to it. Existing files
are left alone.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// tableHeaders documents each table file on creation.
var tableHeaders = map[string]string{
	config.DefaultTitlesFile: `Title overrides, one per line.
"Inferred Title: Replacement" replaces the inferred title, or the part of it
that matches. "$$Title: Folder" picks the library folder for Title.`,
	config.DefaultOffsetsFile: `Episode offsets, one per line.
"Title: S01E25" subtracts 25 from later episodes and moves season 1 to 2.
"Title: S02##E13" subtracts 13 and forces season 2. "Title: S03" forces season 3.`,
	config.DefaultMediaTypesFile: `Media types, one per line: "Title: Anime".`,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	out := cmd.OutOrStdout()
	switch err := config.WriteDefault(path); {
	case errors.Is(err, os.ErrExist):
		fmt.Fprintf(out, "config exists: %s\n", path)
	case err != nil:
		return fmt.Errorf("write config: %w", err)
	default:
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	dir := filepath.Dir(path)
	for _, name := range []string{config.DefaultTitlesFile, config.DefaultOffsetsFile, config.DefaultMediaTypesFile} {
		tablePath := filepath.Join(dir, name)
		if err := tables.EnsureFile(tablePath, tableHeaders[name]); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	fmt.Fprintf(out, "tables in %s\n", dir)
	return nil
}
