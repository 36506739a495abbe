package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/config"
	"github.com/vmunix/mediarename/pkg/release"
)

var parseCmd = &cobra.Command{
	Use:   "parse [path...]",
	Short: "Show what mediarename infers from file names",
	Long: `Parse file names and print the inferred title, season, episode and year
without touching any file. Paths are read from the arguments, or one per line
from --file ("-" for stdin).

Tables default to the ones named in the config when a config is found.`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read paths from file, one per line (- for stdin)")
	parseCmd.Flags().String("titles", "", "Title overrides file")
	parseCmd.Flags().String("offsets", "", "Episode offsets file")
	parseCmd.Flags().Int("max-episodes", release.DefaultMaxEpisodeCount, "Largest number read as an episode")
}

// readNames reads one path per line, skipping blanks and # comments.
func readNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

func parseInputs(cmd *cobra.Command, args []string) ([]string, error) {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		if len(args) == 0 {
			return nil, fmt.Errorf("no paths given")
		}
		return args, nil
	}

	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	names, err := readNames(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return append(names, args...), nil
}

// parseTables picks table paths from flags, then from a discovered config.
func parseTables(cmd *cobra.Command) (string, string) {
	titles, _ := cmd.Flags().GetString("titles")
	offsets, _ := cmd.Flags().GetString("offsets")
	if titles != "" && offsets != "" {
		return titles, offsets
	}

	path, err := resolveConfigPath()
	if err != nil {
		return titles, offsets
	}
	cfg, err := config.LoadWithoutValidation(path)
	if err != nil {
		return titles, offsets
	}
	if titles == "" {
		titles = cfg.Tables.Titles
	}
	if offsets == "" {
		offsets = cfg.Tables.Offsets
	}
	return titles, offsets
}

func runParse(cmd *cobra.Command, args []string) error {
	names, err := parseInputs(cmd, args)
	if err != nil {
		return err
	}
	maxEpisodes, _ := cmd.Flags().GetInt("max-episodes")
	log := newLogger(cmd.ErrOrStderr(), "")

	titlesPath, offsetsPath := parseTables(cmd)
	titles, err := loadTitleTable(titlesPath)
	if err != nil {
		return fmt.Errorf("load titles: %w", err)
	}
	offsets, err := loadOffsetTable(offsetsPath, log)
	if err != nil {
		return fmt.Errorf("load offsets: %w", err)
	}

	parser := release.NewParser(release.Options{
		MaxEpisodeCount: maxEpisodes,
		Now:             time.Now,
	}, titles, offsets)

	rows := make([]release.Summary, 0, len(names))
	for _, name := range names {
		rows = append(rows, parser.Parse(name).Summarize())
	}
	return printParseRows(cmd.OutOrStdout(), rows, log)
}

func printParseRows(w io.Writer, rows []release.Summary, log *slog.Logger) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	headers := []string{"Path", "Title", "Season", "Episode", "Year", "Name"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			log.Debug("unformattable", "path", r.Input)
		}
		out = append(out, []string{r.Input, r.Title, r.Season, r.Episode, r.Year, r.Name})
	}
	fmt.Fprintln(w, renderTable(headers, out, aligns))
	return nil
}
