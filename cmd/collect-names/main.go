// Command collect-names gathers file names from download directories and
// records what the parser makes of them, for building the parser corpus in
// pkg/release/testdata.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/vmunix/mediarename/internal/importer"
	"github.com/vmunix/mediarename/pkg/release"
)

func main() {
	output := flag.String("output", "testdata/filenames.csv", "Output CSV file")
	maxEpisodes := flag.Int("max-episodes", 0, "Largest number read as an episode (0 for default)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: collect-names [-output file] [-max-episodes n] dir...")
		os.Exit(2)
	}

	if err := run(flag.Args(), *output, *maxEpisodes); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(dirs []string, output string, maxEpisodes int) error {
	names, err := collect(dirs)
	if err != nil {
		return err
	}
	fmt.Printf("Total unique names: %d\n", len(names))

	parser := release.NewParser(release.Options{MaxEpisodeCount: maxEpisodes, Now: time.Now}, nil, nil)
	records := parseAll(parser, names, maxEpisodes)

	if err := writeCSV(output, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("Written to %s\n", output)
	return nil
}

// collect returns the sorted, deduplicated base names of every file below dirs.
func collect(dirs []string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range dirs {
		files, err := importer.FindAllFiles(dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		newCount := 0
		for _, f := range files {
			name := filepath.Base(f)
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
			newCount++
		}
		fmt.Printf("  %s: %d files, %d new\n", dir, len(files), newCount)
	}
	sort.Strings(names)
	return names, nil
}

type record struct {
	Input       string
	MaxEpisodes int
	Expected    string // empty when unformattable
}

func parseAll(parser *release.Parser, names []string, maxEpisodes int) []record {
	records := make([]record, 0, len(names))
	for _, name := range names {
		expected, _ := parser.Parse(name).Name()
		records = append(records, record{Input: name, MaxEpisodes: maxEpisodes, Expected: expected})
	}
	return records
}

func writeCSV(path string, records []record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"input", "max_episode_count", "expected"}); err != nil {
		return err
	}

	for _, r := range records {
		maxEpisodes := ""
		if r.MaxEpisodes > 0 {
			maxEpisodes = strconv.Itoa(r.MaxEpisodes)
		}
		if err := w.Write([]string{r.Input, maxEpisodes, r.Expected}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
