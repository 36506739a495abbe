package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/backup"
	"github.com/vmunix/mediarename/internal/config"
	"github.com/vmunix/mediarename/internal/importer"
	"github.com/vmunix/mediarename/internal/tables"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rename files, then move them into the library and back up",
	Long: `Run the configured passes over rename.dir:

  1. rename every file to its canonical name
  2. when copy.enabled, move renamed files into copy.dir
  3. when backup.enabled, mirror backup.source into backup.destination

Prompts for each change when rename.user_interaction is set and stdin is a
terminal.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("dry-run", false, "Show what would change without touching files")
	runCmd.Flags().Bool("no-input", false, "Never prompt, even on a terminal")
}

// runSummary is the JSON output of run.
type runSummary struct {
	Session string               `json:"session"`
	Rename  *importer.PassResult `json:"rename"`
	Copy    *importer.PassResult `json:"copy,omitempty"`
	Backup  *backup.Report       `json:"backup,omitempty"`
}

// interactive reports whether prompts should be shown.
func interactive(cfg *config.Config, noInput bool) bool {
	return cfg.Rename.UserInteraction && !noInput && importer.IsInteractive(os.Stdin)
}

func runRun(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noInput, _ := cmd.Flags().GetBool("no-input")

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	unlock, err := acquireRunLock(path)
	if err != nil {
		return err
	}
	defer unlock()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := importer.OpenHistoryDB(ctx, cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	history := importer.NewHistoryStore(db)

	parser, err := newParser(cfg, log)
	if err != nil {
		return err
	}
	mediaTypes, err := tables.Load(cfg.Tables.MediaTypes)
	if err != nil {
		return fmt.Errorf("load media types: %w", err)
	}

	isInteractive := interactive(cfg, noInput)
	var prompter importer.Prompter
	if isInteractive {
		prompter = importer.NewTerminalPrompter(os.Stdin, cmd.ErrOrStderr())
	}

	imp := importer.New(parser, importer.Config{
		Interactive:      isInteractive,
		DryRun:           dryRun,
		CopyDir:          cfg.Copy.Dir,
		MediaDivision:    cfg.Copy.MediaDivision,
		Structure:        cfg.Copy.Structure,
		DefaultMediaType: cfg.Copy.DefaultMediaType,
		MediaTypes:       mediaTypes.Map(),
		TitlesPath:       cfg.Tables.Titles,
		MediaTypesPath:   cfg.Tables.MediaTypes,
	}, prompter, history, log)

	summary := runSummary{Session: imp.Session()}
	summary.Rename, err = imp.RenamePass(ctx, cfg.Rename.Dir)
	if err != nil {
		return fmt.Errorf("rename pass: %w", err)
	}

	if cfg.Copy.Enabled {
		summary.Copy, err = imp.CopyPass(ctx, cfg.Rename.Dir)
		if err != nil {
			return fmt.Errorf("copy pass: %w", err)
		}
	}

	if cfg.Backup.Enabled {
		summary.Backup, err = runBackup(ctx, cfg, dryRun, prompter, history, log)
		if err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}

	return printRunSummary(cmd.OutOrStdout(), summary)
}

// runBackup builds and runs a backup from the config.
func runBackup(ctx context.Context, cfg *config.Config, dryRun bool, confirmer backup.Confirmer, history *importer.HistoryStore, log *slog.Logger) (*backup.Report, error) {
	since, err := cfg.Backup.SinceTime()
	if err != nil {
		return nil, err
	}
	b := backup.New(backup.Config{
		Source:      cfg.Backup.Source,
		Destination: cfg.Backup.Destination,
		Since:       since,
		DryRun:      dryRun,
	}, confirmer, history, log)
	return b.Run(ctx)
}

func printRunSummary(w io.Writer, s runSummary) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	headers := []string{"Pass", "Scanned", "Done", "Skipped", "Unchanged", "Unformattable", "Failed"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := [][]string{passRow("rename", s.Rename)}
	if s.Copy != nil {
		rows = append(rows, passRow("copy", s.Copy))
	}
	if s.Backup != nil {
		rows = append(rows, []string{"backup",
			strconv.Itoa(len(s.Backup.Candidates)),
			strconv.Itoa(s.Backup.Copied),
			strconv.Itoa(s.Backup.Skipped),
			"", "",
			strconv.Itoa(s.Backup.Failed),
		})
	}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	for _, r := range []*importer.PassResult{s.Rename, s.Copy} {
		if r == nil {
			continue
		}
		for _, o := range r.Outcomes {
			if o.Error != "" {
				fmt.Fprintf(w, "failed: %s: %s\n", o.Source, o.Error)
			}
		}
	}
	if s.Backup != nil {
		for _, e := range s.Backup.Errors {
			fmt.Fprintf(w, "failed: %s\n", e)
		}
		if !s.Backup.Cutoff.IsZero() {
			fmt.Fprintf(w, "backup cutoff: %s\n", s.Backup.Cutoff.Format(time.RFC3339))
		}
	}
	return nil
}

func passRow(name string, r *importer.PassResult) []string {
	return []string{
		name,
		strconv.Itoa(r.Scanned),
		strconv.Itoa(r.Done),
		strconv.Itoa(r.Skipped),
		strconv.Itoa(r.Unchanged),
		strconv.Itoa(r.Unformattable),
		strconv.Itoa(r.Failed),
	}
}
