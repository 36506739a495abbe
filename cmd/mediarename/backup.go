package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/backup"
	"github.com/vmunix/mediarename/internal/importer"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy new and changed library files to the backup tree",
	Long: `Copy files under backup.source that are missing from backup.destination,
differ in size, or were modified after the cutoff. The cutoff is backup.since,
or the newest file already in the destination.`,
	Args: cobra.NoArgs,
	RunE: runBackupCmd,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().Bool("dry-run", false, "List files that would be copied")
	backupCmd.Flags().Bool("no-input", false, "Never prompt, even on a terminal")
}

func runBackupCmd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noInput, _ := cmd.Flags().GetBool("no-input")

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Backup.Source == "" || cfg.Backup.Destination == "" {
		return fmt.Errorf("backup.source and backup.destination must be set")
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

	var confirmer backup.Confirmer
	if interactive(cfg, noInput) {
		confirmer = importer.NewTerminalPrompter(os.Stdin, cmd.ErrOrStderr())
	}

	report, err := runBackup(ctx, cfg, dryRun, confirmer, importer.NewHistoryStore(db), log)
	if err != nil {
		return err
	}
	return printBackupReport(cmd.OutOrStdout(), report, dryRun)
}

func printBackupReport(w io.Writer, r *backup.Report, dryRun bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if len(r.Candidates) == 0 {
		fmt.Fprintln(w, "Nothing to back up.")
		return nil
	}

	rows := make([][]string, 0, len(r.Candidates))
	var total int64
	for _, c := range r.Candidates {
		total += c.Size
		rows = append(rows, []string{c.Source, c.Reason, humanize.IBytes(uint64(c.Size))})
	}
	fmt.Fprintln(w, renderTable([]string{"File", "Reason", "Size"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))

	if dryRun {
		fmt.Fprintf(w, "%d files, %s would be copied\n", len(r.Candidates), humanize.IBytes(uint64(total)))
		return nil
	}
	fmt.Fprintf(w, "copied %d files (%s), skipped %d, failed %d\n",
		r.Copied, humanize.IBytes(uint64(r.Bytes)), r.Skipped, r.Failed)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "failed: %s\n", e)
	}
	return nil
}
