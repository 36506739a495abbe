package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/importer"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show renames, moves and backups from earlier runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("action", "", "Filter by action (renamed, copied, skipped, backed_up)")
	historyCmd.Flags().String("session", "", "Filter by run session")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum entries to show (0 for all)")
}

func validHistoryAction(a string) bool {
	switch a {
	case "", importer.ActionRenamed, importer.ActionCopied, importer.ActionSkipped, importer.ActionBackedUp:
		return true
	}
	return false
}

func runHistory(cmd *cobra.Command, args []string) error {
	action, _ := cmd.Flags().GetString("action")
	session, _ := cmd.Flags().GetString("session")
	limit, _ := cmd.Flags().GetInt("limit")
	if !validHistoryAction(action) {
		return fmt.Errorf("unknown action %q", action)
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := importer.OpenHistoryDB(cmd.Context(), cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, err := importer.NewHistoryStore(db).List(importer.HistoryFilter{
		Session: session,
		Action:  action,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format(time.DateTime),
			e.Action,
			e.Source,
			e.Dest,
			shortSession(e.Session),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"When", "Action", "Source", "Destination", "Session"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

// shortSession trims a session id for display.
func shortSession(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
