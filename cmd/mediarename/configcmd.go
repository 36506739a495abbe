package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without touching any file.",
	Args:  cobra.NoArgs,
	RunE:  runConfigTest,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file that would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config with defaults and environment applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.LoadWithoutValidation(path)
		if err != nil {
			return err
		}
		return cfg.Encode(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			printConfigErrors(out, cfgErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Rename:   %s (prompt %s, max episode %d)\n",
		cfg.Rename.Dir, onOff(cfg.Rename.UserInteraction), cfg.Rename.MaxEpisodeCount)
	if cfg.Copy.Enabled {
		fmt.Fprintf(w, "  Copy:     %s (%s, media division %s)\n",
			cfg.Copy.Dir, cfg.Copy.Structure, onOff(cfg.Copy.MediaDivision))
	} else {
		fmt.Fprintln(w, "  Copy:     off")
	}
	if cfg.Backup.Enabled {
		fmt.Fprintf(w, "  Backup:   %s -> %s\n", cfg.Backup.Source, cfg.Backup.Destination)
	} else {
		fmt.Fprintln(w, "  Backup:   off")
	}
	fmt.Fprintf(w, "  Titles:   %s\n", cfg.Tables.Titles)
	fmt.Fprintf(w, "  Offsets:  %s\n", cfg.Tables.Offsets)
	fmt.Fprintf(w, "  Types:    %s\n", cfg.Tables.MediaTypes)
	fmt.Fprintf(w, "  History:  %s\n", cfg.History.Path)
	fmt.Fprintf(w, "  Log:      %s\n", cfg.Log.Level)
}
