package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediarename/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "mediarename",
	Short: "Rename and file downloaded TV episodes and movies",
	Long: `mediarename - infer titles, seasons, episodes and years from release
file names, rename files to "Title S01E02.ext" or "Title 2006.ext", and move
them into a media library.

Configuration is read from --config, $MEDIARENAME_CONFIG, ./mediarename.toml,
./config.toml, $XDG_CONFIG_HOME/mediarename/config.toml or
/etc/mediarename/config.toml.
Run 'mediarename init' to create one.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediarename {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger logs to w at the flag level, falling back to the config level.
func newLogger(w io.Writer, cfgLevel string) *slog.Logger {
	level := cfgLevel
	if logLevel != "" {
		level = logLevel
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

// resolveConfigPath returns --config or the discovered config file.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.Discover()
	if err != nil {
		return "", fmt.Errorf("%w (run 'mediarename init' to create one)", err)
	}
	return path, nil
}

// loadConfig loads and validates the config, printing every problem found.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), cfgErr.Error())
			return nil, "", fmt.Errorf("invalid config %s", path)
		}
		return nil, "", err
	}
	return cfg, path, nil
}
