package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/qcss/internal/config"
	"github.com/vango-dev/qcss/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by subcommands, filled in before each runs.
type app struct {
	configDir    string
	manifestPath string
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "qcss",
		Short: "Structural CSS paths, resolved and hydrated",
		Long: `qcss maps structural paths ("card header title") to the short
identifiers a build step assigned them, and stamps those identifiers onto
HTML so compiled stylesheets can match them.

Configuration is read from qcss.json in --config (default ".") and from
QCSS_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configDir, "config", "c", ".", "Directory containing qcss.json")
	rootCmd.PersistentFlags().StringVarP(&a.manifestPath, "manifest", "m", "", "Manifest file (overrides manifest.path)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		resolveCmd(a),
		hydrateCmd(a),
		checkCmd(a),
		serveCmd(a),
		probeCmd(a),
		versionCmd(),
	)

	return rootCmd
}

// load reads the configuration and applies the global flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(a.configDir)
	if err != nil {
		return err
	}
	if a.manifestPath != "" {
		abs, err := filepath.Abs(a.manifestPath)
		if err != nil {
			return err
		}
		cfg.Manifest.Path = abs
		cfg.Manifest.S3 = config.S3Config{}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	return nil
}

// success prints a success line.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
