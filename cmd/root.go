// Package cmd implements the codeassist CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/store"
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagHome    string
)

// Loaded once in PersistentPreRunE and read-only afterwards.
var (
	appCfg config.Config
	appLog = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "codeassist",
	Short: "Local code assistant CLI",
	Long: "Generate single-file code from natural-language requirements with per-project\n" +
		"history, a pinned project spec, and running cost tracking.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "Data directory for sessions and outputs (default ~/.codeassist)")
}

func setupRun(cmd *cobra.Command, _ []string) error {
	appLog = newLogger(os.Stderr, flagVerbose).With().Str("command", cmd.Name()).Logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagHome != "" {
		cfg.General.HomeDir = flagHome
	}
	appCfg = cfg

	appLog.Debug().
		Str("config", config.Path()).
		Str("home", appCfg.AppDir()).
		Str("default_model", appCfg.General.DefaultModel).
		Msg("configuration loaded")
	return nil
}

func sessionStore() *store.Sessions {
	return store.NewSessions(appCfg.SessionsDir())
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
