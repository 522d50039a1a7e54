package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"csvmend/internal/config"
	"csvmend/internal/logging"
	"csvmend/internal/version"
)

// appState is resolved once per invocation before a subcommand runs.
type appState struct {
	cfg      *config.Config
	log      *zap.Logger
	useColor bool
	quiet    bool
	timings  bool
}

var app = appState{log: zap.NewNop()}

var rootCmd = &cobra.Command{
	Use:   "csvmend",
	Short: "Find and interactively repair structural problems in CSV files",
	Long: `csvmend checks CSV files for unbalanced quotes and rows whose field count
differs from the header, and walks you through fixing them line by line`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareApp,
}

// main registers subcommands and persistent flags, runs the root command and
// exits with the code carried by the returned error.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("config", "", "path to csvmend.toml (default: search from the working directory up)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("encoding", "", "input encoding tried before the fallbacks")

	err := rootCmd.Execute()
	_ = app.log.Sync()
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "error:", msg)
		}
		os.Exit(exitCodeOf(err))
	}
}

func prepareApp(cmd *cobra.Command, args []string) error {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Load(config.LoadOptions{Path: configPath})
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding, _ = flags.GetString("encoding")
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet && !flags.Changed("log-level") {
		cfg.Log.Level = "error"
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, isTerminal(os.Stdout))
	if err != nil {
		return err
	}

	if err := applyCommandFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		log.Debug("config loaded", zap.String("path", cfg.Path))
	}

	// prompts and issue listings print through fatih/color globals
	color.NoColor = !useColor
	app = appState{cfg: cfg, log: log, useColor: useColor, quiet: quiet, timings: timings}
	return nil
}

// applyCommandFlags copies explicitly set subcommand flags over config values.
func applyCommandFlags(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	setString := func(name string, dst *string) error {
		if fl.Lookup(name) == nil || !fl.Changed(name) {
			return nil
		}
		v, err := fl.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
		return nil
	}
	changedBool := func(name string) (bool, bool) {
		if fl.Lookup(name) == nil || !fl.Changed(name) {
			return false, false
		}
		v, err := fl.GetBool(name)
		return v, err == nil
	}

	if err := setString("strategy", &cfg.Repair.Strategy); err != nil {
		return err
	}
	if err := setString("editor", &cfg.Repair.Editor); err != nil {
		return err
	}
	if err := setString("output-dir", &cfg.Output.Dir); err != nil {
		return err
	}
	if err := setString("cache-dir", &cfg.Cache.Dir); err != nil {
		return err
	}
	if fl.Lookup("max-attempts") != nil && fl.Changed("max-attempts") {
		n, err := fl.GetInt("max-attempts")
		if err != nil {
			return fmt.Errorf("failed to get max-attempts flag: %w", err)
		}
		cfg.Repair.MaxAttempts = n
	}
	if v, ok := changedBool("recheck"); ok {
		cfg.Repair.Recheck = v
	}
	if v, ok := changedBool("cache"); ok {
		cfg.Cache.Enabled = v
	}
	if v, ok := changedBool("no-cache"); ok && v {
		cfg.Cache.Enabled = false
	}
	return nil
}

func resolveColor(flag string, tty bool) (bool, error) {
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return tty, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", flag)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
