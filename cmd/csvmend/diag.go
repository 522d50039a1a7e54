package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"csvmend/internal/detect"
	"csvmend/internal/driver"
	"csvmend/internal/report"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.csv|directory|->...",
	Short: "Report structural issues without changing anything",
	Long: `Scan CSV files, or every *.csv file within directories, for unbalanced quotes
and field count mismatches. "-" reads standard input.

Exit status is 0 when every file is clean, 3 when issues were found and 1 when
a file could not be read`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiag,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|msgpack)")
	diagCmd.Flags().String("ui", "auto", "show progress UI for multi-file scans (auto|on|off)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Int("max-issues", 0, "maximum number of issues kept per file (0=all)")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	diagCmd.Flags().Int("width", 0, "truncate line contents to this many columns (0=no limit)")
	diagCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	diagCmd.Flags().Bool("no-cache", false, "disable the on-disk cache even if configured")
	diagCmd.Flags().String("cache-dir", "", "cache directory (default: user cache dir)")
	diagCmd.Flags().Bool("clear-cache", false, "drop all cached results before scanning")
}

type diagOptions struct {
	format   report.Format
	ui       uiMode
	jobs     int
	max      int
	suggest  bool
	pathMode report.PathMode
	width    int
	clear    bool
}

func readDiagOptions(cmd *cobra.Command) (diagOptions, error) {
	var opts diagOptions
	fl := cmd.Flags()

	formatStr, err := fl.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.format, err = report.ParseFormat(formatStr); err != nil {
		return opts, err
	}
	uiStr, err := fl.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}
	if opts.jobs, err = fl.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.max, err = fl.GetInt("max-issues"); err != nil {
		return opts, fmt.Errorf("failed to get max-issues flag: %w", err)
	}
	if opts.suggest, err = fl.GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	pathStr, err := fl.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if opts.pathMode, err = report.ParsePathMode(pathStr); err != nil {
		return opts, err
	}
	if opts.width, err = fl.GetInt("width"); err != nil {
		return opts, fmt.Errorf("failed to get width flag: %w", err)
	}
	if opts.clear, err = fl.GetBool("clear-cache"); err != nil {
		return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	return opts, nil
}

// runDiag scans the given paths, renders the results in the chosen format
// and maps them to an exit status.
func runDiag(cmd *cobra.Command, args []string) error {
	opts, err := readDiagOptions(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ListCSVFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return exitWithf(exitFailure, "no csv files found in %v", args)
	}

	var cache *driver.DiskCache
	if app.cfg.Cache.Enabled {
		cache, err = driver.OpenDiskCache("csvmend", app.cfg.Cache.Dir)
		if err != nil {
			// a broken cache only costs speed
			app.log.Warn("disk cache disabled", zap.Error(err))
			cache = nil
		}
	}
	if opts.clear && cache != nil {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	dopts := driver.Options{
		Source: app.cfg.SourceOptions(),
		Detect: detect.Options{MaxIssues: opts.max, NoSuggestions: !opts.suggest},
		Jobs:   opts.jobs,
		Cache:  cache,
		Log:    app.log,
		Stdin:  cmd.InOrStdin(),
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	var results []driver.FileResult
	useUI := opts.format == report.FormatPretty && !app.quiet && len(files) > 1 &&
		!slices.Contains(files, driver.StdinPath) && shouldUseTUI(opts.ui)
	if useUI {
		results, err = runDiagWithUI(ctx, "diag", files, dopts)
	} else {
		results, err = driver.DiagnoseFiles(ctx, files, dopts)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return withExitCode(exitCancelled, errors.New("interrupted"))
		}
		return err
	}

	if err := renderDiag(cmd.OutOrStdout(), results, opts); err != nil {
		return err
	}
	if app.timings {
		printFileTimings(cmd.ErrOrStderr(), results)
	}
	return withExitCode(diagExitCode(results), nil)
}

func renderDiag(out io.Writer, results []driver.FileResult, opts diagOptions) error {
	prettyOpts := report.PrettyOpts{
		Color:     app.useColor,
		PathMode:  opts.pathMode,
		Width:     opts.width,
		ShowFixes: opts.suggest,
	}
	jsonOpts := report.JSONOpts{
		PathMode:       opts.pathMode,
		IncludeFixes:   opts.suggest,
		IncludeTimings: app.timings,
	}
	switch opts.format {
	case report.FormatShort:
		return report.Short(out, results, prettyOpts)
	case report.FormatJSON:
		return report.JSON(out, results, jsonOpts)
	case report.FormatMsgpack:
		return report.Msgpack(out, results, jsonOpts)
	default:
		report.Pretty(out, results, prettyOpts)
		return nil
	}
}

// diagExitCode is 1 if any file failed, else 3 if any file has issues.
func diagExitCode(results []driver.FileResult) int {
	code := exitOK
	for _, r := range results {
		if r.Err != nil {
			return exitFailure
		}
		if len(r.Issues()) > 0 {
			code = exitIssues
		}
	}
	return code
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
