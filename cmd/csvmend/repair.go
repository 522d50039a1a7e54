package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"csvmend/internal/config"
	"csvmend/internal/detect"
	"csvmend/internal/diag"
	"csvmend/internal/driver"
	"csvmend/internal/editor"
	"csvmend/internal/observ"
	"csvmend/internal/prompt"
	"csvmend/internal/repair"
	"csvmend/internal/source"
)

var repairCmd = &cobra.Command{
	Use:   "repair [flags] <file.csv>",
	Short: "Walk through every structural issue and fix, skip or abort",
	Long: `Detect issues in a CSV file and decide each one interactively. Nothing is
written unless the whole session completes; aborting leaves every file as it was.

By default the result goes to <name>_repaired_<timestamp>.csv next to the input.
Exit status is 0 on success, 2 when the repair was cancelled and 1 on failure`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringP("output", "o", "", `write the repaired file here ("-" for stdout)`)
	repairCmd.Flags().Bool("in-place", false, "overwrite the input file")
	repairCmd.Flags().String("output-dir", "", "directory for the default output name")
	repairCmd.Flags().String("strategy", "", "how each issue is decided (confirm|menu)")
	repairCmd.Flags().String("editor", "", "line editor (auto|tui|plain)")
	repairCmd.Flags().Int("max-attempts", 0, "give up after this many invalid answers (0=never)")
	repairCmd.Flags().Bool("recheck", false, "re-scan the result and report what is left")
}

type repairRequest struct {
	path     string
	output   string
	inPlace  bool
	strategy repair.Strategy
	recheck  bool
	now      time.Time
}

// repairEnv holds the collaborators of one repair run.
type repairEnv struct {
	cfg   *config.Config
	log   *zap.Logger
	asker repair.Asker
	// out receives status lines and the summary.
	out io.Writer
	// stdout receives the document for output "-".
	stdout io.Writer
	timer  *observ.Timer
	quiet  bool
}

func (e repairEnv) say(format string, args ...any) {
	if e.quiet {
		return
	}
	fmt.Fprintf(e.out, format+"\n", args...)
}

func runRepair(cmd *cobra.Command, args []string) error {
	fl := cmd.Flags()
	output, err := fl.GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	inPlace, err := fl.GetBool("in-place")
	if err != nil {
		return fmt.Errorf("failed to get in-place flag: %w", err)
	}
	req := repairRequest{
		path:    args[0],
		output:  output,
		inPlace: inPlace,
		recheck: app.cfg.Repair.Recheck,
		now:     time.Now(),
	}
	if err := req.check(); err != nil {
		return err
	}
	req.strategy, err = repair.ReadStrategy(app.cfg.Repair.Strategy)
	if err != nil {
		return err
	}
	mode, err := editor.ReadMode(app.cfg.Repair.Editor)
	if err != nil {
		return err
	}

	// the document owns stdout when writing there, so questions move to stderr
	promptOut, promptFile := cmd.OutOrStdout(), os.Stdout
	if output == driver.StdinPath {
		promptOut, promptFile = cmd.ErrOrStderr(), os.Stderr
	}
	stdin := cmd.InOrStdin()
	in := bufio.NewReader(stdin)
	popts := []prompt.Option{
		prompt.WithMaxAttempts(app.cfg.Repair.MaxAttempts),
		prompt.WithLogger(app.log),
	}
	if f, ok := stdin.(*os.File); ok {
		popts = append(popts, prompt.WithEditor(editor.Probe(mode, f, promptFile, in)))
	}

	timer := observ.NewTimer()
	err = repairFile(req, repairEnv{
		cfg:    app.cfg,
		log:    app.log,
		asker:  prompt.New(in, promptOut, popts...),
		out:    promptOut,
		stdout: cmd.OutOrStdout(),
		timer:  timer,
		quiet:  app.quiet,
	})
	if app.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return err
}

func (r repairRequest) check() error {
	if r.path == driver.StdinPath {
		return errors.New("repair needs a file path; standard input is used for answers")
	}
	if r.inPlace && r.output != "" {
		return errors.New("--in-place and --output cannot be used together")
	}
	return nil
}

// repairFile loads, scans and repairs one file. The returned error carries
// the exit status.
func repairFile(req repairRequest, env repairEnv) error {
	log := env.log.With(zap.String("path", req.path))

	endLoad := env.timer.Track(observ.StageLoad)
	doc, err := source.Load(req.path, env.cfg.SourceOptions())
	if err != nil {
		endLoad("failed")
		return withExitCode(exitFailure, err)
	}
	endLoad(doc.Encoding())
	if doc.Flags().Has(source.FileFallbackEncoding) {
		log.Warn("decoded with fallback encoding", zap.String("encoding", doc.Encoding()))
	}

	endDetect := env.timer.Track(observ.StageDetect)
	issues, err := detect.New(env.log, detect.Options{}).Detect(doc)
	if err != nil {
		endDetect("failed")
		return exitWithf(exitFailure, "%s: %w", req.path, err)
	}
	endDetect(fmt.Sprintf("%d issues", len(issues)))

	if len(issues) == 0 {
		env.say("No structural issues found in %s.", req.path)
		if req.output == "" && !req.inPlace {
			return nil
		}
	} else {
		env.say("Found %d line(s) needing repair in %s.", len(issues), req.path)
	}

	endRepair := env.timer.Track(observ.StageRepair)
	session := repair.NewSession(env.asker, env.log, repair.WithStrategy(req.strategy))
	outcome := session.Run(doc, issues)
	endRepair(outcome.Status.String())

	switch outcome.Status {
	case repair.StatusCancelled:
		env.say("Repair cancelled; %s was left unchanged.", req.path)
		return withExitCode(exitCancelled, nil)
	case repair.StatusFailed:
		return exitWithf(exitFailure, "repair %s: %w", req.path, outcome.Err)
	}
	if outcome.Status == repair.StatusRepaired {
		printSummary(env, len(issues), outcome)
	}

	target := req.target(env.cfg.Output)
	endWrite := env.timer.Track(observ.StageWrite)
	if err := writeDocument(target, outcome.Document, env.stdout); err != nil {
		endWrite("failed")
		return withExitCode(exitFailure, err)
	}
	endWrite(target)
	if target != driver.StdinPath {
		env.say("Wrote %s (%s).", target, source.HumanSize(len(outcome.Document.Join())))
	}
	log.Info("repair written", zap.String("target", target), zap.String("run_id", outcome.RunID))

	if req.recheck {
		remaining, err := detect.New(env.log, detect.Options{NoSuggestions: true}).Detect(outcome.Document)
		if err != nil {
			return exitWithf(exitFailure, "recheck: %w", err)
		}
		if len(remaining) == 0 {
			env.say("Recheck: no issues remain.")
		} else {
			env.say("Recheck: %d issue(s) remain:\n%s", len(remaining), diag.FormatShort(target, remaining))
		}
	}
	return nil
}

func (r repairRequest) target(out config.OutputConfig) string {
	switch {
	case r.inPlace:
		return r.path
	case r.output != "":
		return r.output
	default:
		return defaultOutputPath(r.path, out, r.now)
	}
}

func printSummary(env repairEnv, found int, outcome repair.Outcome) {
	env.say("Summary: %d issue(s), %d fixed, %d skipped.", found, outcome.Fixed(), outcome.Skipped())
}

// writeDocument writes doc to path through a temp file and rename, or to
// stdout for "-".
func writeDocument(path string, doc *source.Document, stdout io.Writer) error {
	content := doc.Join()
	if path == driver.StdinPath {
		_, err := io.WriteString(stdout, content)
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".csvmend-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpName, 0o644)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
