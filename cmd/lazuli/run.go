package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lazuli/internal/crash"
	"lazuli/internal/driver"
	"lazuli/internal/project"
	"lazuli/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.lzr...]",
	Short: "Run lazuli scripts",
	Long: `Run preprocesses, parses and executes each script. Without arguments the
script is read from stdin and labelled "local".`,
	RunE: runScripts,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "abort a script after this long (0 = config or no limit)")
	runCmd.Flags().String("crash-dir", "", "directory for crash reports (default from config)")
	runCmd.Flags().Bool("no-crash-file", false, "do not write crash reports to files")
	runCmd.Flags().StringArrayP("define", "D", nil, "preprocessor define NAME=VALUE (repeatable)")
	runCmd.Flags().String("include-dir", "", "root for #include (default: the script's directory)")
	runCmd.Flags().Int("jobs", 0, "max scripts running in parallel (0 = auto)")
	runCmd.Flags().String("ui", "auto", "progress UI for several files (auto|on|off)")
	runCmd.Flags().Int("max-call-depth", 0, "maximum script call depth (0 = config)")
}

// runSettings is the config file merged with command-line flags.
type runSettings struct {
	cfg         project.Config
	noCrashFile bool
	jobs        int
	ui          uiMode
	quiet       bool
	timings     bool
}

func readRunSettings(cmd *cobra.Command) (runSettings, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return runSettings{}, err
	}
	s := runSettings{cfg: cfg}
	flags := cmd.Flags()

	if flags.Changed("timeout") {
		if s.cfg.Run.Timeout.Duration, err = flags.GetDuration("timeout"); err != nil {
			return s, err
		}
	}
	if flags.Changed("max-call-depth") {
		if s.cfg.Run.MaxCallDepth, err = flags.GetInt("max-call-depth"); err != nil {
			return s, err
		}
	}
	if flags.Changed("crash-dir") {
		dir, _ := flags.GetString("crash-dir")
		if s.cfg.Crash.Dir, err = filepath.Abs(dir); err != nil {
			return s, err
		}
	}
	if flags.Changed("include-dir") {
		dir, _ := flags.GetString("include-dir")
		if s.cfg.Preprocess.IncludeDir, err = filepath.Abs(dir); err != nil {
			return s, err
		}
	}
	defines, err := flags.GetStringArray("define")
	if err != nil {
		return s, err
	}
	if len(defines) > 0 {
		parsed, err := parseDefines(defines)
		if err != nil {
			return s, err
		}
		merged := make(map[string]string, len(s.cfg.Preprocess.Defines)+len(parsed))
		for k, v := range s.cfg.Preprocess.Defines {
			merged[k] = v
		}
		for k, v := range parsed {
			merged[k] = v
		}
		s.cfg.Preprocess.Defines = merged
	}

	if s.noCrashFile, err = flags.GetBool("no-crash-file"); err != nil {
		return s, err
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, err
	}
	uiValue, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	s.quiet, _ = cmd.Root().PersistentFlags().GetBool("quiet")
	s.timings, _ = cmd.Root().PersistentFlags().GetBool("timings")
	return s, nil
}

// parseDefines parses NAME=VALUE pairs; a bare NAME defines it as empty.
func parseDefines(items []string) (map[string]string, error) {
	out := make(map[string]string, len(items))
	for _, item := range items {
		name, value, _ := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --define %q (expected NAME=VALUE)", item)
		}
		out[name] = value
	}
	return out, nil
}

// consoleReport: печатать ли отчёт о крэше в консоль.
func (s runSettings) consoleReport() bool {
	return s.cfg.Crash.Console && !s.quiet
}

// sessionSinks builds the crash sinks for one run; file is the FileSink
// (nil when disabled) so the caller can tell where the report went.
// console nil: no console sink, the report goes elsewhere.
func (s runSettings) sessionSinks(console io.Writer) (sinks []crash.Sink, file *crash.FileSink) {
	if console != nil && s.consoleReport() {
		sinks = append(sinks, crash.NewConsoleSink(console))
	}
	if s.cfg.Crash.File && !s.noCrashFile {
		file = crash.NewFileSink(s.cfg.Crash.Dir)
		sinks = append(sinks, file)
	}
	if s.cfg.Crash.Archive {
		sinks = append(sinks, crash.NewArchiveSink(s.cfg.Crash.Dir))
	}
	return sinks, file
}

func (s runSettings) runOptions() driver.RunOptions {
	opts := driver.RunOptions{
		Timeout:      s.cfg.Run.Timeout.Duration,
		MaxCallDepth: s.cfg.Run.MaxCallDepth,
		RingSize:     s.cfg.Trace.RingSize,
	}
	opts.Preprocess.Defines = s.cfg.Preprocess.Defines
	if s.cfg.Preprocess.IncludeDir != "" {
		opts.Preprocess.FS = os.DirFS(s.cfg.Preprocess.IncludeDir)
	}
	return opts
}

func runScripts(cmd *cobra.Command, args []string) error {
	s, err := readRunSettings(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts := s.runOptions()
	opts.MaxDiagnostics = maxDiagnostics

	if len(args) <= 1 {
		return runSingle(cmd, s, opts, args)
	}
	return runMany(cmd, s, opts, args)
}

func runSingle(cmd *cobra.Command, s runSettings, opts driver.RunOptions, args []string) error {
	var src []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
		opts.Context = driver.DefaultContext
		if opts.Preprocess.FS == nil {
			opts.Preprocess.FS = os.DirFS(".")
		}
	} else {
		// #nosec G304 -- path is provided by the user
		src, err = os.ReadFile(args[0])
		opts.Context = args[0]
		if opts.Preprocess.FS == nil {
			opts.Preprocess.FS = os.DirFS(filepath.Dir(args[0]))
		}
	}
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	sinks, file := s.sessionSinks(cmd.ErrOrStderr())
	h := crash.NewHandler()
	h.Register(crash.NewSimpleReporter(), sinks...)
	opts.Handler = h
	opts.Stream = cmd.OutOrStdout()

	out, err := driver.RunCode(cmd.Context(), string(src), opts)
	if err != nil {
		return runError(err, s.cfg.Run.Timeout.Duration > 0)
	}
	reportOutcome(cmd.ErrOrStderr(), s, out, file)
	if out.Failed() {
		return fmt.Errorf("%s: %s", out.Context, out.Kind)
	}
	return nil
}

func runMany(cmd *cobra.Command, s runSettings, opts driver.RunOptions, paths []string) error {
	files := make(map[string]*crash.FileSink, len(paths))
	// параллельные отчёты в stderr перемешались бы (и затёрли бы TUI):
	// отчёт печатается вместе с выводом своего файла
	opts.ReportToOutput = s.consoleReport()
	opts.NewSession = func(path string) *crash.Handler {
		sinks, file := s.sessionSinks(nil)
		h := crash.NewHandler()
		h.Register(crash.NewSimpleReporter(), sinks...)
		if file != nil {
			files[path] = file
		}
		return h
	}
	// NewSession вызывается из воркеров
	opts.NewSession = lockedSession(opts.NewSession)

	var results []driver.FileResult
	var runErr error
	if shouldUseTUI(s.ui, len(paths)) {
		events := make(chan ui.Event, len(paths)*2)
		opts.OnFileStart = func(_ int, path string) { events <- ui.Event{File: path, Status: ui.StatusRunning} }
		opts.OnFileDone = func(_ int, res driver.FileResult) { events <- ui.Event{File: res.Path, Status: statusOf(res)} }
		go func() {
			results, runErr = driver.RunFiles(cmd.Context(), paths, opts, s.jobs)
			close(events)
		}()
		uiErr := ui.Run(cmd.ErrOrStderr(), "lazuli run", paths, events)
		// UI мог завершиться раньше (Ctrl-C), ждём закрытия канала
		for range events {
		}
		if uiErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: progress UI: %v\n", uiErr)
		}
	} else {
		results, runErr = driver.RunFiles(cmd.Context(), paths, opts, s.jobs)
	}

	failed := 0
	stdout := cmd.OutOrStdout()
	for _, res := range results {
		if !s.quiet {
			fmt.Fprintf(stdout, "%s\n", color.New(color.Bold).Sprintf("== %s ==", res.Path))
		}
		if res.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Path, runError(res.Err, s.cfg.Run.Timeout.Duration > 0))
			if res.Outcome != nil {
				fmt.Fprint(stdout, res.Outcome.Output)
			}
			continue
		}
		fmt.Fprint(stdout, res.Outcome.Output)
		reportOutcome(cmd.ErrOrStderr(), s, res.Outcome, files[res.Path])
		if res.Outcome.Failed() {
			failed++
		}
	}
	if runErr != nil {
		return runError(runErr, false)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(paths))
	}
	return nil
}

func statusOf(res driver.FileResult) ui.Status {
	if res.Err != nil || res.Outcome == nil {
		return ui.StatusError
	}
	switch res.Outcome.Kind {
	case driver.OutcomeExecuted:
		return ui.StatusOK
	case driver.OutcomeParseErrors:
		return ui.StatusParseErrors
	case driver.OutcomeLanguageFault:
		return ui.StatusFault
	default:
		return ui.StatusCrashed
	}
}

func reportOutcome(stderr io.Writer, s runSettings, out *driver.Outcome, file *crash.FileSink) {
	if out.Kind == driver.OutcomeCrashed && !s.quiet {
		warn := color.New(color.FgYellow, color.Bold).Sprint("crash:")
		fmt.Fprintf(stderr, "%s %s failed unexpectedly in %s\n", warn, out.Context, out.Crash.Stage)
		if file != nil && file.LastPath() != "" {
			fmt.Fprintf(stderr, "%s report written to %s\n", warn, file.LastPath())
		}
	}
	for _, err := range out.SinkErrors {
		fmt.Fprintf(stderr, "warning: crash sink: %v\n", err)
	}
	if s.timings {
		printTimings(stderr, out)
	}
}

func runError(err error, hasTimeout bool) error {
	if hasTimeout && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out: %w", err)
	}
	return err
}
