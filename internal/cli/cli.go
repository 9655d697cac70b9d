// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/flowsheet/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowsheet", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Flowsheet - a declarative workflow engine for tabular data.

Usage:
  flowsheet [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a single .hcl workflow file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow file or directory (shorthand).")
	sourcesFlag := flagSet.String("sources", "", "Base directory for relative source paths.")
	formulasFlag := flagSet.String("formulas", "", "Path to formula manifest files.")
	modeFlag := flagSet.String("mode", app.ModePreview, "Execution mode. Options: 'preview' or 'run'.")
	sampleSizeFlag := flagSet.Int("sample-size", 100, "Number of rows a preview works over.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers. 0 uses all CPUs.")
	scopeFlag := flagSet.String("aggregate-scope", "sample", "What aggregate formulas see in a preview. Options: 'sample' or 'full'.")
	outFlag := flagSet.String("out", "", "Write result rows as JSON to this path.")
	generateFlag := flagSet.String("generate", "", "Generate an executor skeleton for the named formula instead of running.")
	executorsDirFlag := flagSet.String("executors-dir", "executors", "Directory custom executor sources are stored in.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" && *generateFlag == "" {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	mode := strings.ToLower(*modeFlag)
	if mode != app.ModePreview && mode != app.ModeRun {
		return nil, false, &ExitError{Code: 2, Message: "invalid mode: must be 'preview' or 'run'"}
	}

	scope := strings.ToLower(*scopeFlag)
	if scope != "sample" && scope != "full" {
		return nil, false, &ExitError{Code: 2, Message: "invalid aggregate-scope: must be 'sample' or 'full'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkflowPath:    path,
		SourcesDir:      *sourcesFlag,
		FormulasPath:    *formulasFlag,
		Mode:            mode,
		SampleSize:      *sampleSizeFlag,
		Workers:         *workersFlag,
		AggregateScope:  scope,
		OutPath:         *outFlag,
		GenerateFormula: *generateFlag,
		ExecutorsDir:    *executorsDirFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
