package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/medallion/internal/app"
	"github.com/vk/medallion/internal/catalog"
	"github.com/vk/medallion/internal/errs"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitNoLocation  = 3
	ExitNoArtifacts = 4
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

// DefaultPipelinePath is used when no pipeline path is given.
const DefaultPipelinePath = "pipeline"

// ParseMaterialize processes the pipeline binary's arguments. It returns a
// populated Config, a boolean indicating if the program should exit cleanly,
// or an ExitError.
func ParseMaterialize(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("medallion", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Medallion - materializes the bronze, silver and gold layers of a pipeline.

Usage:
  medallion [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .hcl file or a directory containing .hcl files (default "pipeline").

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	selectFlag := flagSet.String("select", "all", "Comma-separated asset keys to materialize (with their dependencies), or 'all'.")
	extractFlag := flagSet.Bool("extract", false, "Download raw files declared by extract blocks before materializing.")
	extractTimeoutFlag := flagSet.String("extract-timeout", "60s", "Timeout of a single extraction HTTP request.")
	reportFlag := flagSet.String("report", "", "Write a YAML materialization report to this file.")
	envFileFlag := flagSet.String("env-file", "", "Load environment variables from this file (default: .env when present).")
	workersFlag := flagSet.Int("workers", 1, "Number of assets materialized concurrently. 1 is strictly sequential.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	path := DefaultPipelinePath
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	slog.Debug("Pipeline path determined.", "path", path)

	logFormat, logLevel, err := validateLogFlags(*logFormatFlag, *logLevelFlag)
	if err != nil {
		return nil, false, err
	}
	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid workers: must be at least 1"}
	}

	config, err := app.NewConfig(app.Config{
		PipelinePath:   path,
		EnvFile:        *envFileFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		WorkerCount:    *workersFlag,
		Selection:      *selectFlag,
		Extract:        *extractFlag,
		ExtractTimeout: *extractTimeoutFlag,
		ReportPath:     *reportFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// ParseQuery processes the query binary's arguments. Exactly one of
// --bronze, --silver and --gold is required.
func ParseQuery(args []string, output io.Writer) (*app.QueryConfig, bool, error) {
	flagSet := flag.NewFlagSet("medallion-query", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Medallion Query - interactive SQL over the artifacts of one layer.

Usage:
  medallion-query (--bronze | --silver | --gold) [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	layers := []string{"bronze", "silver", "gold"}
	selected := make(map[string]*bool, len(layers))
	for _, l := range layers {
		selected[l] = flagSet.Bool(l, false, fmt.Sprintf("Query the %s layer.", l))
	}
	pipelineFlag := flagSet.String("pipeline", "", "Pipeline file or directory whose layer blocks override the default directories.")
	envFileFlag := flagSet.String("env-file", "", "Load environment variables from this file (default: .env when present).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	var chosen []string
	for _, l := range layers {
		if *selected[l] {
			chosen = append(chosen, l)
		}
	}
	switch len(chosen) {
	case 0:
		flagSet.Usage()
		return nil, false, &ExitError{Code: ExitUsage, Message: "one of --bronze, --silver or --gold is required"}
	case 1:
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("flags --%s are mutually exclusive", strings.Join(chosen, ", --"))}
	}

	logFormat, logLevel, err := validateLogFlags(*logFormatFlag, *logLevelFlag)
	if err != nil {
		return nil, false, err
	}

	config, err := app.NewQueryConfig(app.QueryConfig{
		Layer:        chosen[0],
		PipelinePath: *pipelineFlag,
		EnvFile:      *envFileFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return config, false, nil
}

func validateLogFlags(format, level string) (string, string, error) {
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return "", "", &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	level = strings.ToLower(level)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return "", "", &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	return format, level, nil
}

// MaterializeExit converts a pipeline run error into an ExitError.
func MaterializeExit(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if errors.Is(err, errs.ErrInvalidSelection) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// QueryExit converts a query session error into an ExitError. A missing
// location and an empty one get their own codes.
func QueryExit(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case errors.Is(err, catalog.ErrNoArtifacts):
		return &ExitError{Code: ExitNoArtifacts, Message: err.Error()}
	case errors.Is(err, errs.ErrNotFound):
		return &ExitError{Code: ExitNoLocation, Message: err.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}
