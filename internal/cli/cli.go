package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/willjallen/g2automate/internal/app"
	"github.com/willjallen/g2automate/internal/build"
	"github.com/willjallen/g2automate/internal/vars"
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

// varFlag collects repeatable -var directives, parsing each one eagerly so
// malformed assignments fail during argument handling.
type varFlag struct {
	assignments *[]*vars.Assignment
}

func (v *varFlag) String() string { return "" }

func (v *varFlag) Set(token string) error {
	assignment, err := vars.Parse(token)
	if err != nil {
		return err
	}
	*v.assignments = append(*v.assignments, assignment)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// The documented surface puts positionals before flags
// (g2automate <terrain> <output> <num_runs> -increment_filepath -var ...),
// which stdlib flag does not parse on its own, so leading positionals are
// split off before the flag set sees the rest.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("g2automate", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
g2automate - Repeated Gaea 2 terrain builds with per-run variable rewriting.

Usage:
  g2automate [TERRAIN_PATH [OUTPUT_PATH]] NUM_RUNS [options]

Arguments:
  TERRAIN_PATH
    Path to the .terrain project file (default: current directory).
  OUTPUT_PATH
    Directory receiving mutated files and build output (default: current directory).
  NUM_RUNS
    Number of build runs to perform. Vars are re-evaluated per run.

Options:
`)
		flagSet.PrintDefaults()
	}

	var assignments []*vars.Assignment
	incrementFlag := flagSet.Bool("increment_filepath", false, "Write each run into its own zero-padded subdirectory (./001/, ./002/, ...).")
	flagSet.Var(&varFlag{&assignments}, "var", "Variable assignment, name=value or name=lambda: expression. Repeatable.")
	swarmExeFlag := flagSet.String("swarm-exe", build.DefaultSwarmExePath, "Path to the Gaea Swarm build executable.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text', 'json' or 'pretty'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	// Peel off the leading positionals so the flag parser only sees flags.
	var positionals []string
	rest := args
	for len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		positionals = append(positionals, rest[0])
		rest = rest[1:]
	}

	if err := flagSet.Parse(rest); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	positionals = append(positionals, flagSet.Args()...)
	slog.Debug("Arguments parsed successfully.", "positionals", len(positionals), "vars", len(assignments))

	if len(positionals) == 0 {
		slog.Debug("No arguments provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	terrainPath, outputPath := ".", "."
	var runsToken string
	switch len(positionals) {
	case 1:
		runsToken = positionals[0]
	case 2:
		terrainPath, runsToken = positionals[0], positionals[1]
	case 3:
		terrainPath, outputPath, runsToken = positionals[0], positionals[1], positionals[2]
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("too many positional arguments: %v", positionals)}
	}

	numRuns, err := strconv.Atoi(runsToken)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("num_runs %q is not an integer", runsToken)}
	}
	if numRuns <= 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("num_runs %d must be greater than 0", numRuns)}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "text", "json", "pretty":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text', 'json' or 'pretty'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if info, err := os.Stat(terrainPath); err != nil || info.IsDir() {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("terrain file %q does not exist or is not a file", terrainPath)}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		TerrainPath:   terrainPath,
		OutputPath:    outputPath,
		NumRuns:       numRuns,
		IncrementPath: *incrementFlag,
		SwarmExePath:  *swarmExeFlag,
		Assignments:   assignments,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
