package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/willjallen/g2automate/internal/ctxlog"
	"github.com/willjallen/g2automate/internal/fsutil"
	"github.com/willjallen/g2automate/internal/terrain"
)

// runContext carries everything one run produces before the build fires. A
// new one is built per iteration and discarded once the build returns.
type runContext struct {
	RunIndex   int
	Values     map[string]string
	OutputDir  string
	OutputPath string
}

// Run executes the configured number of automation runs sequentially. Errors
// inside a run are logged and isolated to that run; Run only fails on errors
// that happen before the first run can start.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// When incrementing, resume numbering after whatever earlier invocations
	// left behind in the output directory.
	baseIndex := 0
	if a.config.IncrementPath {
		next, err := fsutil.NextRunIndex(a.config.OutputPath)
		if err != nil {
			return fmt.Errorf("preparing output directory: %w", err)
		}
		baseIndex = next - 1
	}

	a.logger.Info("🚀 Starting automation.",
		"terrain", a.config.TerrainPath,
		"runs", a.config.NumRuns,
		"increment", a.config.IncrementPath,
	)

	for i := 1; i <= a.config.NumRuns; i++ {
		runLogger := a.logger.With("run", i)
		runCtx := ctxlog.WithLogger(ctx, runLogger)
		if err := a.runOnce(runCtx, i, baseIndex+i); err != nil {
			runLogger.Error("Run failed, continuing with next run.", "error", err)
		}
	}

	a.logger.Info("🏁 Automation finished.", "runs", a.config.NumRuns)
	return nil
}

// runOnce performs a single evaluate → mutate → invoke cycle. dirIndex is
// the on-disk run-directory number, which can be offset from the run index
// when earlier output already exists.
func (a *App) runOnce(ctx context.Context, runIndex, dirIndex int) error {
	logger := ctxlog.FromContext(ctx)

	rc := runContext{
		RunIndex: runIndex,
		Values:   make(map[string]string, len(a.config.Assignments)),
	}

	// Evaluate every assignment before touching the file, so an evaluation
	// failure skips the run without leaving a half-mutated file behind.
	for _, assignment := range a.config.Assignments {
		value, err := a.evaluator.Evaluate(assignment, runIndex)
		if err != nil {
			return err
		}
		rc.Values[assignment.Name] = value
		logger.Debug("Resolved assignment.", "name", assignment.Name, "value", value)
	}

	rc.OutputDir = a.config.OutputPath
	if a.config.IncrementPath {
		rc.OutputDir = filepath.Join(a.config.OutputPath, fmt.Sprintf("%03d", dirIndex))
	}
	if err := fsutil.EnsureDir(rc.OutputDir); err != nil {
		return err
	}
	rc.OutputPath = filepath.Join(rc.OutputDir, filepath.Base(a.config.TerrainPath))

	// Reload from the source file each run; mutations never accumulate.
	doc, err := terrain.Load(a.config.TerrainPath)
	if err != nil {
		return err
	}

	for _, assignment := range a.config.Assignments {
		err := doc.ApplyAssignment(assignment.Name, rc.Values[assignment.Name])
		if err == nil {
			continue
		}
		var notFound *terrain.FieldNotFoundError
		var ambiguous *terrain.AmbiguousFieldError
		if errors.As(err, &notFound) || errors.As(err, &ambiguous) {
			// Skip just this assignment; the run still builds with the rest.
			logger.Warn("Skipping assignment.", "name", assignment.Name, "error", err)
			continue
		}
		return err
	}

	destinations, err := doc.SetDestination(rc.OutputDir)
	if err != nil {
		return err
	}
	if destinations == 0 {
		logger.Warn("Terrain file has no Destination fields; build output location is up to the tool.")
	}

	if err := doc.Save(rc.OutputPath); err != nil {
		return err
	}
	logger.Info("Wrote mutated terrain file.", "path", rc.OutputPath)

	return a.invoker.Invoke(ctx, rc.OutputPath)
}
