package build

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/willjallen/g2automate/internal/ctxlog"
)

// DefaultSwarmExePath is the stock Gaea 2 install location of the Swarm
// build executable on Windows.
const DefaultSwarmExePath = `C:\Program Files\QuadSpinner\Gaea 2\Gaea.Swarm.exe`

// Invoker triggers one build of a terrain file and blocks until it finishes.
type Invoker interface {
	Invoke(ctx context.Context, terrainPath string) error
}

// InvocationError reports a build that could not be started or exited
// non-zero. ExitCode is -1 when the process never started.
type InvocationError struct {
	ExePath  string
	Path     string
	ExitCode int
	Output   string
	Err      error
}

func (e *InvocationError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("invoking %s: %v", e.ExePath, e.Err)
	}
	return fmt.Sprintf("build of %s exited with code %d: %v", e.Path, e.ExitCode, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// SwarmInvoker runs the Gaea Swarm executable as a child process.
type SwarmInvoker struct {
	ExePath string
}

// NewSwarmInvoker creates an invoker for the executable at exePath, falling
// back to the stock install location when exePath is empty.
func NewSwarmInvoker(exePath string) *SwarmInvoker {
	if exePath == "" {
		exePath = DefaultSwarmExePath
	}
	return &SwarmInvoker{ExePath: exePath}
}

// Invoke builds the terrain file at terrainPath and waits for the build to
// exit. Combined process output is captured and attached to any error so a
// failed run is diagnosable from the log alone.
func (s *SwarmInvoker) Invoke(ctx context.Context, terrainPath string) error {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(terrainPath)
	if err != nil {
		return &InvocationError{ExePath: s.ExePath, Path: terrainPath, ExitCode: -1, Err: err}
	}

	cmd := exec.CommandContext(ctx, s.ExePath, "-filename", abs)
	logger.Info("Starting build.", "exe", s.ExePath, "file", abs)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &InvocationError{
				ExePath:  s.ExePath,
				Path:     abs,
				ExitCode: exitErr.ExitCode(),
				Output:   strings.TrimSpace(string(out)),
				Err:      err,
			}
		}
		return &InvocationError{ExePath: s.ExePath, Path: abs, ExitCode: -1, Err: err}
	}

	logger.Info("Build finished.", "file", abs)
	return nil
}
