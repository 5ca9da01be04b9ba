package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willjallen/g2automate/internal/vars"
)

// writeTerrain drops a minimal valid terrain file and returns its path.
func writeTerrain(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.terrain")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	return path
}

func TestParse_FullArgumentLine(t *testing.T) {
	terrain := writeTerrain(t)
	out := t.TempDir()
	var buf bytes.Buffer

	cfg, exit, err := Parse([]string{
		terrain, out, "3",
		"-increment_filepath",
		"-var", "Seed=10",
		"-var", "Scale=lambda: randfloat(0.5, 2.0)",
		"-log-format", "json",
		"-log-level", "debug",
	}, &buf)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, terrain, cfg.TerrainPath)
	assert.Equal(t, out, cfg.OutputPath)
	assert.Equal(t, 3, cfg.NumRuns)
	assert.True(t, cfg.IncrementPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)

	require.Len(t, cfg.Assignments, 2)
	assert.Equal(t, "Seed", cfg.Assignments[0].Name)
	assert.Equal(t, vars.KindLiteral, cfg.Assignments[0].Kind)
	assert.Equal(t, "Scale", cfg.Assignments[1].Name)
	assert.Equal(t, vars.KindExpression, cfg.Assignments[1].Kind)
}

func TestParse_DefaultsApplied(t *testing.T) {
	terrain := writeTerrain(t)
	var buf bytes.Buffer

	cfg, exit, err := Parse([]string{terrain, "2"}, &buf)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, ".", cfg.OutputPath)
	assert.Equal(t, 2, cfg.NumRuns)
	assert.False(t, cfg.IncrementPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Assignments)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var buf bytes.Buffer

	cfg, exit, err := Parse(nil, &buf)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, buf.String(), "Usage:")
}

func TestParse_NonNumericRuns(t *testing.T) {
	terrain := writeTerrain(t)
	var buf bytes.Buffer

	_, _, err := Parse([]string{terrain, ".", "lots"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "not an integer")
}

func TestParse_NonPositiveRuns(t *testing.T) {
	terrain := writeTerrain(t)
	var buf bytes.Buffer

	_, _, err := Parse([]string{terrain, ".", "0"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_VarMissingSeparator(t *testing.T) {
	terrain := writeTerrain(t)
	var buf bytes.Buffer

	_, _, err := Parse([]string{terrain, ".", "2", "-var", "Seed10"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "expected name=value")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	terrain := writeTerrain(t)
	var buf bytes.Buffer

	_, _, err := Parse([]string{terrain, ".", "2", "-log-format", "xml"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_MissingTerrainFile(t *testing.T) {
	var buf bytes.Buffer

	_, _, err := Parse([]string{filepath.Join(t.TempDir(), "ghost.terrain"), ".", "2"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "does not exist")
}

func TestParse_TooManyPositionals(t *testing.T) {
	var buf bytes.Buffer

	_, _, err := Parse([]string{"a", "b", "2", "extra"}, &buf)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_Help(t *testing.T) {
	var buf bytes.Buffer

	_, exit, err := Parse([]string{"-h"}, &buf)
	require.NoError(t, err)
	assert.True(t, exit)
}
