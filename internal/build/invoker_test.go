package build

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExe writes a small shell script standing in for the Swarm executable.
func fakeExe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "swarm.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestNewSwarmInvoker_DefaultsExePath(t *testing.T) {
	inv := NewSwarmInvoker("")
	assert.Equal(t, DefaultSwarmExePath, inv.ExePath)
}

func TestInvoke_Success(t *testing.T) {
	exe := fakeExe(t, `echo "building $2"`+"\nexit 0\n")
	inv := NewSwarmInvoker(exe)

	err := inv.Invoke(context.Background(), "some.terrain")
	require.NoError(t, err)
}

func TestInvoke_NonZeroExit(t *testing.T) {
	exe := fakeExe(t, "echo license check failed >&2\nexit 3\n")
	inv := NewSwarmInvoker(exe)

	err := inv.Invoke(context.Background(), "some.terrain")
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 3, invErr.ExitCode)
	assert.Contains(t, invErr.Output, "license check failed")
}

func TestInvoke_ExecutableNotFound(t *testing.T) {
	inv := NewSwarmInvoker(filepath.Join(t.TempDir(), "missing.exe"))

	err := inv.Invoke(context.Background(), "some.terrain")
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, -1, invErr.ExitCode)
}

func TestInvoke_PassesAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "args.txt")
	exe := fakeExe(t, `printf '%s\n' "$@" > `+marker+"\nexit 0\n")
	inv := NewSwarmInvoker(exe)

	require.NoError(t, inv.Invoke(context.Background(), "rel.terrain"))

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	abs, err := filepath.Abs("rel.terrain")
	require.NoError(t, err)
	assert.Equal(t, "-filename\n"+abs+"\n", string(data))
}
