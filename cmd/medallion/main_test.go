package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/cli"
	"github.com/vk/medallion/internal/errs"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
	require.Equal(t, cli.ExitUsage, cli.MaterializeExit(err).Code)
}

func TestRun_InvalidPipeline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`asset "bronze" {`), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
	require.Equal(t, cli.ExitFailure, cli.MaterializeExit(err).Code)
}

func TestRun_MissingPipeline(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "absent")})

	require.ErrorIs(t, err, errs.ErrNotFound)
}
