package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	const key = "MEDALLION_ENV_TEST_VALUE"
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))

	t.Run("explicit file is loaded", func(t *testing.T) {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })

		require.NoError(t, LoadEnv(path))
		assert.Equal(t, "from-file", os.Getenv(key))
	})

	t.Run("existing variables win", func(t *testing.T) {
		t.Setenv(key, "from-process")

		require.NoError(t, LoadEnv(path))
		assert.Equal(t, "from-process", os.Getenv(key))
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		err := LoadEnv(filepath.Join(dir, "absent.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.env")
	})
}
