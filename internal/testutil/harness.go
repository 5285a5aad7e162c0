package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/app"
	"github.com/vk/medallion/internal/hcl"
	"github.com/vk/medallion/internal/registry"
)

// RootPlaceholder is replaced by the harness's temporary root directory in
// every file written through it.
const RootPlaceholder = "{{root}}"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Options tunes a harness run. The zero value materializes everything
// sequentially.
type Options struct {
	Selection string
	Workers   int
	Extract   bool
	// Report, when set, is a path relative to the root.
	Report string
	Env    map[string]string
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Root      string
	LogOutput string
	Err       error
	App       *app.App
}

// Path joins elem onto the run's root directory.
func (r *HarnessResult) Path(elem ...string) string {
	return filepath.Join(append([]string{r.Root}, elem...)...)
}

// WriteFiles writes files (relative path -> content) under root, expanding
// RootPlaceholder.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(content, RootPlaceholder, root)), 0o644))
	}
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, opts Options, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, opts, modules...)
}

// RunIntegrationTestWithContext writes files into a fresh root, loads every
// .hcl file under "pipeline/" and runs the pipeline end to end. With no
// modules the production transforms are used.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts Options, modules ...registry.Module) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	WriteFiles(t, root, files)

	workers := opts.Workers
	if workers == 0 {
		workers = 1
	}
	report := ""
	if opts.Report != "" {
		report = filepath.Join(root, opts.Report)
	}
	appConfig, err := app.NewConfig(app.Config{
		PipelinePath: filepath.Join(root, "pipeline"),
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  workers,
		Selection:    opts.Selection,
		Extract:      opts.Extract,
		ReportPath:   report,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Root: root}

	testApp, err := app.NewApp(ctx, logBuffer, appConfig, hcl.NewLoader(opts.Env), modules...)
	if err == nil {
		t.Cleanup(func() { _ = testApp.Close() })
		result.App = testApp
		err = testApp.Run(ctx)
	}
	result.Err = err
	result.LogOutput = logBuffer.String()

	if os.Getenv("MEDALLION_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
