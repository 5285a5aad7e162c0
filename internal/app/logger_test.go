package app

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("WARN", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "duration", 1500*time.Nanosecond+3*time.Millisecond)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, float64(3002000), rec["duration"])

	buf.Reset()
	newLogger("bogus", "text", &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
