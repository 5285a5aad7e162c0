package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertAssetMaterialized checks the log output for the success record of
// the asset with the given dotted key.
func AssertAssetMaterialized(t *testing.T, result *HarnessResult, key string) {
	t.Helper()
	assert.True(t, hasRecord(result.LogOutput, "Materialized asset", key),
		"expected a materialization record for asset '%s' in the logs", key)
}

// AssertAssetNotMaterialized is the inverse of AssertAssetMaterialized.
func AssertAssetNotMaterialized(t *testing.T, result *HarnessResult, key string) {
	t.Helper()
	assert.False(t, hasRecord(result.LogOutput, "Materialized asset", key),
		"asset '%s' was materialized but should not have been", key)
}

// AssertAssetSkipped checks the log output for the skip record of an asset.
func AssertAssetSkipped(t *testing.T, result *HarnessResult, key string) {
	t.Helper()
	assert.True(t, hasRecord(result.LogOutput, "Skipping asset", key),
		"expected asset '%s' to be skipped", key)
}

func hasRecord(logs, msg, key string) bool {
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, msg) && strings.Contains(line+" ", "asset="+key+" ") {
			return true
		}
	}
	return false
}
