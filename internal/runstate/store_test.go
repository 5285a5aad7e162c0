package runstate

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Lifecycle(t *testing.T) {
	s := New("a", "b", "c")

	assert.Equal(t, StatusPending, s.Status("a"))
	assert.True(t, s.Start("a"))
	assert.Equal(t, StatusRunning, s.Status("a"))
	assert.False(t, s.Start("a"), "a node can only be started once")

	s.Finish("a", 42)
	assert.Equal(t, StatusMaterialized, s.Status("a"))
	assert.Equal(t, 42, s.Result("a"))
	assert.NoError(t, s.Err("a"))

	boom := errors.New("boom")
	assert.True(t, s.Start("b"))
	s.Fail("b", boom)
	assert.Equal(t, StatusFailed, s.Status("b"))
	assert.ErrorIs(t, s.Err("b"), boom)
	assert.Nil(t, s.Result("b"))

	assert.True(t, s.Skip("c"))
	assert.False(t, s.Start("c"), "skipped nodes never run")
	assert.False(t, s.Skip("a"), "finished nodes cannot be skipped")

	assert.False(t, s.Start("unknown"))
	assert.Equal(t, StatusPending, s.Status("unknown"))
}

func TestStore_StartIsExclusive(t *testing.T) {
	s := New("n")
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Start("n") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "materialized", StatusMaterialized.String())
	assert.Equal(t, "unknown", Status(99).String())
	assert.True(t, StatusSkipped.Done())
	assert.False(t, StatusRunning.Done())

	text, err := StatusFailed.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "failed", string(text))
}
