package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoRunsFunction(t *testing.T) {
	done := make(chan struct{})
	Go(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go did not run the function")
	}
}

func TestCrashRestoreRunsOnce(t *testing.T) {
	calls := 0
	SetCrashRestore(func() { calls++ })
	runCrashRestore()
	runCrashRestore()
	assert.Equal(t, 1, calls)

	SetCrashRestore(nil)
	runCrashRestore()
	assert.Equal(t, 1, calls)
}

func TestHandleCrashIgnoresNil(t *testing.T) {
	calls := 0
	SetCrashRestore(func() { calls++ })
	defer SetCrashRestore(nil)
	HandleCrash(nil)
	assert.Zero(t, calls)
}
