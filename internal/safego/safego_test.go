package safego

import (
	"testing"
	"time"
)

func waitOrFail(t *testing.T, done chan struct{}, msg string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error(msg)
	}
}

func TestGo_RunsTask(t *testing.T) {
	done := make(chan struct{})

	Go("stats-collector", func() {
		close(done)
	})

	waitOrFail(t, done, "background task did not run within timeout")
}

func TestGo_ContainsPanic(t *testing.T) {
	done := make(chan struct{})

	// Must not crash the test process; the panic is recovered and logged.
	Go("metrics-listener", func() {
		defer close(done)
		panic("listener blew up")
	})

	waitOrFail(t, done, "panicking task did not complete within timeout")
}

func TestGo_PanicDoesNotBlockLaterTasks(t *testing.T) {
	first := make(chan struct{})
	second := make(chan struct{})

	Go("first", func() {
		defer close(first)
		panic("boom")
	})
	waitOrFail(t, first, "first task did not finish")

	Go("second", func() {
		close(second)
	})
	waitOrFail(t, second, "task launched after a panic did not run")
}
