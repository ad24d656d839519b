// Package leaktest reports goroutines a test leaves running.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// SettleTimeout bounds how long Check waits for goroutines to exit.
var SettleTimeout = 2 * time.Second

const pollInterval = 10 * time.Millisecond

// Check records the current goroutine count and returns a function that
// fails t unless the count falls back to at most baseline+tolerance before
// SettleTimeout. Use as `defer leaktest.Check(t, 0)()`.
func Check(t testing.TB, tolerance int) func() {
	t.Helper()
	runtime.Gosched()
	before := runtime.NumGoroutine()

	return func() {
		t.Helper()
		after, ok := settle(before+tolerance, SettleTimeout)
		if !ok {
			t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", before, after, tolerance)
		}
	}
}

// CheckNoGoroutineLeak runs fn and requires every goroutine it started to exit
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	done := Check(t, 0)
	fn()
	done()
}

// settle polls until at most target goroutines run or timeout passes
func settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
