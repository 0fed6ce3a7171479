package testkit

import (
	"sync"
	"testing"
)

// serialMu serializes tests that touch process-wide state, like the
// once-guarded logger root
var serialMu sync.Mutex

// Serial holds a process-wide lock for the duration of the test so parallel
// tests cannot interleave with it
func Serial(t *testing.T) {
	t.Helper()
	serialMu.Lock()
	t.Cleanup(serialMu.Unlock)
}
