// Package walltime provides the mockable wall clock used by block timestamp
// validation. Production code calls Now or NetworkAdjustedNow; tests call
// SetMockTime to freeze it.
package walltime

import (
	"sync/atomic"
	"time"
)

// mockTime holds a process-wide override. Zero means "unset": Now falls
// through to the real clock. Only test code should ever write this.
var mockTime atomic.Uint64

// Now returns the current time as seconds since the Unix epoch, or the
// mocked value if one has been set.
func Now() uint32 {
	if mock := mockTime.Load(); mock != 0 {
		return uint32(mock)
	}
	return uint32(time.Now().Unix())
}

// NetworkAdjustedNow returns Now() adjusted for clock skew reported by
// connected peers. This revision has no peer population to average offsets
// over, so it is simply Now(); a richer SPV implementation would aggregate
// per-peer time offsets the way a full node does.
func NetworkAdjustedNow() uint32 {
	return Now()
}

// SetMockTime freezes Now()/NetworkAdjustedNow() at t for the remainder of
// the process, or until ResetMockTime is called. Test-only.
func SetMockTime(t uint32) {
	mockTime.Store(uint64(t))
}

// ResetMockTime clears a previously set mock time, returning Now() to the
// real wall clock.
func ResetMockTime() {
	mockTime.Store(0)
}
