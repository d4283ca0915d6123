package eventlog

import (
	"context"
	"time"
)

// WaitForAppend blocks until a new append occurs, timeout elapses, or ctx is
// done. It returns true only when woken by an append. A non-positive timeout
// waits on the append and ctx alone.
func (l *Log) WaitForAppend(ctx context.Context, timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.notifyCh
	l.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case <-ch:
		return true
	case <-expired:
		return false
	case <-ctx.Done():
		return false
	}
}
