package eventlog

import (
	"context"
	"testing"
	"time"
)

func TestWaitForAppendWake(t *testing.T) {
	l := newTestLog(t, 50)

	done := make(chan bool, 1)
	go func() {
		done <- l.WaitForAppend(context.Background(), time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	l.Append(testEvent(1))

	select {
	case ok := <-done:
		if !ok {
			t.Fatalf("expected wake by append")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for waiter to wake")
	}
}

func TestWaitForAppendTimeout(t *testing.T) {
	l := newTestLog(t, 50)
	if l.WaitForAppend(context.Background(), 50*time.Millisecond) {
		t.Fatalf("expected timeout")
	}
}

func TestWaitForAppendContextCancel(t *testing.T) {
	l := newTestLog(t, 50)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	if l.WaitForAppend(ctx, 0) {
		t.Fatalf("expected false on cancellation")
	}
}
