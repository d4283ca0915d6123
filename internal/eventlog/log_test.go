package eventlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rzbill/nidsmon/internal/event"
	pebblestore "github.com/rzbill/nidsmon/internal/storage/pebble"
)

func newTestLog(t *testing.T, capacity int) *Log {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	l, err := OpenLog(db, "events", capacity, nil)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return l
}

func testEvent(i int) event.Event {
	sev := event.SeverityInfo
	if i%3 == 0 {
		sev = event.SeverityAlert
	}
	return event.New(fmt.Sprintf("e%d", i), "run", time.Now(), sev, fmt.Sprintf("192.168.1.%d", 2+i%99))
}

func ids(evs []event.Event) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.ID
	}
	return out
}

func TestAppendAssignsSequential(t *testing.T) {
	l := newTestLog(t, 50)
	a := l.Append(testEvent(1))
	b := l.Append(testEvent(2))
	if a != 1 || b != 2 {
		t.Fatalf("expected seqs 1,2 got %d,%d", a, b)
	}
	snap := l.Snapshot()
	if len(snap) != 2 || snap[0].ID != "e1" || snap[1].ID != "e2" {
		t.Fatalf("unexpected snapshot: %v", ids(snap))
	}
	if snap[1].Text != testEvent(2).Text || snap[1].Severity != event.SeverityInfo {
		t.Fatalf("event fields not preserved: %+v", snap[1])
	}
}

func TestEmptySnapshot(t *testing.T) {
	l := newTestLog(t, 50)
	if got := l.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(got))
	}
}

func TestFIFOEviction(t *testing.T) {
	l := newTestLog(t, 50)
	for i := 1; i <= 51; i++ {
		l.Append(testEvent(i))
	}
	snap := l.Snapshot()
	if len(snap) != 50 {
		t.Fatalf("want 50 events, got %d", len(snap))
	}
	for i, e := range snap {
		if want := fmt.Sprintf("e%d", i+2); e.ID != want {
			t.Fatalf("position %d: got %s want %s", i, e.ID, want)
		}
	}
	c := l.Counters()
	if c.Appended != 51 || c.Evicted != 1 || c.LastSeq != 51 {
		t.Fatalf("unexpected counters: %+v", c)
	}
}

func TestBoundedLength(t *testing.T) {
	l := newTestLog(t, 50)
	for i := 1; i <= 500; i++ {
		l.Append(testEvent(i))
		if n := l.Len(); n > 50 {
			t.Fatalf("length %d exceeds capacity after %d appends", n, i)
		}
	}
	snap := l.Snapshot()
	if len(snap) != 50 || snap[0].ID != "e451" || snap[49].ID != "e500" {
		t.Fatalf("unexpected window: first=%s last=%s len=%d", snap[0].ID, snap[len(snap)-1].ID, len(snap))
	}
}

func TestCapacityDefault(t *testing.T) {
	l := newTestLog(t, 0)
	if l.Capacity() != DefaultCapacity {
		t.Fatalf("capacity: %d", l.Capacity())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := newTestLog(t, 3)
	for i := 1; i <= 3; i++ {
		l.Append(testEvent(i))
	}
	snap := l.Snapshot()
	snap[0].Text = "mutated"
	l.Append(testEvent(4))
	if snap[0].ID != "e1" || len(snap) != 3 {
		t.Fatalf("snapshot changed after append: %v", ids(snap))
	}
	if again := l.Snapshot(); again[0].ID != "e2" || again[0].Text == "mutated" {
		t.Fatalf("log affected by caller mutation: %+v", again[0])
	}
}

func TestReadAfter(t *testing.T) {
	l := newTestLog(t, 5)
	for i := 1; i <= 8; i++ {
		l.Append(testEvent(i))
	}
	items := l.ReadAfter(5)
	if len(items) != 3 || items[0].Seq != 6 || items[2].Seq != 8 {
		t.Fatalf("unexpected items: %+v", items)
	}
	// Evicted sequences are simply absent.
	if items := l.ReadAfter(1); len(items) != 5 || items[0].Seq != 4 {
		t.Fatalf("expected retained window 4..8, got %d items starting %d", len(items), items[0].Seq)
	}
	if items := l.ReadAfter(8); len(items) != 0 {
		t.Fatalf("expected nothing after last seq")
	}
}

func TestConcurrentAppendAndSnapshot(t *testing.T) {
	l := newTestLog(t, 50)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Append(testEvent(w*1000 + i))
			}
		}(w)
	}
	stop := make(chan struct{})
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := l.Snapshot()
			if len(snap) > 50 {
				t.Errorf("snapshot length %d exceeds capacity", len(snap))
				return
			}
			for _, e := range snap {
				if !e.Severity.Valid() {
					t.Errorf("torn read: %+v", e)
					return
				}
			}
		}
	}()
	wg.Wait()
	close(stop)
	<-readerDone

	if c := l.Counters(); c.Appended != 400 || c.Evicted != 350 {
		t.Fatalf("unexpected counters: %+v", c)
	}
}
