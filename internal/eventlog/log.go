package eventlog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/rzbill/nidsmon/internal/event"
	pebblestore "github.com/rzbill/nidsmon/internal/storage/pebble"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// DefaultCapacity is the number of events retained when none is configured.
const DefaultCapacity = 50

// Item is an event together with the sequence number the log assigned to it.
type Item struct {
	Seq   uint64
	Event event.Event
}

// Log is a bounded, insertion-ordered event buffer with FIFO eviction.
type Log struct {
	db       *pebblestore.DB
	name     string
	capacity int
	logger   logpkg.Logger

	mu       sync.Mutex
	lastSeq  uint64
	size     int
	appended uint64
	evicted  uint64
	notifyCh chan struct{}
}

// OpenLog creates an empty log named name on db. A capacity below one selects
// DefaultCapacity. The capacity is fixed for the lifetime of the Log.
func OpenLog(db *pebblestore.DB, name string, capacity int, logger logpkg.Logger) (*Log, error) {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	l := &Log{
		db:       db,
		name:     name,
		capacity: capacity,
		logger:   logger,
		notifyCh: make(chan struct{}),
	}
	if err := l.dropAll(); err != nil {
		return nil, err
	}
	return l, nil
}

// dropAll clears leftovers under name so a reopened on-disk store starts empty.
func (l *Log) dropAll() error {
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(KeyEntryPrefix(l.name), upperBound(l.name), nil); err != nil {
		return err
	}
	return l.db.CommitBatch(context.Background(), b)
}

// Append inserts ev at the tail, evicting the head when the log is full, and
// returns the assigned sequence. The write is visible to every Snapshot that
// starts after Append returns. A store failure is logged and the event
// dropped (returned seq is 0); the in-memory store does not fail in practice.
func (l *Log) Append(ev event.Event) uint64 {
	payload, err := json.Marshal(ev)
	if err != nil {
		l.logger.Error("encode event", logpkg.Err(err), logpkg.Str("id", ev.ID))
		return 0
	}
	rec := EncodeRecord(timeHeader(ev.Timestamp), payload)

	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.lastSeq + 1
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyEntry(l.name, seq), rec, nil); err != nil {
		l.logger.Error("stage append", logpkg.Err(err), logpkg.Uint64("seq", seq))
		return 0
	}
	evict := l.size >= l.capacity
	if evict {
		oldest := seq - uint64(l.size)
		if err := b.Delete(KeyEntry(l.name, oldest), nil); err != nil {
			l.logger.Error("stage eviction", logpkg.Err(err), logpkg.Uint64("seq", oldest))
			return 0
		}
	}
	if err := l.db.CommitBatch(context.Background(), b); err != nil {
		l.logger.Error("commit append", logpkg.Err(err), logpkg.Uint64("seq", seq))
		return 0
	}

	l.lastSeq = seq
	l.appended++
	if evict {
		l.evicted++
	} else {
		l.size++
	}
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return seq
}

// Snapshot returns a copy of the log contents, oldest first.
func (l *Log) Snapshot() []event.Event {
	items := l.ReadAfter(0)
	out := make([]event.Event, len(items))
	for i := range items {
		out[i] = items[i].Event
	}
	return out
}

// ReadAfter returns the retained entries with a sequence greater than seq,
// oldest first.
func (l *Log) ReadAfter(seq uint64) []Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]Item, 0, l.size)
	if l.size == 0 || seq >= l.lastSeq {
		return items
	}
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: KeyEntry(l.name, seq+1),
		UpperBound: upperBound(l.name),
	})
	if err != nil {
		l.logger.Error("open iterator", logpkg.Err(err))
		return items
	}
	defer iter.Close()

	for ok := iter.First(); ok; ok = iter.Next() {
		dec, valid := DecodeRecord(iter.Value())
		if !valid {
			l.logger.Warn("skip corrupt record", logpkg.Uint64("seq", seqFromKey(iter.Key())))
			continue
		}
		var ev event.Event
		if err := json.Unmarshal(dec.Payload, &ev); err != nil {
			l.logger.Warn("skip undecodable event", logpkg.Err(err), logpkg.Uint64("seq", seqFromKey(iter.Key())))
			continue
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = headerTime(dec.Header)
		}
		items = append(items, Item{Seq: seqFromKey(iter.Key()), Event: ev})
	}
	return items
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Capacity returns the fixed maximum length.
func (l *Log) Capacity() int { return l.capacity }

// Counters reports lifetime totals.
type Counters struct {
	Appended uint64 `json:"appended"`
	Evicted  uint64 `json:"evicted"`
	LastSeq  uint64 `json:"last_seq"`
}

// Counters returns how many events were accepted and evicted since open.
func (l *Log) Counters() Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Counters{Appended: l.appended, Evicted: l.evicted, LastSeq: l.lastSeq}
}

// LastSeq returns the sequence of the newest entry (0 when nothing was appended).
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}
