// Package eventlog implements the bounded, shared event log.
//
// # Overview
//
// A Log holds at most Capacity events in insertion order. Appending to a full
// log evicts the oldest entry in the same atomic Pebble batch, so readers never
// observe more than Capacity entries. The store runs on Pebble's in-memory VFS;
// the log lives and dies with the process.
//
// Keys are lexicographically ordered so a range scan yields insertion order:
//   - log/{name}/e/{seq_be8}
//
// Records are stored as: varint headerLen | header | payload | crc32c(header|payload),
// where the header is the 8-byte big-endian write time in ms and the payload
// is the JSON-encoded event.
//
// API surface (internal)
//
//	l, _ := OpenLog(db, "events", 50, logger)
//	seq := l.Append(ev)          // never fails from the caller's view
//	evs := l.Snapshot()          // copy of the current contents, oldest first
//	items := l.ReadAfter(seq)    // entries newer than seq (for tailing)
//	woke := l.WaitForAppend(ctx, 200*time.Millisecond)
//
// # Concurrency
//
// Every read and write runs under one mutex, which makes Append and Snapshot
// linearizable. Snapshot decodes fresh values; callers never see store memory.
package eventlog
