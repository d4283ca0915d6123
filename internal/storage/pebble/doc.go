// Package pebblestore is a thin wrapper around Pebble with an fsync policy,
// batches, and commit counters. With an empty DataDir it runs on Pebble's
// in-memory VFS, which is how the event log uses it: nothing survives a
// restart.
//
//	db, err := pebblestore.Open(pebblestore.Options{})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
package pebblestore
