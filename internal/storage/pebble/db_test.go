package pebblestore

import (
	"context"
	"testing"

	"github.com/cockroachdb/pebble"
)

func TestInMemoryBatchAndIter(t *testing.T) {
	db, err := Open(Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if !db.InMemory() {
		t.Fatalf("empty DataDir should select the in-memory store")
	}

	b := db.NewBatch()
	for _, k := range []string{"a", "b", "c"} {
		if err := b.Set([]byte(k), []byte("v-"+k), nil); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	_ = b.Close()

	it, err := db.NewIter(&pebble.IterOptions{LowerBound: []byte("b")})
	if err != nil {
		t.Fatalf("iter: %v", err)
	}
	defer it.Close()
	var got []string
	for ok := it.First(); ok; ok = it.Next() {
		got = append(got, string(it.Key()))
	}
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected keys: %v", got)
	}

	st := db.Stats()
	if st.Commits != 1 || st.CommitBytes == 0 || st.LastCommit.IsZero() {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestOnDiskOpen(t *testing.T) {
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if db.InMemory() {
		t.Fatalf("expected on-disk store")
	}
}

func TestCommitBatchRejectsCancelledContext(t *testing.T) {
	db, err := Open(Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := db.NewBatch()
	defer b.Close()
	_ = b.Set([]byte("k"), []byte("v"), nil)
	if err := db.CommitBatch(ctx, b); err == nil {
		t.Fatalf("expected context error")
	}
	if err := db.CommitBatch(context.Background(), nil); err == nil {
		t.Fatalf("expected nil batch error")
	}
}
