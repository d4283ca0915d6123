package eventlog

import (
	"bytes"
	"testing"
)

func TestKeyOrderingEntries(t *testing.T) {
	a := KeyEntry("events", 10)
	b := KeyEntry("events", 11)
	if !bytes.HasPrefix(a, KeyEntryPrefix("events")) {
		t.Fatalf("entry key should carry the log prefix: %q", a)
	}
	if bytes.Compare(a, b) >= 0 {
		t.Fatalf("expected seq 10 < seq 11")
	}
	if seqFromKey(b) != 11 {
		t.Fatalf("seqFromKey: %d", seqFromKey(b))
	}
	if bytes.Compare(KeyEntry("events", ^uint64(0)), upperBound("events")) >= 0 {
		t.Fatalf("upper bound must sort after the last entry")
	}
}

func TestKeysIsolatedByName(t *testing.T) {
	if bytes.HasPrefix(KeyEntry("eventsx", 1), KeyEntryPrefix("events")) {
		t.Fatalf("names sharing a prefix must not share entry keys")
	}
}
