package eventlog

import (
	"testing"
	"time"
)

func TestRecordRoundtrip(t *testing.T) {
	header := []byte("h")
	payload := []byte("payload")
	rec := EncodeRecord(header, payload)
	dec, ok := DecodeRecord(rec)
	if !ok {
		t.Fatalf("decode failed")
	}
	if string(dec.Header) != string(header) {
		t.Fatalf("header mismatch")
	}
	if string(dec.Payload) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestRecordCRCFail(t *testing.T) {
	rec := EncodeRecord([]byte("x"), []byte("y"))
	rec[len(rec)-1] ^= 0xFF
	if _, ok := DecodeRecord(rec); ok {
		t.Fatalf("expected crc failure")
	}
}

func TestRecordTruncated(t *testing.T) {
	rec := EncodeRecord([]byte("header"), nil)
	if _, ok := DecodeRecord(rec[:4]); ok {
		t.Fatalf("expected failure on truncated record")
	}
}

func TestTimeHeader(t *testing.T) {
	now := time.UnixMilli(time.Now().UnixMilli())
	if got := headerTime(timeHeader(now)); !got.Equal(now) {
		t.Fatalf("got %v want %v", got, now)
	}
	if !headerTime(nil).IsZero() {
		t.Fatalf("short header should decode to zero time")
	}
}
