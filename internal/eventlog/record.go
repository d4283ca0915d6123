package eventlog

import (
	"encoding/binary"
	"hash/crc32"
	"time"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

const trailerLen = 4

// EncodeRecord lays out varint headerLen | header | payload | crc32c(header|payload).
func EncodeRecord(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+trailerLen)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)
	return binary.BigEndian.AppendUint32(out, checksum(header, payload))
}

// Decoded is a verified record. Slices are copies, safe to retain.
type Decoded struct {
	Header  []byte
	Payload []byte
}

// DecodeRecord verifies the checksum and splits a record. ok is false for
// truncated or corrupt input.
func DecodeRecord(b []byte) (Decoded, bool) {
	if len(b) < 1+trailerLen {
		return Decoded{}, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || len(b)-n < trailerLen || uint64(len(b)-n-trailerLen) < hlen {
		return Decoded{}, false
	}
	body := b[n : len(b)-trailerLen]
	header, payload := body[:hlen], body[hlen:]
	if checksum(header, payload) != binary.BigEndian.Uint32(b[len(b)-trailerLen:]) {
		return Decoded{}, false
	}
	return Decoded{
		Header:  append([]byte(nil), header...),
		Payload: append([]byte(nil), payload...),
	}, true
}

func checksum(header, payload []byte) uint32 {
	crc := crc32.Update(0, castagnoli, header)
	return crc32.Update(crc, castagnoli, payload)
}

// timeHeader encodes the write time as 8 bytes big-endian milliseconds.
func timeHeader(t time.Time) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(t.UnixMilli()))
}

// headerTime is the inverse of timeHeader; zero time when the header is short.
func headerTime(h []byte) time.Time {
	if len(h) < 8 {
		return time.Time{}
	}
	return time.UnixMilli(int64(binary.BigEndian.Uint64(h[:8])))
}
