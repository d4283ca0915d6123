package eventlog

import (
	"encoding/binary"
)

var (
	logPrefix = []byte("log/")
	entrySeg  = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyEntryPrefix returns log/{name}/e/, the common prefix of all entries.
func KeyEntryPrefix(name string) []byte {
	k := make([]byte, 0, len(name)+16)
	k = append(k, logPrefix...)
	k = append(k, name...)
	k = append(k, entrySeg...)
	return k
}

// KeyEntry builds the entry key with a big-endian sequence for proper ordering.
func KeyEntry(name string, seq uint64) []byte {
	return appendBE8(KeyEntryPrefix(name), seq)
}

// seqFromKey extracts the trailing sequence of an entry key.
func seqFromKey(k []byte) uint64 {
	if len(k) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(k[len(k)-8:])
}

// upperBound returns the first key past every entry of name.
func upperBound(name string) []byte {
	return append(KeyEntry(name, ^uint64(0)), 0x00)
}
