package store

import (
	"encoding/binary"
	"encoding/json"
)

// encodeIndex big-endian-encodes a log index so the store's lexicographic
// key order matches numeric order (P6: round-trips for all of [0, 2^64)).
func encodeIndex(index uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, index)
	return buf
}

func decodeIndex(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

func encodeValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decodeValue(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
