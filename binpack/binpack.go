// Package binpack implements explicit byte-wise little-endian packing
// for fields that don't fall on a power-of-two width, since sparkey's
// hash slots can be e.g. 4-byte hashes next to 5-byte addresses. Go
// struct layout cannot represent such widths directly, so pack/unpack go
// byte by byte to keep the format portable. Grounded on compactindexsized's
// putUintLe/uintLe helpers, generalized to a caller-supplied width.
package binpack

// PutUintLE writes the low len(buf) bytes of v into buf, little-endian.
// v must fit in len(buf) bytes; higher bits are silently discarded (the
// same "no bounds assertions" contract compactindexsized's putUintLe
// documents, since callers are expected to have already validated the
// width against the value being stored).
func PutUintLE(buf []byte, v uint64) {
	for i := range buf {
		buf[i] = byte(v)
		v >>= 8
	}
}

// UintLE reads a little-endian unsigned integer of len(buf) bytes.
// Widths greater than 8 are rejected by the caller (no field sparkey
// defines is ever wider than 8 bytes); reading fewer than 8 bytes zero-
// extends the missing high bytes.
func UintLE(buf []byte) uint64 {
	var v uint64
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(buf[i])
	}
	return v
}
