// Package vlq implements the unsigned variable-length integer codec used
// to frame every entry in a sparkey log.
//
// Values are encoded 7 bits at a time, least-significant group first, with
// the high bit of each byte set on every byte but the last. This is the
// same continuation-bit shape as multiformats/go-varint, but that package
// caps values at 63 bits to stay protobuf-varint compatible (see
// DESIGN.md) while this codec round-trips the full 64-bit range, so it is
// hand-rolled here in compactindexsized's byte-wise little-endian style
// (putUintLe/uintLe) rather than imported.
package vlq

import "github.com/sparkeydb/sparkey/sperrors"

// MaxLen is the largest number of bytes write can ever need: a full
// 64-bit value needs ceil(64/7) = 10 groups.
const MaxLen = 10

// Write encodes v into buf starting at offset 0 and returns the number of
// bytes written (1..MaxLen). buf must have at least MaxLen bytes of
// capacity.
func Write(buf []byte, v uint64) int {
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf[n] = b | 0x80
		} else {
			buf[n] = b
		}
		n++
		if v == 0 {
			break
		}
	}
	return n
}

// Read decodes a value starting at buf[*pos], advances *pos past the
// encoded bytes, and returns the decoded value. It returns
// sperrors.UnexpectedEOF if the continuation bits run past the end of buf
// before a terminating byte is found.
func Read(buf []byte, pos *int) (uint64, error) {
	var v uint64
	var shift uint
	p := *pos
	for i := 0; i < MaxLen; i++ {
		if p >= len(buf) {
			return 0, sperrors.UnexpectedEOF
		}
		b := buf[p]
		p++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			*pos = p
			return v, nil
		}
		shift += 7
	}
	return 0, sperrors.UnexpectedEOF
}

// Size returns the number of bytes Write(buf, v) would produce, without
// writing anything. Used by the writer to pre-size an entry buffer and
// to account the put/delete framing overhead in the log header.
func Size(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}
