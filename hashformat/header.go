// Package hashformat parses and serializes the fixed sparkey hash index
// header and its packed variable-width slots. Like logformat, the header
// layout follows compactindexsized's Header.Bytes()/Header.Load()
// magic-then-fields pattern; slot packing uses
// github.com/sparkeydb/sparkey/binpack's explicit byte-wise
// little-endian helpers, since slot widths (H+A) are rarely a power of
// two.
package hashformat

import (
	"encoding/binary"
	"fmt"

	"github.com/sparkeydb/sparkey/sperrors"
)

// Magic is the four-byte sequence every hash index file begins with.
// Distinct from logformat.Magic so a misrouted file is caught at Load
// time rather than silently misinterpreted.
var Magic = [4]byte{0x53, 0x90, 0x7F, 0x01}

const (
	MajorVersion = 1
	MinorVersion = 0

	// Size is the fixed on-disk size of the header, in bytes.
	Size = 64
)

// HashAlgorithm selects the width of the Murmur3-family hash stored per
// slot.
type HashAlgorithm uint32

const (
	Hash32 HashAlgorithm = iota
	Hash64
)

// Header is the parsed form of a sparkey hash index file's fixed prefix.
type Header struct {
	MajorVersion    uint32
	MinorVersion    uint32
	FileIdentifier  uint32
	HashSeed        uint64
	HashAlgorithm   HashAlgorithm
	Capacity        uint64 // C: number of slots
	EntryCount      uint64 // N: number of live entries inserted
	AddressSize     uint8  // A: bytes per address, in [4,8]
	HashSize        uint8  // H: bytes per hash, 4 or 8
	MaxDisplacement uint64 // D: max probe distance any insert required
	HeaderSize      uint32
}

// SlotWidth returns H+A, the size in bytes of one packed slot.
func (h *Header) SlotWidth() int { return int(h.HashSize) + int(h.AddressSize) }

// hash32Ceiling is the capacity above which a 32-bit truncated hash
// starts to see meaningful birthday-paradox collision rates; large
// capacities demand 64-bit hashes to keep the collision probability low.
// At this boundary the expected number of colliding pairs among C
// independent 32-bit hashes (~C^2/2^33) is about 128; a collision costs
// the hash reader an extra key comparison, not a wrong result.
const hash32Ceiling = 1 << 20

// ChooseHashWidth selects the hash algorithm/width for a table of the
// given capacity.
func ChooseHashWidth(capacity uint64) (HashAlgorithm, uint8) {
	if capacity <= hash32Ceiling {
		return Hash32, 4
	}
	return Hash64, 8
}

// Bytes serializes h into the fixed header layout.
func (h *Header) Bytes() []byte {
	buf := make([]byte, Size)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.MajorVersion)
	binary.LittleEndian.PutUint32(buf[8:12], h.MinorVersion)
	binary.LittleEndian.PutUint32(buf[12:16], h.FileIdentifier)
	binary.LittleEndian.PutUint64(buf[16:24], h.HashSeed)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(h.HashAlgorithm))
	binary.LittleEndian.PutUint64(buf[28:36], h.Capacity)
	binary.LittleEndian.PutUint64(buf[36:44], h.EntryCount)
	buf[44] = h.AddressSize
	buf[45] = h.HashSize
	binary.LittleEndian.PutUint64(buf[46:54], h.MaxDisplacement)
	binary.LittleEndian.PutUint32(buf[54:58], h.HeaderSize)
	return buf
}

// Load parses buf (which must be at least Size bytes) into h, validating
// magic, version, and the hash/address size bounds.
func (h *Header) Load(buf []byte) error {
	if len(buf) < Size {
		return fmt.Errorf("%w: got %d bytes, want %d", sperrors.HashTooSmall, len(buf), Size)
	}
	if [4]byte(buf[0:4]) != Magic {
		return sperrors.WrongHashMagicNumber
	}
	major := binary.LittleEndian.Uint32(buf[4:8])
	if major != MajorVersion {
		return fmt.Errorf("%w: got %d, want %d", sperrors.WrongHashMajorVersion, major, MajorVersion)
	}
	minor := binary.LittleEndian.Uint32(buf[8:12])
	if minor > MinorVersion {
		return fmt.Errorf("%w: got %d, max supported %d", sperrors.UnsupportedHashMinorVersion, minor, MinorVersion)
	}
	addrSize := buf[44]
	hashSize := buf[45]
	if addrSize < 4 || addrSize > 8 {
		return fmt.Errorf("%w: address size %d not in [4,8]", sperrors.HashSizeInvalid, addrSize)
	}
	if hashSize != 4 && hashSize != 8 {
		return fmt.Errorf("%w: hash size %d not in {4,8}", sperrors.HashSizeInvalid, hashSize)
	}
	*h = Header{
		MajorVersion:    major,
		MinorVersion:    minor,
		FileIdentifier:  binary.LittleEndian.Uint32(buf[12:16]),
		HashSeed:        binary.LittleEndian.Uint64(buf[16:24]),
		HashAlgorithm:   HashAlgorithm(binary.LittleEndian.Uint32(buf[24:28])),
		Capacity:        binary.LittleEndian.Uint64(buf[28:36]),
		EntryCount:      binary.LittleEndian.Uint64(buf[36:44]),
		AddressSize:     addrSize,
		HashSize:        hashSize,
		MaxDisplacement: binary.LittleEndian.Uint64(buf[46:54]),
		HeaderSize:      Size,
	}
	return nil
}
