// Package logformat parses and serializes the fixed 84-byte sparkey log
// header. The layout and field order mirror
// compactindexsized's Header.Bytes()/Header.Load() magic+fields pattern,
// scaled down to the log format's fixed-size (no variable metadata tail)
// shape.
package logformat

import (
	"encoding/binary"
	"fmt"

	"github.com/sparkeydb/sparkey/compressor"
	"github.com/sparkeydb/sparkey/sperrors"
)

// Magic is the four-byte sequence every log file begins with.
var Magic = [4]byte{0x49, 0x8B, 0x40, 0x7E}

const (
	MajorVersion = 2
	MinorVersion = 2

	// Size is the fixed on-disk size of the header, in bytes.
	Size = 84
)

// Header is the parsed form of a sparkey log file's 84-byte prefix.
type Header struct {
	MajorVersion  uint32
	MinorVersion  uint32
	FileIdentifier uint32
	NumPuts       uint64
	NumDeletes    uint64
	DataLen       uint64 // bytes of body, excluding this header
	MaxKeyLen     uint64
	MaxValueLen   uint64
	DeleteSize    uint64 // encoded overhead of delete entries
	PutSize       uint64 // encoded overhead of put entries
	CompressionType compressor.Type
	CompressionBlockSize uint32
	NumEntries    uint64
	HeaderSize    uint32
}

// NumEntriesOf returns puts+deletes, which must equal NumEntries.
func (h *Header) NumEntriesOf() uint64 { return h.NumPuts + h.NumDeletes }

// Bytes serializes h into the fixed 84-byte layout.
func (h *Header) Bytes() []byte {
	buf := make([]byte, Size)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.MajorVersion)
	binary.LittleEndian.PutUint32(buf[8:12], h.MinorVersion)
	binary.LittleEndian.PutUint32(buf[12:16], h.FileIdentifier)
	binary.LittleEndian.PutUint64(buf[16:24], h.NumPuts)
	binary.LittleEndian.PutUint64(buf[24:32], h.NumDeletes)
	binary.LittleEndian.PutUint64(buf[32:40], h.DataLen)
	binary.LittleEndian.PutUint64(buf[40:48], h.MaxKeyLen)
	binary.LittleEndian.PutUint64(buf[48:56], h.MaxValueLen)
	binary.LittleEndian.PutUint64(buf[56:64], h.DeleteSize)
	binary.LittleEndian.PutUint64(buf[64:72], h.PutSize)
	binary.LittleEndian.PutUint32(buf[72:76], uint32(h.CompressionType))
	binary.LittleEndian.PutUint32(buf[76:80], h.CompressionBlockSize)
	binary.LittleEndian.PutUint32(buf[80:84], h.HeaderSize)
	return buf
}

// Load parses buf (which must be at least Size bytes) into h, validating
// magic and version: wrong magic, wrong major version, and unsupported
// minor version are each distinct, non-internal errors.
func (h *Header) Load(buf []byte) error {
	if len(buf) < Size {
		return fmt.Errorf("%w: got %d bytes, want %d", sperrors.LogTooSmall, len(buf), Size)
	}
	if [4]byte(buf[0:4]) != Magic {
		return sperrors.WrongLogMagicNumber
	}
	major := binary.LittleEndian.Uint32(buf[4:8])
	if major != MajorVersion {
		return fmt.Errorf("%w: got %d, want %d", sperrors.WrongLogMajorVersion, major, MajorVersion)
	}
	minor := binary.LittleEndian.Uint32(buf[8:12])
	if minor > MinorVersion {
		return fmt.Errorf("%w: got %d, max supported %d", sperrors.UnsupportedLogMinorVersion, minor, MinorVersion)
	}
	*h = Header{
		MajorVersion:         major,
		MinorVersion:         minor,
		FileIdentifier:       binary.LittleEndian.Uint32(buf[12:16]),
		NumPuts:              binary.LittleEndian.Uint64(buf[16:24]),
		NumDeletes:           binary.LittleEndian.Uint64(buf[24:32]),
		DataLen:              binary.LittleEndian.Uint64(buf[32:40]),
		MaxKeyLen:            binary.LittleEndian.Uint64(buf[40:48]),
		MaxValueLen:          binary.LittleEndian.Uint64(buf[48:56]),
		DeleteSize:           binary.LittleEndian.Uint64(buf[56:64]),
		PutSize:              binary.LittleEndian.Uint64(buf[64:72]),
		CompressionType:      compressor.Type(binary.LittleEndian.Uint32(buf[72:76])),
		CompressionBlockSize: binary.LittleEndian.Uint32(buf[76:80]),
		HeaderSize:           Size,
	}
	h.NumEntries = h.NumPuts + h.NumDeletes
	storedHeaderSize := binary.LittleEndian.Uint32(buf[80:84])
	if storedHeaderSize != Size {
		return fmt.Errorf("%w: header size field %d != %d", sperrors.LogHeaderCorrupt, storedHeaderSize, Size)
	}
	if _, err := compressor.Get(h.CompressionType); err != nil {
		return err
	}
	if h.CompressionType != compressor.None {
		if h.CompressionBlockSize < 16 || h.CompressionBlockSize > 1<<30 {
			return fmt.Errorf("%w: %d", sperrors.InvalidCompressionBlockSize, h.CompressionBlockSize)
		}
	}
	return nil
}
