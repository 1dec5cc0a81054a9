// Package compressor implements sparkey's pluggable block compressor
// registry: a fixed table keyed by a small enum, each entry exposing
// MaxCompressedSize/Compress/Decompress. NONE is registered as an
// identity codec so callers can always obtain a Codec value; the log
// writer and reader still check for Type == None and bypass the codec
// in that case.
package compressor

import (
	"fmt"

	"github.com/sparkeydb/sparkey/sperrors"
)

// Type identifies a compression algorithm. It is stored verbatim in the
// log header's compression-type field.
type Type uint32

const (
	None Type = iota
	Snappy
	Zstd
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// ParseType maps a CLI-facing name (as accepted by createlog/rewrite's -c
// flag) to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "none", "":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", sperrors.InvalidCompressionType, name)
	}
}

// Codec is the interface every registry entry implements.
type Codec interface {
	// MaxCompressedSize returns an upper bound on the compressed size of
	// a block of the given uncompressed size.
	MaxCompressedSize(blockSize int) int
	// Compress writes the compressed form of src into dst (which must be
	// at least MaxCompressedSize(len(src)) bytes) and returns the slice
	// of dst actually used.
	Compress(dst, src []byte) ([]byte, error)
	// Decompress writes the decompressed form of src into dst's backing
	// array (reusing its capacity when it is large enough; dst's length
	// is ignored) and returns the slice holding the decompressed bytes.
	Decompress(dst, src []byte) ([]byte, error)
}

// Get returns the Codec for t, or InvalidCompressionType if t is not one
// of the registered enum values.
func Get(t Type) (Codec, error) {
	switch t {
	case None:
		return noneCodec{}, nil
	case Snappy:
		return snappyCodec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", sperrors.InvalidCompressionType, uint32(t))
	}
}

// noneCodec treats compress/decompress as identity copies; used only by
// callers that need a uniform Codec value. The writer's hot path for
// Type == None never calls through this interface at all; writes go
// directly to the file.
type noneCodec struct{}

func (noneCodec) MaxCompressedSize(blockSize int) int { return blockSize }

func (noneCodec) Compress(dst, src []byte) ([]byte, error) {
	n := copy(dst, src)
	return dst[:n], nil
}

func (noneCodec) Decompress(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
