package compressor

import "github.com/golang/snappy"

// snappyCodec wraps github.com/golang/snappy for the SNAPPY compression
// type, the same library syncthing vendors for block compression.
type snappyCodec struct{}

func (snappyCodec) MaxCompressedSize(blockSize int) int {
	return snappy.MaxEncodedLen(blockSize)
}

func (snappyCodec) Compress(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst, src), nil
}

func (snappyCodec) Decompress(dst, src []byte) ([]byte, error) {
	// snappy.Decode only reuses dst when len(dst) is already at least the
	// decoded length; extend to cap so a pre-sized buffer is actually
	// reused instead of forcing a fresh allocation every call.
	return snappy.Decode(dst[:cap(dst)], src)
}
