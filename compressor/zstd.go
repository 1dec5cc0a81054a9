package compressor

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdCodec wraps github.com/klauspost/compress/zstd for the ZSTD
// compression type. The encoder/decoder pair is shared package-wide
// since both EncodeAll and DecodeAll are documented safe for concurrent
// use, avoiding a per-block allocation of encoder state.
type zstdCodec struct{}

var (
	zstdEncOnce sync.Once
	zstdEnc     *zstd.Encoder
	zstdDecOnce sync.Once
	zstdDec     *zstd.Decoder
)

func getZstdEncoder() *zstd.Encoder {
	zstdEncOnce.Do(func() {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(err)
		}
		zstdEnc = enc
	})
	return zstdEnc
}

func getZstdDecoder() *zstd.Decoder {
	zstdDecOnce.Do(func() {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		zstdDec = dec
	})
	return zstdDec
}

func (zstdCodec) MaxCompressedSize(blockSize int) int {
	// Conservative bound matching zstd's own worst-case frame overhead:
	// source size plus ~0.4% plus a fixed frame/header allowance.
	return blockSize + blockSize>>8 + 256
}

func (zstdCodec) Compress(dst, src []byte) ([]byte, error) {
	out := getZstdEncoder().EncodeAll(src, dst[:0])
	return out, nil
}

func (zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	out, err := getZstdDecoder().DecodeAll(src, dst[:0])
	if err != nil {
		return nil, err
	}
	return out, nil
}
