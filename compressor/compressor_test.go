package compressor

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripAllCodecs(t *testing.T) {
	src := make([]byte, 8192)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range src {
		// Mildly compressible: random bytes from a six-symbol alphabet.
		src[i] = byte(r.IntN(6))
	}

	for _, typ := range []Type{None, Snappy, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := Get(typ)
			require.NoError(t, err)

			dst := make([]byte, codec.MaxCompressedSize(len(src)))
			compressed, err := codec.Compress(dst, src)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(make([]byte, 0, len(src)), compressed)
			require.NoError(t, err)
			require.True(t, bytes.Equal(src, decompressed))
		})
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{"": None, "none": None, "snappy": Snappy, "zstd": Zstd}
	for name, want := range cases {
		got, err := ParseType(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseType("lz4")
	require.Error(t, err)
}
